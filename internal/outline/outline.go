// Package outline parses tab-indented text into an ordered tree and assigns
// a color band to every top-level branch.
package outline

import (
	"strings"
)

// Node is one entry of the outline tree. The root is synthetic: it carries
// the document name and is never rendered as a text line.
type Node struct {
	Label    string
	Color    string
	Children []*Node
}

// Line is a raw text line reduced to its indentation depth and content.
type Line struct {
	Depth int
	Label string
}

// Walk visits n and its descendants in pre-order. depth is 0 for n.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	var visit func(*Node, int)
	visit = func(node *Node, depth int) {
		fn(node, depth)
		for _, c := range node.Children {
			visit(c, depth+1)
		}
	}
	visit(n, 0)
}

// Size returns the number of nodes in the tree rooted at n, n included.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node, int) { count++ })
	return count
}

// SplitLines drops blank lines and returns the rest as Lines in input order.
func SplitLines(text string) []Line {
	raw := strings.Split(text, "\n")
	out := make([]Line, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, Line{Depth: leadingTabs(l), Label: cleanLabel(l)})
	}
	return out
}

// leadingTabs counts tab characters before the first non-tab byte.
func leadingTabs(line string) int {
	n := 0
	for n < len(line) && line[n] == '\t' {
		n++
	}
	return n
}

// cleanLabel strips indentation tabs, list-marker dashes and surrounding
// whitespace, in that order.
func cleanLabel(line string) string {
	s := strings.Trim(line, "\t")
	s = strings.Trim(s, "-")
	return strings.TrimSpace(s)
}

// Parse builds the outline tree for text under a synthetic root labeled
// rootLabel.
//
// A line with depth d attaches to the d-th node of the current ancestor
// chain (the root is entry 0). Indentation that jumps more than one level
// is not an error: the line attaches to the deepest node in the chain,
// which is the nearest ancestor that exists.
func Parse(text, rootLabel string, palette []string) *Node {
	cursor := newColorCursor(palette)
	root := &Node{Label: rootLabel, Color: cursor.current()}

	chain := []*Node{root}
	for _, line := range SplitLines(text) {
		if line.Depth == 0 {
			cursor = cursor.advance()
		}
		level := line.Depth + 1
		if level > len(chain) {
			level = len(chain)
		}
		parent := chain[level-1]
		node := &Node{Label: line.Label, Color: cursor.current()}
		parent.Children = append(parent.Children, node)
		chain = append(chain[:level], node)
	}
	return root
}

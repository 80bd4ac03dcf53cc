package mindmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/starford/mindsync/internal/apperr"
)

// Raw traversal depth counts the document root element as 1. The first
// <nodename> (the synthetic root label) sits at wrapperDepth:
// <minder> > <nodes> > <node> > <nodename>. Every outline level below it
// adds a <nodes> grouping element and a <node>.
const (
	wrapperDepth          = 4
	levelsPerOutlineLevel = 2
)

// OutlineDepth maps the raw element depth of a <nodename> to the tab depth
// of its outline line. Top-level branches map to 0 and the root label to -1.
func OutlineDepth(raw int) int {
	return floorDiv(raw-wrapperDepth, levelsPerOutlineLevel) - 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Decode parses a Minder document and renders its node hierarchy as
// indented outline text.
//
// Top-level blocks are emitted in lexicographic order, not document order,
// so repeated round trips converge on one layout.
func Decode(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("mindmap: parse graph: %v: %w", err, apperr.ErrMalformedGraph)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("mindmap: graph has no root element: %w", apperr.ErrMalformedGraph)
	}

	var blocks []string
	var current strings.Builder
	first := true

	walkNames(root, func(name *etree.Element, raw int) {
		if first {
			first = false
			return
		}
		depth := OutlineDepth(raw)
		if depth == 0 {
			blocks = append(blocks, current.String())
			current.Reset()
		}
		current.WriteString(strings.Repeat("\t", max(depth, 0)))
		current.WriteString("- ")
		current.WriteString(name.Text())
		current.WriteString("\n")
	})
	blocks = append(blocks, current.String())

	return joinBlocks(blocks), nil
}

// walkNames visits every <nodename> element under root in document order,
// tracking depth with an explicit stack instead of recursion.
func walkNames(root *etree.Element, visit func(el *etree.Element, raw int)) {
	type frame struct {
		el    *etree.Element
		depth int
	}
	stack := []frame{{el: root, depth: 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.el.Tag == tagNodeName {
			visit(top.el, top.depth)
		}
		children := top.el.ChildElements()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{el: children[i], depth: top.depth + 1})
		}
	}
}

func joinBlocks(blocks []string) string {
	kept := blocks[:0]
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	sort.Strings(kept)
	for i, b := range kept {
		kept[i] = strings.TrimRight(b, "\n")
	}
	return strings.Trim(strings.Join(kept, "\n\n"), "\n")
}

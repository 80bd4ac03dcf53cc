package outline

import (
	"fmt"
	"testing"
)

func labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func TestParse_Scenario(t *testing.T) {
	root := Parse("A\n\tA1\nB\n", "root", []string{"red", "blue"})

	if root.Label != "root" {
		t.Fatalf("root label = %q", root.Label)
	}
	if got := labels(root.Children); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("top-level = %v, want [A B]", got)
	}
	a, b := root.Children[0], root.Children[1]
	if len(a.Children) != 1 || a.Children[0].Label != "A1" {
		t.Fatalf("A children = %v, want [A1]", labels(a.Children))
	}
	if a.Color != "red" || a.Children[0].Color != "red" {
		t.Errorf("A/A1 colors = %q/%q, want red", a.Color, a.Children[0].Color)
	}
	if b.Color != "blue" {
		t.Errorf("B color = %q, want blue", b.Color)
	}
}

func TestParse_BlankLinesDiscarded(t *testing.T) {
	root := Parse("\n\nA\n   \n\t\n\tA1\n\n", "r", nil)
	if root.Size() != 3 {
		t.Fatalf("size = %d, want 3", root.Size())
	}
}

func TestParse_StripsListMarkers(t *testing.T) {
	root := Parse("- A\n\t- A1\n\t\t-- deep -\n", "r", nil)
	a := root.Children[0]
	if a.Label != "A" {
		t.Errorf("label = %q, want A", a.Label)
	}
	if a.Children[0].Label != "A1" {
		t.Errorf("label = %q, want A1", a.Children[0].Label)
	}
	if got := a.Children[0].Children[0].Label; got != "deep" {
		t.Errorf("label = %q, want deep", got)
	}
}

func TestParse_KeepsInnerDashes(t *testing.T) {
	root := Parse("- well-known fact\n", "r", nil)
	if got := root.Children[0].Label; got != "well-known fact" {
		t.Errorf("label = %q", got)
	}
}

func TestParse_IndentJumpAttachesToNearestAncestor(t *testing.T) {
	// C jumps from depth 0 to depth 3; it lands under A, the deepest node.
	root := Parse("A\n\t\t\tC\n\tD\n", "r", nil)
	a := root.Children[0]
	if got := labels(a.Children); len(got) != 2 || got[0] != "C" || got[1] != "D" {
		t.Fatalf("A children = %v, want [C D]", got)
	}
	if len(a.Children[0].Children) != 0 {
		t.Errorf("C should be a leaf")
	}
}

func TestParse_DedentReturnsToAncestor(t *testing.T) {
	root := Parse("A\n\tA1\n\t\tA11\n\tA2\nB\n", "r", nil)
	a := root.Children[0]
	if got := labels(a.Children); len(got) != 2 || got[0] != "A1" || got[1] != "A2" {
		t.Fatalf("A children = %v, want [A1 A2]", got)
	}
	if got := labels(a.Children[0].Children); len(got) != 1 || got[0] != "A11" {
		t.Fatalf("A1 children = %v", got)
	}
}

func TestParse_ColorCycling(t *testing.T) {
	palette := []string{"red", "blue", "green"}
	const branches = 7

	text := ""
	for i := 1; i <= branches; i++ {
		text += fmt.Sprintf("B%d\n\tchild%d\n\t\tgrandchild%d\n", i, i, i)
	}
	root := Parse(text, "r", palette)

	if len(root.Children) != branches {
		t.Fatalf("branches = %d", len(root.Children))
	}
	for i, branch := range root.Children {
		want := palette[i%len(palette)]
		branch.Walk(func(n *Node, _ int) {
			if n.Color != want {
				t.Errorf("branch %d node %q color = %q, want %q", i+1, n.Label, n.Color, want)
			}
		})
	}
}

func TestParse_RootTakesFirstColor(t *testing.T) {
	root := Parse("A\n", "r", []string{"red", "blue"})
	if root.Color != "red" {
		t.Errorf("root color = %q, want red", root.Color)
	}
}

func TestParse_EmptyPalette(t *testing.T) {
	root := Parse("A\n", "r", nil)
	if root.Color != "" || root.Children[0].Color != "" {
		t.Errorf("expected empty colors with empty palette")
	}
}

func TestBranchColor(t *testing.T) {
	palette := []string{"red", "blue"}
	cases := []struct {
		i    int
		want string
	}{
		{0, "red"},
		{1, "red"},
		{2, "blue"},
		{3, "red"},
		{4, "blue"},
	}
	for _, tc := range cases {
		if got := BranchColor(palette, tc.i); got != tc.want {
			t.Errorf("BranchColor(%d) = %q, want %q", tc.i, got, tc.want)
		}
	}
}

func TestSplitLines_DepthIsLeadingTabsOnly(t *testing.T) {
	lines := SplitLines("\t\tfoo\tbar\n")
	if len(lines) != 1 {
		t.Fatalf("len = %d", len(lines))
	}
	if lines[0].Depth != 2 {
		t.Errorf("depth = %d, want 2", lines[0].Depth)
	}
	if lines[0].Label != "foo\tbar" {
		t.Errorf("label = %q", lines[0].Label)
	}
}

func TestWalk_PreOrderDepths(t *testing.T) {
	root := Parse("A\n\tA1\nB\n", "r", nil)
	var got []string
	root.Walk(func(n *Node, depth int) {
		got = append(got, fmt.Sprintf("%d:%s", depth, n.Label))
	})
	want := []string{"0:r", "1:A", "2:A1", "1:B"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("walk = %v, want %v", got, want)
	}
}

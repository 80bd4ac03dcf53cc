package mindmap

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/starford/mindsync/internal/apperr"
	"github.com/starford/mindsync/internal/outline"
)

func render(t *testing.T, text, name string, palette []string) []byte {
	t.Helper()
	out, err := FromOutline(DefaultTemplate(), text, name, palette)
	if err != nil {
		t.Fatalf("FromOutline: %v", err)
	}
	return out
}

func parseDoc(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("rendered document does not parse: %v", err)
	}
	return doc
}

// preorderNodes collects <node> elements in document order.
func preorderNodes(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == "node" {
			out = append(out, c)
		}
		out = append(out, preorderNodes(c)...)
	}
	return out
}

func TestRender_Scenario(t *testing.T) {
	out := render(t, "A\n\tA1\nB\n", "root", []string{"Red", "Blue"})
	doc := parseDoc(t, out)

	nodes := preorderNodes(doc.Root())
	if len(nodes) != 4 {
		t.Fatalf("node count = %d, want 4", len(nodes))
	}
	want := []struct{ id, name, color string }{
		{"0", "root", "red"},
		{"1", "A", "red"},
		{"2", "A1", "red"},
		{"3", "B", "blue"},
	}
	for i, w := range want {
		n := nodes[i]
		if got := n.SelectAttrValue("id", ""); got != w.id {
			t.Errorf("node %d id = %q, want %q", i, got, w.id)
		}
		if got := n.SelectElement("nodename").Text(); got != w.name {
			t.Errorf("node %d name = %q, want %q", i, got, w.name)
		}
		if got := n.SelectAttrValue("color", ""); got != w.color {
			t.Errorf("node %s color = %q, want %q", w.name, got, w.color)
		}
		if note := n.SelectElement("nodenote"); note == nil || note.Text() != "" {
			t.Errorf("node %s should carry an empty nodenote", w.name)
		}
	}

	text, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "- A\n\t- A1\n\n- B" {
		t.Errorf("decoded = %q", text)
	}
}

func TestRender_PrettyPrintedWithHeader(t *testing.T) {
	out := string(render(t, "A\n", "root", []string{"red"}))
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("missing xml declaration: %q", out[:20])
	}
	if !strings.Contains(out, "\n   <theme") {
		t.Errorf("expected 3-space indentation")
	}
	if !strings.Contains(out, "<nodename>A</nodename>") {
		t.Errorf("labels should stay inline")
	}
}

func TestRender_ConstantStyleDefaults(t *testing.T) {
	doc := parseDoc(t, render(t, "A\n\tB\n", "root", []string{"red"}))
	for _, n := range preorderNodes(doc.Root()) {
		if n.SelectAttrValue("treesize", "") != "10000000" || n.SelectAttrValue("side", "") != "right" {
			t.Errorf("node %s missing geometry defaults", n.SelectAttrValue("id", ""))
		}
		style := n.SelectElement("style")
		if style == nil || style.SelectAttrValue("nodefont", "") != "Sans 15" {
			t.Errorf("node %s missing style defaults", n.SelectAttrValue("id", ""))
		}
	}
}

func TestRender_ASCIISafe(t *testing.T) {
	out := render(t, "café ☕\n", "naïve", []string{"red"})
	for i, b := range out {
		if b >= 0x80 {
			t.Fatalf("non-ASCII byte %#x at offset %d", b, i)
		}
	}
	if !strings.Contains(string(out), "caf&#233;") {
		t.Errorf("expected numeric character reference in output")
	}
	text, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "- café ☕" {
		t.Errorf("decoded = %q", text)
	}
}

func TestRender_ReplacesTemplateNodes(t *testing.T) {
	tmpl := Template{data: []byte(`<minder><theme name="x"/><nodes><node><nodename>stale</nodename></node></nodes></minder>`)}
	out, err := FromOutline(tmpl, "fresh\n", "root", nil)
	if err != nil {
		t.Fatalf("FromOutline: %v", err)
	}
	doc := parseDoc(t, out)
	if n := len(doc.Root().SelectElements("nodes")); n != 1 {
		t.Fatalf("top-level nodes elements = %d, want 1", n)
	}
	if strings.Contains(string(out), "stale") {
		t.Error("stale template content survived")
	}
	if doc.Root().SelectElement("theme") == nil {
		t.Error("template boilerplate was dropped")
	}
}

func TestLoadTemplate_Empty(t *testing.T) {
	tmpl, err := LoadTemplate("")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if string(tmpl.data) != string(defaultTemplate) {
		t.Error("empty path should select the embedded template")
	}
}

func TestLoadTemplate_Missing(t *testing.T) {
	if _, err := LoadTemplate(t.TempDir() + "/nope.minder"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestOutlineDepth(t *testing.T) {
	cases := []struct{ raw, want int }{
		{4, -1}, // root label
		{6, 0},
		{8, 1},
		{10, 2},
		{20, 7},
		{5, -1},
		{3, -2},
		{2, -2},
	}
	for _, tc := range cases {
		if got := OutlineDepth(tc.raw); got != tc.want {
			t.Errorf("OutlineDepth(%d) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestOutlineDepth_MatchesEncoderNesting(t *testing.T) {
	for n := 1; n <= 8; n++ {
		var sb strings.Builder
		for d := 0; d < n; d++ {
			sb.WriteString(strings.Repeat("\t", d))
			fmt.Fprintf(&sb, "level%d\n", d)
		}
		doc := parseDoc(t, render(t, sb.String(), "root", nil))

		var depths []int
		walkNames(doc.Root(), func(_ *etree.Element, raw int) {
			depths = append(depths, OutlineDepth(raw))
		})
		if len(depths) != n+1 {
			t.Fatalf("n=%d: visited %d names, want %d", n, len(depths), n+1)
		}
		if depths[0] != -1 {
			t.Errorf("n=%d: root depth = %d, want -1", n, depths[0])
		}
		for d := 0; d < n; d++ {
			if depths[d+1] != d {
				t.Errorf("n=%d: level%d decoded depth = %d", n, d, depths[d+1])
			}
		}
	}
}

func TestRoundTrip_CanonicalOutline(t *testing.T) {
	text := "- alpha\n\t- a1\n\t\t- a11\n\t\t- a12\n\t- a2\n\n- beta\n\t- b1\n\n- gamma"
	got, err := Decode(render(t, text, "doc", []string{"red", "blue"}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != text {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, text)
	}
}

func TestRoundTrip_Converges(t *testing.T) {
	text := "zeta\n\tz1\nalpha\n\n\n\ta1\nmid\n"
	first, err := Decode(render(t, text, "doc", nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := Decode(render(t, first, "doc", nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if first != second {
		t.Errorf("round trip did not converge:\n%q\n%q", first, second)
	}
}

// Top-level blocks come back in lexicographic order rather than the order
// the user authored in the mind map. This is long-standing behavior that
// users see; change it deliberately, not by accident.
func TestDecode_TopLevelBlocksAreSorted(t *testing.T) {
	root := &outline.Node{Label: "doc", Children: []*outline.Node{
		{Label: "zeta", Children: []*outline.Node{{Label: "z1"}}},
		{Label: "alpha"},
	}}
	out, err := Render(DefaultTemplate(), root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "- alpha\n\n- zeta\n\t- z1" {
		t.Errorf("decoded = %q", got)
	}
}

func TestDecode_RootOnly(t *testing.T) {
	got, err := Decode(render(t, "", "doc", nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "" {
		t.Errorf("decoded = %q, want empty", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{"", "<minder attr=>", "not xml <"} {
		_, err := Decode([]byte(in))
		if err == nil {
			t.Errorf("Decode(%q): expected error", in)
			continue
		}
		if !errors.Is(err, apperr.ErrMalformedGraph) {
			t.Errorf("Decode(%q): error %v does not wrap ErrMalformedGraph", in, err)
		}
	}
}

func TestEncode_IDsArePreOrder(t *testing.T) {
	root := outline.Parse("A\n\tA1\n\t\tA11\n\tA2\nB\n\tB1\n", "r", nil)
	wrapper := Encode(root)
	var ids []string
	var names []string
	for _, n := range preorderNodes(wrapper) {
		ids = append(ids, n.SelectAttrValue("id", ""))
		names = append(names, n.SelectElement("nodename").Text())
	}
	if got := strings.Join(ids, ","); got != "0,1,2,3,4,5,6" {
		t.Errorf("ids = %s", got)
	}
	if got := strings.Join(names, ","); got != "r,A,A1,A11,A2,B,B1" {
		t.Errorf("names = %s", got)
	}
}

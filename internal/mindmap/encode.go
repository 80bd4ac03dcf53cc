package mindmap

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/starford/mindsync/internal/outline"
)

// Element and attribute names of the Minder node schema.
const (
	tagNodes    = "nodes"
	tagNode     = "node"
	tagStyle    = "style"
	tagNodeName = "nodename"
	tagNodeNote = "nodenote"

	indentSpaces = 3
	xmlHeader    = `<?xml version="1.0" ?>`
)

type attr struct{ key, value string }

// nodeDefaults are the geometry attributes shared by every node; only id
// and color vary.
var nodeDefaults = []attr{
	{"posx", "0"},
	{"posy", "0"},
	{"maxwidth", "200"},
	{"width", "0"},
	{"height", "0"},
	{"side", "right"},
	{"fold", "false"},
	{"treesize", "10000000"},
	{"layout", "Horizontal"},
}

var styleDefaults = []attr{
	{"linktype", "curved"},
	{"linkwidth", "8"},
	{"linkarrow", "false"},
	{"linkdash", "solid"},
	{"nodeborder", "rounded"},
	{"nodewidth", "200"},
	{"nodeborderwidth", "4"},
	{"nodefill", "false"},
	{"nodemargin", "20"},
	{"nodepadding", "20"},
	{"nodefont", "Sans 15"},
	{"nodemarkup", "true"},
}

// Encode converts an outline tree into a <nodes> element that holds the
// root <node>. Ids are assigned in pre-order starting at 0.
func Encode(root *outline.Node) *etree.Element {
	wrapper := etree.NewElement(tagNodes)
	nextID := 0
	var emit func(parent *etree.Element, n *outline.Node)
	emit = func(parent *etree.Element, n *outline.Node) {
		el := addNode(parent, n, nextID)
		nextID++
		if len(n.Children) == 0 {
			return
		}
		children := el.CreateElement(tagNodes)
		for _, c := range n.Children {
			emit(children, c)
		}
	}
	emit(wrapper, root)
	return wrapper
}

func addNode(parent *etree.Element, n *outline.Node, id int) *etree.Element {
	el := parent.CreateElement(tagNode)
	el.CreateAttr("id", fmt.Sprint(id))
	for _, a := range nodeDefaults {
		el.CreateAttr(a.key, a.value)
	}
	el.CreateAttr("color", strings.ToLower(n.Color))

	style := el.CreateElement(tagStyle)
	for _, a := range styleDefaults {
		style.CreateAttr(a.key, a.value)
	}
	el.CreateElement(tagNodeName).SetText(n.Label)
	el.CreateElement(tagNodeNote).SetText("")
	return el
}

// Render encodes root, inserts it into the template in place of any existing
// top-level <nodes> element, and serializes the result pretty-printed and
// ASCII-safe.
func Render(tmpl Template, root *outline.Node) ([]byte, error) {
	doc, err := tmpl.document()
	if err != nil {
		return nil, err
	}
	top := doc.Root()
	for _, old := range top.SelectElements(tagNodes) {
		top.RemoveChild(old)
	}
	top.AddChild(Encode(root))

	doc.Indent(indentSpaces)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("mindmap: serialize: %w", err)
	}
	out = asciiSafe(out)
	if !bytes.HasPrefix(out, []byte("<?xml")) {
		out = append([]byte(xmlHeader+"\n"), out...)
	}
	return out, nil
}

// asciiSafe replaces every non-ASCII rune with a numeric character
// reference. Tag and attribute names are ASCII, so only text and attribute
// values are affected.
func asciiSafe(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r < utf8.RuneSelf {
			buf.WriteByte(data[0])
		} else {
			fmt.Fprintf(&buf, "&#%d;", r)
		}
		data = data[size:]
	}
	return buf.Bytes()
}

// FromOutline parses outline text under a root labeled name and renders it
// as a complete Minder document.
func FromOutline(tmpl Template, text, name string, palette []string) ([]byte, error) {
	return Render(tmpl, outline.Parse(text, name, palette))
}

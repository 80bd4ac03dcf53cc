// Package mindmap converts outline trees to Minder mind-map documents and back.
package mindmap

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/beevik/etree"

	"github.com/starford/mindsync/internal/apperr"
)

//go:embed template.minder
var defaultTemplate []byte

// Template is the fixed document boilerplate the encoded node tree is
// inserted into.
type Template struct {
	data []byte
}

// DefaultTemplate returns the embedded Minder template.
func DefaultTemplate() Template {
	return Template{data: defaultTemplate}
}

// LoadTemplate reads a template from path. An empty path selects the
// embedded template.
func LoadTemplate(path string) (Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("mindmap: read template %s: %w", path, err)
	}
	t := Template{data: data}
	if _, err := t.document(); err != nil {
		return Template{}, err
	}
	return t, nil
}

// document parses a fresh copy of the template.
func (t Template) document() (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(t.data); err != nil {
		return nil, fmt.Errorf("mindmap: parse template: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("mindmap: template has no root element: %w", apperr.ErrMalformedGraph)
	}
	return doc, nil
}

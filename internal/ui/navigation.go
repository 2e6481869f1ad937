package ui

import (
	"bytes"
	"html/template"
	"io"
	"io/fs"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
)

type NavigationTemplateData struct {
	HeadTemplateData

	// Label is the accessible name of the <nav> element
	Label      string
	CurrentURL string
	Tree       []*navigation.Node
	// ID and Class are set on the root <ul>
	ID    string
	Class string
}

// Renderer writes navigation trees as nested <ul> lists
type Renderer struct {
	tmpl *template.Template
}

// Fragment renders the <nav> element only
func (r *Renderer) Fragment(w io.Writer, data NavigationTemplateData) error {
	return r.execute(w, "navigation", data)
}

// Page renders a standalone HTML document
func (r *Renderer) Page(w io.Writer, data NavigationTemplateData) error {
	return r.execute(w, "page", data)
}

func (r *Renderer) execute(w io.Writer, name string, data NavigationTemplateData) error {
	var buff bytes.Buffer

	if err := r.tmpl.ExecuteTemplate(&buff, name, data); err != nil {
		return errors.Wrapf(err, "could not execute template '%s'", name)
	}

	if _, err := io.Copy(w, &buff); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// NewRenderer parses the embedded templates. Given filesystems may
// override them, see Templates.
func NewRenderer(filesystems ...fs.FS) (*Renderer, error) {
	tmpl, err := Templates(nil, filesystems...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

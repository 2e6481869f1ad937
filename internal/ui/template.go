package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/dustin/go-humanize"
	"github.com/laher/mergefs"
	"github.com/pkg/errors"
)

//go:embed templates/**
var commonFs embed.FS

var commonFuncs = template.FuncMap{
	"humanizeInt": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"href":       Href,
	"isCurrent":  IsCurrent,
	"inTrail":    InTrail,
	"countNodes": CountNodes,
}

// Templates parses the embedded views and layouts, merged with the given
// filesystems. Files of later filesystems override the embedded ones.
func Templates(funcs template.FuncMap, filesystems ...fs.FS) (*template.Template, error) {
	filesystems = append([]fs.FS{commonFs}, filesystems...)
	merged := mergefs.Merge(filesystems...)

	views, err := fs.Glob(merged, "**/views/*.gohtml")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	layouts, err := fs.Glob(merged, "**/layouts/*.gohtml")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	templates := append(views, layouts...)

	tmpl := template.New("").Funcs(sprig.FuncMap()).Funcs(commonFuncs)

	if funcs != nil {
		tmpl = tmpl.Funcs(funcs)
	}

	tmpl, err = tmpl.ParseFS(merged, templates...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tmpl, nil
}

// Href returns the link target of a node, its fragment appended
func Href(node *navigation.Node) string {
	if node.Fragment == "" {
		return node.URI
	}

	return node.URI + "#" + strings.TrimPrefix(node.Fragment, "#")
}

// IsCurrent reports whether the node links to the current URL
func IsCurrent(node *navigation.Node, currentURL string) bool {
	if currentURL == "" {
		return false
	}

	return Href(node) == currentURL
}

// InTrail reports whether the node or one of its descendants is current
func InTrail(node *navigation.Node, currentURL string) bool {
	if IsCurrent(node, currentURL) {
		return true
	}

	for _, child := range node.Children {
		if InTrail(child, currentURL) {
			return true
		}
	}

	return false
}

func CountNodes(nodes []*navigation.Node) int {
	count := len(nodes)
	for _, n := range nodes {
		count += CountNodes(n.Children)
	}

	return count
}

type HeadTemplateData struct {
	PageTitle string
}

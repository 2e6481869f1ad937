package handler

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const TypeDir Type = "dir"

func init() {
	Register(TypeDir, CreateDirFromOptions)
}

type DirOptions struct {
	// Dir is the local directory to list
	Dir string `mapstructure:"dir"`
	// Prefix is prepended to the entry names to build their uri
	Prefix string `mapstructure:"prefix"`
	// ShowHidden includes the entries starting with a dot
	ShowHidden bool `mapstructure:"showHidden"`
}

// CreateDirFromOptions creates a class whose "entries" method lists
// a local directory.
func CreateDirFromOptions(deps Deps, options any) (Class, error) {
	opts := DirOptions{}

	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' handler options", TypeDir)
	}

	if opts.Dir == "" {
		return nil, errors.Errorf("'%s' handler: missing dir option", TypeDir)
	}

	return Methods{
		"entries": func(ctx context.Context, currentURL string) ([]*navigation.Node, error) {
			entries, err := os.ReadDir(opts.Dir)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			var nodes []*navigation.Node
			for _, e := range entries {
				name := e.Name()
				if !opts.ShowHidden && strings.HasPrefix(name, ".") {
					continue
				}

				uri := path.Join("/", opts.Prefix, name)
				if e.IsDir() {
					uri += "/"
				}

				nodes = append(nodes, &navigation.Node{
					MenuItem: navigation.MenuItem{
						Label:  name,
						URI:    navigation.SanitizeURI(uri),
						Order:  len(nodes) + 1,
						Active: true,
					},
				})
			}

			return nodes, nil
		},
	}, nil
}

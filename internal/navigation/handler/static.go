package handler

import (
	"context"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const TypeStatic Type = "static"

func init() {
	Register(TypeStatic, CreateStaticFromOptions)
}

type StaticOptions struct {
	Items []StaticItem `mapstructure:"items"`
}

type StaticItem struct {
	Label    string       `mapstructure:"label"`
	URI      string       `mapstructure:"uri"`
	Target   string       `mapstructure:"target"`
	Class    string       `mapstructure:"class"`
	Children []StaticItem `mapstructure:"children"`
}

// CreateStaticFromOptions creates a class whose "items" method returns
// the children declared in its options.
func CreateStaticFromOptions(deps Deps, options any) (Class, error) {
	opts := StaticOptions{}

	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' handler options", TypeStatic)
	}

	nodes := staticNodes(opts.Items)

	return Methods{
		"items": func(ctx context.Context, currentURL string) ([]*navigation.Node, error) {
			return nodes, nil
		},
	}, nil
}

func staticNodes(items []StaticItem) []*navigation.Node {
	if len(items) == 0 {
		return nil
	}

	nodes := make([]*navigation.Node, 0, len(items))
	for idx, item := range items {
		nodes = append(nodes, &navigation.Node{
			MenuItem: navigation.MenuItem{
				Label:  item.Label,
				URI:    navigation.SanitizeURI(item.URI),
				Order:  idx + 1,
				Active: true,
				Target: item.Target,
				Class:  item.Class,
			},
			Children: staticNodes(item.Children),
		})
	}

	return nodes
}

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/bornholm/dbmenu/internal/navigation/cache/file"
	cacheS3 "github.com/bornholm/dbmenu/internal/navigation/cache/s3"
	"github.com/bornholm/dbmenu/internal/navigation/handler"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

type Navigation struct {
	Table    InterpolatedString `yaml:"table"`
	MaxDepth InterpolatedInt    `yaml:"maxDepth"`
	Cache    Cache              `yaml:"cache"`
	Handlers []Handler          `yaml:"handlers"`
}

type Cache struct {
	Type          InterpolatedString `yaml:"type"`
	Options       *InterpolatedMap   `yaml:"options"`
	PurgeOnChange InterpolatedBool   `yaml:"purgeOnChange"`
}

// Handler declares a named handler instance that menu items
// reference through their handler class
type Handler struct {
	Name    InterpolatedString `yaml:"name"`
	Type    InterpolatedString `yaml:"type"`
	Options *InterpolatedMap   `yaml:"options"`
}

func NewDefaultNavigationConfig() Navigation {
	return Navigation{
		Table:    "${DBMENU_NAVIGATION_TABLE:-menu_items}",
		MaxDepth: navigation.DefaultMaxDepth,
		Cache:    Cache{
			Type:    InterpolatedString(fmt.Sprintf("${DBMENU_CACHE_TYPE:-%s}", cache.TypeNoop)),
			Options: &InterpolatedMap{
				Data: map[string]any{
					"dir": "${DBMENU_CACHE_DIR:-./cache}",
				},
			},
			PurgeOnChange: false,
		},
		Handlers: []Handler{},
	}
}

func NewNavigationConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":            []*yaml.Comment{yaml.HeadComment(" Navigation configuration")},
		".table":      []*yaml.Comment{yaml.HeadComment(" Name of the menu items table")},
		".maxDepth":   []*yaml.Comment{yaml.HeadComment(" Maximum depth of a built tree, 0 to disable the limit")},
		".cache":      []*yaml.Comment{yaml.HeadComment(" Built trees cache")},
		".cache.type": []*yaml.Comment{
			yaml.HeadComment(" Cache type", fmt.Sprintf(" Available: %v", cache.Registered())),
		},
		".cache.options": []*yaml.Comment{
			yaml.HeadComment(" Cache options, 'dir' is used by the file cache"),
			getOptionsComment(fmt.Sprintf("%s cache", file.Type), file.Options{Dir: "./cache"}),
			getOptionsComment(fmt.Sprintf("%s cache", cacheS3.Type), cacheS3.Options{}),
		},
		".cache.purgeOnChange": []*yaml.Comment{
			yaml.HeadComment(" Purge the cached trees each time an item is added, edited or deleted"),
		},
		".handlers": []*yaml.Comment{
			yaml.HeadComment(
				" Handler instances supplying the children of menu items",
				fmt.Sprintf(" Available types: %v", handler.Registered()),
			),
			getOptionsComment("Static handler", []Handler{
				{
					Name:    "docs",
					Type:    InterpolatedString(handler.TypeStatic),
					Options: &InterpolatedMap{
						Data: map[string]any{
							"items": []map[string]any{
								{"label": "Install", "uri": "/docs/install"},
							},
						},
					},
				},
			}),
		},
	}
}

func getOptionsComment(message string, opts any) *yaml.Comment {
	rawOpts, err := yaml.Marshal(opts)
	if err != nil {
		panic(errors.WithStack(err))
	}

	comments := []string{message, "options:"}
	comments = append(comments, slices.Collect(func(yield func(string) bool) {
		for _, str := range strings.Split(string(rawOpts), "\n") {
			if !yield("  " + str) {
				return
			}
		}
	})...)

	return yaml.FootComment(comments...)
}

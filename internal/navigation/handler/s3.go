package handler

import (
	"context"
	"path"
	"strings"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/pkg/s3"
	"github.com/go-viper/mapstructure/v2"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

const TypeS3 Type = "s3"

func init() {
	Register(TypeS3, CreateS3FromOptions)
}

type S3Options struct {
	s3.Options `mapstructure:",squash"`

	// Prefix is the listed "directory" of the bucket
	Prefix string `mapstructure:"prefix"`
	// PublicURL is prepended to the object keys to build their uri
	PublicURL string `mapstructure:"publicUrl"`
}

// CreateS3FromOptions creates a class whose "objects" method lists
// the objects stored under a bucket prefix.
func CreateS3FromOptions(deps Deps, options any) (Class, error) {
	opts := S3Options{}

	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' handler options", TypeS3)
	}

	client, err := s3.NewClient(context.Background(), opts.Options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	prefix := strings.Trim(opts.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = deps.BaseURL
	}

	return Methods{
		"objects": func(ctx context.Context, currentURL string) ([]*navigation.Node, error) {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			var nodes []*navigation.Node

			objects := client.ListObjects(ctx, opts.Bucket, minio.ListObjectsOptions{
				Prefix:    prefix,
				Recursive: false,
			})

			for obj := range objects {
				if obj.Err != nil {
					return nil, errors.WithStack(obj.Err)
				}

				name := strings.TrimPrefix(obj.Key, prefix)
				if name == "" {
					continue
				}

				nodes = append(nodes, &navigation.Node{
					MenuItem: navigation.MenuItem{
						Label:  path.Base(strings.TrimSuffix(name, "/")),
						URI:    navigation.SanitizeURI(strings.TrimSuffix(publicURL, "/") + "/" + obj.Key),
						Order:  len(nodes) + 1,
						Active: true,
					},
				})
			}

			return nodes, nil
		},
	}, nil
}

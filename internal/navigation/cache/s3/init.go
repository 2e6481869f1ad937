package s3

import (
	"context"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	s3client "github.com/bornholm/dbmenu/pkg/s3"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const Type cache.Type = "s3"

func init() {
	cache.Register(Type, CreateCacheFromOptions)
}

type Options struct {
	s3client.Options `mapstructure:",squash"`

	Prefix string `mapstructure:"prefix"`
}

func CreateCacheFromOptions(options any) (navigation.Cache, error) {
	opts := Options{}

	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' cache options", Type)
	}

	client, err := s3client.NewClient(context.Background(), opts.Options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return NewCache(client, opts.Bucket, opts.Prefix), nil
}

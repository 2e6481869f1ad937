package file

import (
	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const Type cache.Type = "file"

func init() {
	cache.Register(Type, CreateCacheFromOptions)
}

type Options struct {
	Dir string `mapstructure:"dir"`
}

func CreateCacheFromOptions(options any) (navigation.Cache, error) {
	opts := Options{}

	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' cache options", Type)
	}

	if opts.Dir == "" {
		return nil, errors.Errorf("'%s' cache: missing dir option", Type)
	}

	return NewCache(opts.Dir), nil
}

package api

import (
	"net/http"

	"github.com/bornholm/dbmenu/internal/navigation"
)

type Options struct {
	// AdminMiddleware protects the routes modifying the navigation
	AdminMiddleware func(http.Handler) http.Handler
	// Requests is incremented with the route pattern and the response status
	Requests navigation.Counter
	// MaxBodySize limits the size of the request bodies, in bytes
	MaxBodySize int64
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		AdminMiddleware: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			})
		},
		Requests:    noopCounter{},
		MaxBodySize: 1 << 20,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func WithAdminMiddleware(middleware func(http.Handler) http.Handler) OptionFunc {
	return func(opts *Options) {
		opts.AdminMiddleware = middleware
	}
}

func WithRequestCounter(counter navigation.Counter) OptionFunc {
	return func(opts *Options) {
		opts.Requests = counter
	}
}

func WithMaxBodySize(size int64) OptionFunc {
	return func(opts *Options) {
		opts.MaxBodySize = size
	}
}

type noopCounter struct{}

func (noopCounter) Increment(val ...string) {}

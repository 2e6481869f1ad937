package navigation

const DefaultMaxDepth = 32

// Counter is incremented with label values, see internal/metric
type Counter interface {
	Increment(val ...string)
}

type Options struct {
	Sanitizer     Sanitizer
	Handlers      HandlerResolver
	Cache         Cache
	PurgeOnChange bool
	MaxDepth      int
	Builds        Counter
	CacheLookups  Counter
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Sanitizer:    DefaultSanitizer,
		MaxDepth:     DefaultMaxDepth,
		Builds:       noopCounter{},
		CacheLookups: noopCounter{},
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func WithSanitizer(sanitizer Sanitizer) OptionFunc {
	return func(opts *Options) {
		opts.Sanitizer = sanitizer
	}
}

func WithHandlers(handlers HandlerResolver) OptionFunc {
	return func(opts *Options) {
		opts.Handlers = handlers
	}
}

// WithCache enables tree caching. When purgeOnChange is true, every
// successful Add, Edit or Delete purges the cached slots.
func WithCache(cache Cache, purgeOnChange bool) OptionFunc {
	return func(opts *Options) {
		opts.Cache = cache
		opts.PurgeOnChange = purgeOnChange
	}
}

func WithMaxDepth(depth int) OptionFunc {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

func WithCounters(builds Counter, cacheLookups Counter) OptionFunc {
	return func(opts *Options) {
		opts.Builds = builds
		opts.CacheLookups = cacheLookups
	}
}

type noopCounter struct{}

func (noopCounter) Increment(val ...string) {}

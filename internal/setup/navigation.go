package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/dbmenu/internal/config"
	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/bornholm/dbmenu/internal/navigation/handler"
	"github.com/pkg/errors"
)

var NewNavigationFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*navigation.Navigation, error) {
	store, err := NewStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics, err := NewMetricsFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	handlers, err := NewHandlerRegistryFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	navCache, err := NewCacheFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	nav := navigation.New(
		store,
		navigation.WithHandlers(handlers),
		navigation.WithCache(navCache, bool(conf.Navigation.Cache.PurgeOnChange)),
		navigation.WithMaxDepth(int(conf.Navigation.MaxDepth)),
		navigation.WithCounters(metrics.TreeBuilds, metrics.CacheLookups),
	)

	return nav, nil
})

var NewCacheFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (navigation.Cache, error) {
	var options map[string]any
	if conf.Navigation.Cache.Options != nil {
		options = conf.Navigation.Cache.Options.Data
	}

	cacheType := cache.Type(conf.Navigation.Cache.Type)

	c, err := cache.New(cacheType, options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.DebugContext(ctx, "navigation cache configured", slog.String("type", string(cacheType)))

	return c, nil
})

var NewHandlerRegistryFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*handler.Registry, error) {
	store, err := NewStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	registry := handler.NewRegistry()

	deps := handler.Deps{
		Repository: store,
		BaseURL:    string(conf.HTTP.BaseURL),
	}

	for _, h := range conf.Navigation.Handlers {
		var options map[string]any
		if h.Options != nil {
			options = h.Options.Data
		}

		class, err := handler.New(handler.Type(h.Type), deps, options)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create handler '%s'", h.Name)
		}

		registry.RegisterClass(string(h.Name), class)

		slog.DebugContext(ctx, "navigation handler registered", slog.String("name", string(h.Name)), slog.String("type", string(h.Type)))
	}

	return registry, nil
})

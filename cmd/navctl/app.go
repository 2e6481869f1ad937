package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bornholm/dbmenu/internal/config"
	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/setup"
	"github.com/bornholm/dbmenu/pkg/log"
	"github.com/pkg/errors"
)

// App is handed to every command
type App struct {
	ConfigFile string
	LogLevel   int

	conf *config.Config
}

func (a *App) Config() (*config.Config, error) {
	if a.conf != nil {
		return a.conf, nil
	}

	slog.SetDefault(slog.New(log.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.Level(a.LogLevel),
		}),
	}))

	conf := config.NewDefaultConfig()

	if err := config.Interpolate(conf); err != nil {
		return nil, errors.WithStack(err)
	}

	if a.ConfigFile != "" {
		if err := config.LoadFile(a.ConfigFile, conf); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	a.conf = conf

	return conf, nil
}

func (a *App) Navigation(ctx context.Context) (*navigation.Navigation, error) {
	conf, err := a.Config()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	nav, err := setup.NewNavigationFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return nav, nil
}

// parseFields converts "field=value" assignments to navigation fields
func parseFields(assignments map[string]string) (navigation.Fields, error) {
	fields := make(navigation.Fields, len(assignments))

	for key, raw := range assignments {
		field := navigation.Field(key)

		value, err := navigation.ParseField(field, raw)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		fields[field] = value
	}

	return fields, nil
}

func parseParentID(raw string) (*int64, error) {
	value, err := navigation.ParseField(navigation.FieldParentID, raw)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if value == nil {
		return nil, nil
	}

	id := value.(int64)

	return &id, nil
}

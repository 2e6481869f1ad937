package setup

import (
	"context"

	"github.com/bornholm/dbmenu/internal/config"
	"github.com/bornholm/dbmenu/internal/store"
	"github.com/pkg/errors"
)

var NewStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*store.Store, error) {
	store, err := store.NewStore(string(conf.Store.Path), store.WithTable(string(conf.Navigation.Table)))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := store.HealthCheck(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
})

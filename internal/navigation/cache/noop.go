package cache

import (
	"context"

	"github.com/bornholm/dbmenu/internal/navigation"
)

const TypeNoop Type = "noop"

func init() {
	Register(TypeNoop, func(options any) (navigation.Cache, error) {
		return Noop{}, nil
	})
}

// Noop never stores anything
type Noop struct{}

// Get implements navigation.Cache.
func (Noop) Get(ctx context.Context, slot string) ([]*navigation.Node, bool, error) {
	return nil, false, nil
}

// Put implements navigation.Cache.
func (Noop) Put(ctx context.Context, slot string, tree []*navigation.Node) error {
	return nil
}

// Purge implements navigation.Cache.
func (Noop) Purge(ctx context.Context) error {
	return nil
}

var _ navigation.Cache = Noop{}

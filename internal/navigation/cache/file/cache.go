package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

const extension = ".yml"

// Cache stores each slot in its own file under a directory
type Cache struct {
	dir string
}

// Get implements navigation.Cache.
func (c *Cache) Get(ctx context.Context, slot string) ([]*navigation.Node, bool, error) {
	if err := cache.ValidateSlot(slot); err != nil {
		return nil, false, errors.WithStack(err)
	}

	data, err := os.ReadFile(c.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, errors.WithStack(err)
	}

	tree, err := cache.Decode(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, "could not decode slot '%s'", slot)
	}

	return tree, true, nil
}

// Put implements navigation.Cache.
func (c *Cache) Put(ctx context.Context, slot string, tree []*navigation.Node) error {
	if err := cache.ValidateSlot(slot); err != nil {
		return errors.WithStack(err)
	}

	path := c.path(slot)

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := cache.Encode(slot, tree)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.WithStack(err)
	}

	tmp := filepath.Join(c.dir, "."+slot+"-"+xid.New().String()+".tmp")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WithStack(err)
	}

	defer os.Remove(tmp)

	// Linking fails if the slot file already exists, a concurrent writer
	// cannot overwrite it
	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}

		return errors.WithStack(err)
	}

	return nil
}

// Purge implements navigation.Cache.
func (c *Cache) Purge(ctx context.Context) error {
	paths, err := filepath.Glob(filepath.Join(c.dir, "*"+extension))
	if err != nil {
		return errors.WithStack(err)
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.WithStack(err)
		}
	}

	return nil
}

func (c *Cache) path(slot string) string {
	return filepath.Join(c.dir, slot+extension)
}

func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

var _ navigation.Cache = &Cache{}

package cache

import (
	"regexp"
	"sort"
	"sync"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
)

var (
	ErrUnknownType = errors.New("unknown cache type")
	ErrInvalidSlot = errors.New("invalid slot name")
)

type Type string

type Factory func(options any) (navigation.Cache, error)

var (
	factoriesMutex sync.RWMutex
	factories      = map[Type]Factory{}
)

func Register(typ Type, factory Factory) {
	factoriesMutex.Lock()
	defer factoriesMutex.Unlock()

	factories[typ] = factory
}

func Registered() []Type {
	factoriesMutex.RLock()
	defer factoriesMutex.RUnlock()

	types := make([]Type, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

func New(typ Type, options any) (navigation.Cache, error) {
	factoriesMutex.RLock()
	factory, exists := factories[typ]
	factoriesMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(ErrUnknownType, "'%s'", typ)
	}

	cache, err := factory(options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return cache, nil
}

var validSlot = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateSlot rejects the slot names that could escape the cache location
func ValidateSlot(slot string) error {
	if !validSlot.MatchString(slot) || len(slot) > 128 {
		return errors.Wrapf(ErrInvalidSlot, "'%s'", slot)
	}

	return nil
}

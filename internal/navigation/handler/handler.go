package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("handler not found")
	ErrUnknownType   = errors.New("unknown handler type")
	ErrUnknownMethod = errors.New("unknown handler method")
)

type Func = navigation.ChildrenFunc

// Class is a configured handler instance exposing named methods
type Class interface {
	Method(name string) (Func, bool)
}

// Methods is a Class backed by a map
type Methods map[string]Func

// Method implements Class.
func (m Methods) Method(name string) (Func, bool) {
	fn, exists := m[name]
	return fn, exists
}

// Deps are handed to handler factories
type Deps struct {
	Repository navigation.Repository
	BaseURL    string
}

type Type string

type Factory func(deps Deps, options any) (Class, error)

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

func New(typ Type, deps Deps, options any) (Class, error) {
	factoriesMutex.RLock()
	factory, exists := factories[typ]
	factoriesMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(ErrUnknownType, "'%s'", typ)
	}

	class, err := factory(deps, options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return class, nil
}

// Registry holds the named handler instances and functions
// referenced by the menu items.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class
	funcs   map[string]Func
}

func (r *Registry) RegisterClass(name string, class Class) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes[name] = class
}

func (r *Registry) RegisterFunc(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs[name] = fn
}

// ResolveMethod implements navigation.HandlerResolver.
func (r *Registry) ResolveMethod(class string, method string) (navigation.ChildrenFunc, error) {
	r.mu.RLock()
	instance, exists := r.classes[class]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Wrapf(ErrNotFound, "class '%s'", class)
	}

	fn, exists := instance.Method(method)
	if !exists {
		return nil, errors.Wrapf(ErrUnknownMethod, "'%s.%s'", class, method)
	}

	return fn, nil
}

// ResolveFunc implements navigation.HandlerResolver.
func (r *Registry) ResolveFunc(name string) (navigation.ChildrenFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.funcs[name]
	if !exists {
		return nil, errors.Wrapf(ErrNotFound, "function '%s'", name)
	}

	return fn, nil
}

var _ navigation.HandlerResolver = &Registry{}

// None always reports the absence of children
func None(ctx context.Context, currentURL string) ([]*navigation.Node, error) {
	return nil, nil
}

func NewRegistry() *Registry {
	registry := &Registry{
		classes: make(map[string]Class),
		funcs:   make(map[string]Func),
	}

	registry.RegisterFunc("none", None)

	return registry
}

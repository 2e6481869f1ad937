package navigation

import "context"

// Repository is the data access used by the navigation.
type Repository interface {
	// InsertItem creates a new item. When fields has no FieldOrder the
	// repository assigns the number of siblings + 1.
	InsertItem(ctx context.Context, fields Fields) (int64, error)
	// UpdateItem updates at most one item. It returns ErrNotFound when no row matched.
	UpdateItem(ctx context.Context, id int64, fields Fields) error
	// DeleteItem deletes at most one item. It returns ErrNotFound when no row matched.
	DeleteItem(ctx context.Context, id int64) error
	GetItem(ctx context.Context, id int64) (*MenuItem, error)
	CountChildren(ctx context.Context, parentID *int64) (int64, error)
	// ActiveChildren returns the active items under parentID (root when nil),
	// matching the where fields, sorted by ascending order.
	ActiveChildren(ctx context.Context, parentID *int64, where Fields) ([]*MenuItem, error)
}

// Cache stores built trees under named slots.
type Cache interface {
	Get(ctx context.Context, slot string) ([]*Node, bool, error)
	// Put writes the tree if no entry exists yet for the slot.
	Put(ctx context.Context, slot string, tree []*Node) error
	Purge(ctx context.Context) error
}

// ChildrenFunc produces the children of a node in place of the recursive lookup.
type ChildrenFunc func(ctx context.Context, currentURL string) ([]*Node, error)

// HandlerResolver resolves the handler names stored on menu items.
type HandlerResolver interface {
	ResolveMethod(class string, method string) (ChildrenFunc, error)
	ResolveFunc(name string) (ChildrenFunc, error)
}

package navigation_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
)

// memoryRepository is an in-memory navigation.Repository used by the tests
type memoryRepository struct {
	mu      sync.Mutex
	items   map[int64]*navigation.MenuItem
	nextID  int64
	inserts int
	queries int
}

func (r *memoryRepository) InsertItem(ctx context.Context, fields navigation.Fields) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inserts++
	r.nextID++

	now := time.Unix(1700000000+r.nextID, 0).UTC()

	item := &navigation.MenuItem{ID: r.nextID, CreatedAt: now, UpdatedAt: now}
	if err := applyFields(item, fields); err != nil {
		return 0, errors.WithStack(err)
	}

	if _, exists := fields[navigation.FieldOrder]; !exists {
		item.Order = int(r.countChildren(item.ParentID)) + 1
	}

	r.items[item.ID] = item

	return item.ID, nil
}

func (r *memoryRepository) UpdateItem(ctx context.Context, id int64, fields navigation.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return errors.WithStack(navigation.ErrNotFound)
	}

	return applyFields(item, fields)
}

func (r *memoryRepository) DeleteItem(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return errors.WithStack(navigation.ErrNotFound)
	}

	delete(r.items, id)

	return nil
}

func (r *memoryRepository) GetItem(ctx context.Context, id int64) (*navigation.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return nil, errors.WithStack(navigation.ErrNotFound)
	}

	clone := *item

	return &clone, nil
}

func (r *memoryRepository) CountChildren(ctx context.Context, parentID *int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.countChildren(parentID), nil
}

func (r *memoryRepository) ActiveChildren(ctx context.Context, parentID *int64, where navigation.Fields) ([]*navigation.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries++

	var items []*navigation.MenuItem

	for _, item := range r.items {
		if !item.Active || !sameParent(item.ParentID, parentID) {
			continue
		}

		if !matchFields(item, where) {
			continue
		}

		clone := *item
		items = append(items, &clone)
	}

	slices.SortFunc(items, func(a, b *navigation.MenuItem) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}

		return int(a.ID - b.ID)
	})

	return items, nil
}

func (r *memoryRepository) Queries() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.queries
}

func (r *memoryRepository) countChildren(parentID *int64) int64 {
	var count int64
	for _, item := range r.items {
		if sameParent(item.ParentID, parentID) {
			count++
		}
	}

	return count
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		items: make(map[int64]*navigation.MenuItem),
	}
}

var _ navigation.Repository = &memoryRepository{}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func applyFields(item *navigation.MenuItem, fields navigation.Fields) error {
	fields, err := fields.Normalize()
	if err != nil {
		return errors.WithStack(err)
	}

	for field, value := range fields {
		switch field {
		case navigation.FieldParentID:
			if value == nil {
				item.ParentID = nil
			} else {
				parentID := value.(int64)
				item.ParentID = &parentID
			}
		case navigation.FieldOrder:
			item.Order = int(value.(int64))
		case navigation.FieldActive:
			item.Active = value.(bool)
		default:
			*stringField(item, field) = value.(string)
		}
	}

	return nil
}

func matchFields(item *navigation.MenuItem, where navigation.Fields) bool {
	for field, value := range where {
		switch field {
		case navigation.FieldParentID, navigation.FieldOrder, navigation.FieldActive:
			return false
		default:
			if *stringField(item, field) != value {
				return false
			}
		}
	}

	return true
}

func stringField(item *navigation.MenuItem, field navigation.Field) *string {
	switch field {
	case navigation.FieldLabel:
		return &item.Label
	case navigation.FieldURI:
		return &item.URI
	case navigation.FieldFragment:
		return &item.Fragment
	case navigation.FieldTarget:
		return &item.Target
	case navigation.FieldRel:
		return &item.Rel
	case navigation.FieldClass:
		return &item.Class
	case navigation.FieldDomID:
		return &item.DomID
	case navigation.FieldLiClass:
		return &item.LiClass
	case navigation.FieldLiID:
		return &item.LiID
	case navigation.FieldUlClass:
		return &item.UlClass
	case navigation.FieldUlID:
		return &item.UlID
	case navigation.FieldHandlerClass:
		return &item.HandlerClass
	default:
		return &item.HandlerFunction
	}
}

// staticResolver resolves handlers from fixed maps
type staticResolver struct {
	methods map[string]navigation.ChildrenFunc
	funcs   map[string]navigation.ChildrenFunc
}

func (r *staticResolver) ResolveMethod(class string, method string) (navigation.ChildrenFunc, error) {
	fn, exists := r.methods[class+"."+method]
	if !exists {
		return nil, errors.Errorf("unknown method '%s.%s'", class, method)
	}

	return fn, nil
}

func (r *staticResolver) ResolveFunc(name string) (navigation.ChildrenFunc, error) {
	fn, exists := r.funcs[name]
	if !exists {
		return nil, errors.Errorf("unknown function '%s'", name)
	}

	return fn, nil
}

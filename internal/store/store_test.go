package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
)

func newTestStore(t *testing.T, funcs ...OptionFunc) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "menu.db"), funcs...)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("%+v", errors.WithStack(err))
		}
	})

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return store
}

func TestNewStoreInvalidTable(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "menu.db"), WithTable("menu; DROP TABLE x"))
	if !errors.Is(err, ErrInvalidTable) {
		t.Errorf("err: expected '%v', got '%v'", ErrInvalidTable, err)
	}
}

func TestInsertItemOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, WithTable("site_menu"))

	if e, g := "site_menu", store.Table(); e != g {
		t.Errorf("store.Table(): expected '%v', got '%v'", e, g)
	}

	homeID, err := store.InsertItem(ctx, navigation.Fields{
		navigation.FieldLabel:  "Home",
		navigation.FieldURI:    "/",
		navigation.FieldActive: true,
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	aboutID, err := store.InsertItem(ctx, navigation.Fields{
		navigation.FieldLabel:    "About",
		navigation.FieldURI:      "/about",
		navigation.FieldParentID: homeID,
		navigation.FieldActive:   true,
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	contactID, err := store.InsertItem(ctx, navigation.Fields{
		navigation.FieldLabel:  "Contact",
		navigation.FieldURI:    "/contact",
		navigation.FieldActive: true,
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	type testCase struct {
		ID       int64
		Order    int
		ParentID *int64
	}

	testCases := []testCase{
		{ID: homeID, Order: 1},
		{ID: aboutID, Order: 1, ParentID: &homeID},
		{ID: contactID, Order: 2},
	}

	for _, tc := range testCases {
		item, err := store.GetItem(ctx, tc.ID)
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if e, g := tc.Order, item.Order; e != g {
			t.Errorf("item #%d order: expected '%v', got '%v'", tc.ID, e, g)
		}

		if tc.ParentID == nil && item.ParentID != nil {
			t.Errorf("item #%d parent: expected nil, got '%v'", tc.ID, *item.ParentID)
		}

		if tc.ParentID != nil && (item.ParentID == nil || *item.ParentID != *tc.ParentID) {
			t.Errorf("item #%d parent: expected '%v', got '%v'", tc.ID, *tc.ParentID, item.ParentID)
		}
	}

	count, err := store.CountChildren(ctx, nil)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := int64(2), count; e != g {
		t.Errorf("CountChildren(nil): expected '%v', got '%v'", e, g)
	}
}

func TestInsertItemConcurrentOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const total = 10

	var wg sync.WaitGroup
	errs := make(chan error, total)

	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := store.InsertItem(ctx, navigation.Fields{
				navigation.FieldLabel:  "Item",
				navigation.FieldURI:    "/item",
				navigation.FieldActive: true,
			})
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	items, err := store.ActiveChildren(ctx, nil, nil)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := total, len(items); e != g {
		t.Fatalf("len(items): expected '%v', got '%v'", e, g)
	}

	for idx, item := range items {
		if e, g := idx+1, item.Order; e != g {
			t.Errorf("items[%d].Order: expected '%v', got '%v'", idx, e, g)
		}
	}
}

func TestUpdateAndDeleteItem(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.InsertItem(ctx, navigation.Fields{
		navigation.FieldLabel:  "Blog",
		navigation.FieldURI:    "/blog",
		navigation.FieldActive: true,
		navigation.FieldTarget: "_self",
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.UpdateItem(ctx, id, navigation.Fields{navigation.FieldLabel: "News"}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	item, err := store.GetItem(ctx, id)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "News", item.Label; e != g {
		t.Errorf("item.Label: expected '%v', got '%v'", e, g)
	}

	if e, g := "/blog", item.URI; e != g {
		t.Errorf("item.URI: expected '%v', got '%v'", e, g)
	}

	if e, g := "_self", item.Target; e != g {
		t.Errorf("item.Target: expected '%v', got '%v'", e, g)
	}

	if item.CreatedAt.IsZero() || item.UpdatedAt.Before(item.CreatedAt) {
		t.Errorf("item timestamps: unexpected created at '%v', updated at '%v'", item.CreatedAt, item.UpdatedAt)
	}

	if e, g := time.UTC, item.CreatedAt.Location(); e != g {
		t.Errorf("item.CreatedAt.Location(): expected '%v', got '%v'", e, g)
	}

	if err := store.UpdateItem(ctx, id+100, navigation.Fields{navigation.FieldLabel: "Nope"}); !errors.Is(err, navigation.ErrNotFound) {
		t.Errorf("UpdateItem(unknown): expected '%v', got '%v'", navigation.ErrNotFound, err)
	}

	if err := store.UpdateItem(ctx, id, navigation.Fields{"unknown": "value"}); !errors.Is(err, navigation.ErrUnknownField) {
		t.Errorf("UpdateItem(unknown field): expected '%v', got '%v'", navigation.ErrUnknownField, err)
	}

	if err := store.DeleteItem(ctx, id); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.DeleteItem(ctx, id); !errors.Is(err, navigation.ErrNotFound) {
		t.Errorf("DeleteItem(deleted): expected '%v', got '%v'", navigation.ErrNotFound, err)
	}

	if _, err := store.GetItem(ctx, id); !errors.Is(err, navigation.ErrNotFound) {
		t.Errorf("GetItem(deleted): expected '%v', got '%v'", navigation.ErrNotFound, err)
	}
}

func TestActiveChildren(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	fixtures := []navigation.Fields{
		{navigation.FieldLabel: "Third", navigation.FieldURI: "/3", navigation.FieldActive: true, navigation.FieldOrder: 3},
		{navigation.FieldLabel: "Hidden", navigation.FieldURI: "/h", navigation.FieldActive: false, navigation.FieldOrder: 1},
		{navigation.FieldLabel: "First", navigation.FieldURI: "/1", navigation.FieldActive: true, navigation.FieldOrder: 1, navigation.FieldTarget: "_blank"},
		{navigation.FieldLabel: "Second", navigation.FieldURI: "/2", navigation.FieldActive: true, navigation.FieldOrder: 2},
	}

	for _, f := range fixtures {
		if _, err := store.InsertItem(ctx, f); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
	}

	items, err := store.ActiveChildren(ctx, nil, nil)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
	}

	if e, g := "First,Second,Third", joinLabels(labels); e != g {
		t.Errorf("labels: expected '%v', got '%v'", e, g)
	}

	items, err = store.ActiveChildren(ctx, nil, navigation.Fields{navigation.FieldTarget: "_blank"})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(items); e != g {
		t.Fatalf("len(items): expected '%v', got '%v'", e, g)
	}

	if e, g := "First", items[0].Label; e != g {
		t.Errorf("items[0].Label: expected '%v', got '%v'", e, g)
	}

	parentID := int64(999)
	items, err = store.ActiveChildren(ctx, &parentID, nil)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if items != nil {
		t.Errorf("items: expected nil, got '%v'", items)
	}
}

func joinLabels(labels []string) string {
	str := ""
	for idx, l := range labels {
		if idx > 0 {
			str += ","
		}
		str += l
	}
	return str
}

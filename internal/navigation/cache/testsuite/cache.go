package testsuite

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/pkg/errors"
)

type cacheTestCase struct {
	Name string
	Run  func(ctx context.Context, c navigation.Cache) error
}

var cacheTestCases = []cacheTestCase{
	{
		Name: "MissingSlot",
		Run:  MissingSlot,
	},
	{
		Name: "RoundTrip",
		Run:  RoundTrip,
	},
	{
		Name: "WriteOnce",
		Run:  WriteOnce,
	},
	{
		Name: "Purge",
		Run:  Purge,
	},
}

func TestCache(t *testing.T, cacheType cache.Type, opts any) {
	t.Logf("Using cache '%s'", cacheType)

	c, err := cache.New(cacheType, opts)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, tc := range cacheTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := c.Purge(ctx); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if err := tc.Run(ctx, c); err != nil {
				t.Errorf("%+v", errors.WithStack(err))
			}
		})
	}
}

// SampleTree returns a tree setting every item field, timestamps
// in UTC as read from the store.
func SampleTree() []*navigation.Node {
	homeID := int64(1)
	createdAt := time.Unix(1700000000, 0).UTC()
	updatedAt := time.Unix(1700003600, 0).UTC()

	return []*navigation.Node{
		{
			MenuItem: navigation.MenuItem{
				ID:        1,
				Label:     "Home",
				URI:       "/",
				Order:     1,
				Active:    true,
				Fragment:  "top",
				Target:    "_self",
				Rel:       "home",
				Class:     "nav-link",
				DomID:     "nav-home",
				LiClass:   "nav-item",
				LiID:      "item-home",
				UlClass:   "nav",
				UlID:      "menu-home",
				CreatedAt: createdAt,
				UpdatedAt: updatedAt,
			},
			Children: []*navigation.Node{
				{
					MenuItem: navigation.MenuItem{
						ID:        2,
						Label:     "About",
						URI:       "/about",
						ParentID:  &homeID,
						Order:     1,
						Active:    true,
						Target:    "_blank",
						Rel:       "noopener",
						CreatedAt: createdAt,
						UpdatedAt: updatedAt,
					},
				},
				{
					MenuItem: navigation.MenuItem{
						ID:              4,
						Label:           "Docs",
						URI:             "/docs",
						ParentID:        &homeID,
						Order:           2,
						Active:          true,
						HandlerClass:    "docs",
						HandlerFunction: "items",
						CreatedAt:       createdAt,
						UpdatedAt:       updatedAt,
					},
					Children: []*navigation.Node{
						{MenuItem: navigation.MenuItem{Label: "Install", URI: "/docs/install", Order: 1, Active: true}},
					},
				},
			},
		},
		{
			MenuItem: navigation.MenuItem{
				ID:              3,
				Label:           "Contact",
				URI:             "/contact?from=nav",
				Order:           2,
				Active:          true,
				HandlerFunction: "none",
				CreatedAt:       createdAt,
				UpdatedAt:       updatedAt,
			},
		},
	}
}

func MissingSlot(ctx context.Context, c navigation.Cache) error {
	tree, found, err := c.Get(ctx, "missing")
	if err != nil {
		return errors.WithStack(err)
	}

	if found {
		return errors.Errorf("found: expected false, got true")
	}

	if tree != nil {
		return errors.Errorf("tree: expected nil, got '%v'", tree)
	}

	return nil
}

func RoundTrip(ctx context.Context, c navigation.Cache) error {
	expected := SampleTree()

	if err := c.Put(ctx, "main", expected); err != nil {
		return errors.WithStack(err)
	}

	tree, found, err := c.Get(ctx, "main")
	if err != nil {
		return errors.WithStack(err)
	}

	if !found {
		return errors.Errorf("found: expected true, got false")
	}

	if !reflect.DeepEqual(expected, tree) {
		return errors.Errorf("tree: expected '%+v', got '%+v'", expected, tree)
	}

	return nil
}

func WriteOnce(ctx context.Context, c navigation.Cache) error {
	expected := SampleTree()

	if err := c.Put(ctx, "footer", expected); err != nil {
		return errors.WithStack(err)
	}

	other := []*navigation.Node{{MenuItem: navigation.MenuItem{ID: 99, Label: "Other", URI: "/other"}}}

	if err := c.Put(ctx, "footer", other); err != nil {
		return errors.WithStack(err)
	}

	tree, _, err := c.Get(ctx, "footer")
	if err != nil {
		return errors.WithStack(err)
	}

	if !reflect.DeepEqual(expected, tree) {
		return errors.Errorf("tree: expected '%+v', got '%+v'", expected, tree)
	}

	return nil
}

func Purge(ctx context.Context, c navigation.Cache) error {
	if err := c.Put(ctx, "sidebar", SampleTree()); err != nil {
		return errors.WithStack(err)
	}

	if err := c.Purge(ctx); err != nil {
		return errors.WithStack(err)
	}

	_, found, err := c.Get(ctx, "sidebar")
	if err != nil {
		return errors.WithStack(err)
	}

	if found {
		return errors.Errorf("found: expected false after purge, got true")
	}

	return nil
}

package navigation_test

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache/file"
	"github.com/pkg/errors"
)

func TestBuildScenario(t *testing.T) {
	ctx := context.Background()
	nav := navigation.New(newMemoryRepository())

	homeID := mustAdd(t, nav, "Home", "/", nil)
	mustAdd(t, nav, "About", "/about", &homeID)

	tree, err := nav.Build(ctx, "/", nil, navigation.Criteria{})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(tree); e != g {
		t.Fatalf("len(tree): expected '%v', got '%v'", e, g)
	}

	home := tree[0]

	if e, g := "Home", home.Label; e != g {
		t.Errorf("home.Label: expected '%v', got '%v'", e, g)
	}

	if e, g := 1, home.Order; e != g {
		t.Errorf("home.Order: expected '%v', got '%v'", e, g)
	}

	if e, g := 1, len(home.Children); e != g {
		t.Fatalf("len(home.Children): expected '%v', got '%v'", e, g)
	}

	about := home.Children[0]

	if e, g := "/about", about.URI; e != g {
		t.Errorf("about.URI: expected '%v', got '%v'", e, g)
	}

	if e, g := 1, about.Order; e != g {
		t.Errorf("about.Order: expected '%v', got '%v'", e, g)
	}

	if about.Children != nil {
		t.Errorf("about.Children: expected nil, got '%v'", about.Children)
	}
}

func TestBuildEmpty(t *testing.T) {
	nav := navigation.New(newMemoryRepository())

	tree, err := nav.Build(context.Background(), "/", nil, navigation.Criteria{})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if tree != nil {
		t.Errorf("tree: expected nil, got '%v'", tree)
	}
}

func TestBuildOrderAndActive(t *testing.T) {
	ctx := context.Background()
	nav := navigation.New(newMemoryRepository())

	mustAdd(t, nav, "Third", "/third", nil, navigation.Fields{navigation.FieldOrder: 3})
	mustAdd(t, nav, "First", "/first", nil, navigation.Fields{navigation.FieldOrder: 1})
	mustAdd(t, nav, "Hidden", "/hidden", nil, navigation.Fields{navigation.FieldOrder: 2, navigation.FieldActive: false})
	mustAdd(t, nav, "Second", "/second", nil, navigation.Fields{navigation.FieldOrder: 1})

	tree, err := nav.Build(ctx, "/", nil, navigation.Criteria{})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	expected := []string{"First", "Second", "Third"}

	if e, g := len(expected), len(tree); e != g {
		t.Fatalf("len(tree): expected '%v', got '%v'", e, g)
	}

	for i, label := range expected {
		if e, g := label, tree[i].Label; e != g {
			t.Errorf("tree[%d].Label: expected '%v', got '%v'", i, e, g)
		}
	}
}

func TestBuildCriteria(t *testing.T) {
	ctx := context.Background()
	nav := navigation.New(newMemoryRepository())

	mustAdd(t, nav, "Home", "/", nil, navigation.Fields{navigation.FieldClass: "main"})
	mustAdd(t, nav, "Legal", "/legal", nil, navigation.Fields{navigation.FieldClass: "footer"})
	mustAdd(t, nav, "Blog", "/blog", nil, navigation.Fields{navigation.FieldClass: "main", navigation.FieldTarget: "_blank"})

	type testCase struct {
		Name           string
		Criteria       navigation.Criteria
		ExpectedLabels []string
		ExpectedError  error
	}

	testCases := []testCase{
		{
			Name:           "Where",
			Criteria:       navigation.Criteria{Where: navigation.Fields{navigation.FieldClass: "main"}},
			ExpectedLabels: []string{"Home", "Blog"},
		},
		{
			Name:           "Rule",
			Criteria:       navigation.Criteria{Rule: navigation.NewRule(`target != "_blank"`)},
			ExpectedLabels: []string{"Home", "Legal"},
		},
		{
			Name:           "RuleWithCurrentURL",
			Criteria:       navigation.Criteria{Rule: navigation.NewRule(`uri == currentUrl`)},
			ExpectedLabels: []string{"Legal"},
		},
		{
			Name:           "NoMatch",
			Criteria:       navigation.Criteria{Rule: navigation.NewRule(`false`)},
			ExpectedLabels: nil,
		},
		{
			Name:          "UnknownField",
			Criteria:      navigation.Criteria{Where: navigation.Fields{"1=1; --": "x"}},
			ExpectedError: navigation.ErrUnknownField,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			tree, err := nav.Build(ctx, "/legal", nil, tc.Criteria)

			if tc.ExpectedError != nil {
				if !errors.Is(err, tc.ExpectedError) {
					t.Errorf("err: expected '%v', got '%v'", tc.ExpectedError, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if tc.ExpectedLabels == nil {
				if tree != nil {
					t.Errorf("tree: expected nil, got '%v'", tree)
				}

				return
			}

			if e, g := len(tc.ExpectedLabels), len(tree); e != g {
				t.Fatalf("len(tree): expected '%v', got '%v'", e, g)
			}

			for i, label := range tc.ExpectedLabels {
				if e, g := label, tree[i].Label; e != g {
					t.Errorf("tree[%d].Label: expected '%v', got '%v'", i, e, g)
				}
			}
		})
	}

	if _, err := nav.Build(ctx, "/", nil, navigation.Criteria{Rule: navigation.NewRule(`label +`)}); !errors.Is(err, navigation.ErrInvalidRule) {
		t.Errorf("err: expected '%v', got '%v'", navigation.ErrInvalidRule, err)
	}
}

func TestBuildHandlers(t *testing.T) {
	ctx := context.Background()

	resolver := &staticResolver{
		methods: map[string]navigation.ChildrenFunc{
			"docs.pages": func(ctx context.Context, currentURL string) ([]*navigation.Node, error) {
				return []*navigation.Node{
					{MenuItem: navigation.MenuItem{Label: "Install", URI: "/docs/install", Active: true}},
					{MenuItem: navigation.MenuItem{Label: "Usage", URI: "/docs/usage", Active: currentURL == "/docs/usage"}},
				}, nil
			},
		},
		funcs: map[string]navigation.ChildrenFunc{
			"none": func(ctx context.Context, currentURL string) ([]*navigation.Node, error) {
				return nil, nil
			},
		},
	}

	nav := navigation.New(newMemoryRepository(), navigation.WithHandlers(resolver))

	docsID := mustAdd(t, nav, "Docs", "/docs", nil, navigation.Fields{
		navigation.FieldHandlerClass:    "docs",
		navigation.FieldHandlerFunction: "pages",
	})

	// Stored children are ignored when a handler supplies them
	mustAdd(t, nav, "Ignored", "/ignored", &docsID)

	archiveID := mustAdd(t, nav, "Archive", "/archive", nil, navigation.Fields{
		navigation.FieldHandlerFunction: "none",
	})

	mustAdd(t, nav, "Ignored", "/ignored", &archiveID)

	tree, err := nav.Build(ctx, "/docs/usage", nil, navigation.Criteria{})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(tree); e != g {
		t.Fatalf("len(tree): expected '%v', got '%v'", e, g)
	}

	docs := tree[0]

	if e, g := 2, len(docs.Children); e != g {
		t.Fatalf("len(docs.Children): expected '%v', got '%v'", e, g)
	}

	if e, g := "Install", docs.Children[0].Label; e != g {
		t.Errorf("docs.Children[0].Label: expected '%v', got '%v'", e, g)
	}

	if !docs.Children[1].Active {
		t.Errorf("docs.Children[1].Active: expected 'true', got 'false'")
	}

	if archive := tree[1]; archive.Children != nil {
		t.Errorf("archive.Children: expected nil, got '%v'", archive.Children)
	}

	mustAdd(t, nav, "Broken", "/broken", nil, navigation.Fields{
		navigation.FieldHandlerClass:    "docs",
		navigation.FieldHandlerFunction: "unknown",
	})

	if _, err := nav.Build(ctx, "/", nil, navigation.Criteria{}); err == nil {
		t.Errorf("err: expected unresolved handler error, got nil")
	}
}

func TestBuildCycle(t *testing.T) {
	ctx := context.Background()
	nav := navigation.New(newMemoryRepository())

	firstID := mustAdd(t, nav, "First", "/first", nil)
	secondID := mustAdd(t, nav, "Second", "/second", &firstID)

	if err := nav.Edit(ctx, firstID, navigation.Fields{navigation.FieldParentID: secondID}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := nav.Build(ctx, "/", &firstID, navigation.Criteria{}); !errors.Is(err, navigation.ErrCycle) {
		t.Errorf("err: expected '%v', got '%v'", navigation.ErrCycle, err)
	}
}

func TestBuildMaxDepth(t *testing.T) {
	ctx := context.Background()
	nav := navigation.New(newMemoryRepository(), navigation.WithMaxDepth(3))

	var parentID *int64
	for range 5 {
		id := mustAdd(t, nav, "Level", "/level", parentID)
		parentID = &id
	}

	if _, err := nav.Build(ctx, "/", nil, navigation.Criteria{}); !errors.Is(err, navigation.ErrMaxDepth) {
		t.Errorf("err: expected '%v', got '%v'", navigation.ErrMaxDepth, err)
	}

	nav = navigation.New(newMemoryRepository(), navigation.WithMaxDepth(0))

	parentID = nil
	for range 40 {
		id := mustAdd(t, nav, "Level", "/level", parentID)
		parentID = &id
	}

	if _, err := nav.Build(ctx, "/", nil, navigation.Criteria{}); err != nil {
		t.Errorf("%+v", errors.WithStack(err))
	}
}

func TestTreeCache(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	cache := file.NewCache(filepath.Join(t.TempDir(), "cache"))

	nav := navigation.New(repo, navigation.WithCache(cache, false))

	homeID := mustAdd(t, nav, "Home", "/", nil)
	mustAdd(t, nav, "About", "/about", &homeID)

	tree, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(tree); e != g {
		t.Fatalf("len(tree): expected '%v', got '%v'", e, g)
	}

	queries := repo.Queries()

	// Held in memory
	if _, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := queries, repo.Queries(); e != g {
		t.Errorf("repo.Queries(): expected '%v', got '%v'", e, g)
	}

	// Loaded from the cache slot by a fresh instance
	other := navigation.New(repo, navigation.WithCache(cache, false))

	cached, err := other.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := queries, repo.Queries(); e != g {
		t.Errorf("repo.Queries(): expected '%v', got '%v'", e, g)
	}

	if !reflect.DeepEqual(tree, cached) {
		t.Errorf("cached: expected '%+v', got '%+v'", tree, cached)
	}

	if e, g := "About", cached[0].Children[0].Label; e != g {
		t.Errorf("cached[0].Children[0].Label: expected '%v', got '%v'", e, g)
	}

	if cached[0].Children[0].Children != nil {
		t.Errorf("cached[0].Children[0].Children: expected nil, got '%v'", cached[0].Children[0].Children)
	}

	// Without purge on change, the slot stays stale
	mustAdd(t, nav, "Contact", "/contact", nil)

	stale, err := other.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(stale); e != g {
		t.Errorf("len(stale): expected '%v', got '%v'", e, g)
	}

	// An empty slot name always builds
	fresh, err := other.Tree(ctx, "/", nil, navigation.Criteria{}, "")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(fresh); e != g {
		t.Errorf("len(fresh): expected '%v', got '%v'", e, g)
	}

	if err := other.Purge(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	refreshed, err := other.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(refreshed); e != g {
		t.Errorf("len(refreshed): expected '%v', got '%v'", e, g)
	}
}

func TestTreePurgeOnChange(t *testing.T) {
	ctx := context.Background()
	cache := file.NewCache(filepath.Join(t.TempDir(), "cache"))
	nav := navigation.New(newMemoryRepository(), navigation.WithCache(cache, true))

	mustAdd(t, nav, "Home", "/", nil)

	if _, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	mustAdd(t, nav, "Contact", "/contact", nil)

	tree, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(tree); e != g {
		t.Errorf("len(tree): expected '%v', got '%v'", e, g)
	}
}

func TestTreeEmptyNotCached(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	cache := file.NewCache(filepath.Join(t.TempDir(), "cache"))
	nav := navigation.New(repo, navigation.WithCache(cache, false))

	tree, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if tree != nil {
		t.Errorf("tree: expected nil, got '%v'", tree)
	}

	if _, found, err := cache.Get(ctx, "main"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	} else if found {
		t.Errorf("found: expected 'false', got 'true'")
	}

	mustAdd(t, nav, "Home", "/", nil)

	tree, err = nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(tree); e != g {
		t.Errorf("len(tree): expected '%v', got '%v'", e, g)
	}
}

func TestTreeConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	cache := file.NewCache(filepath.Join(t.TempDir(), "cache"))
	nav := navigation.New(repo, navigation.WithCache(cache, false))

	mustAdd(t, nav, "Home", "/", nil)

	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tree, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
			if err != nil {
				t.Errorf("%+v", errors.WithStack(err))
				return
			}

			if e, g := 1, len(tree); e != g {
				t.Errorf("len(tree): expected '%v', got '%v'", e, g)
			}
		}()
	}

	wg.Wait()

	// One build: the root level and the children of Home
	if e, g := 2, repo.Queries(); e != g {
		t.Errorf("repo.Queries(): expected '%v', got '%v'", e, g)
	}
}

func TestTreeSharedBuildIgnoresCancellation(t *testing.T) {
	repo := newMemoryRepository()
	cache := file.NewCache(filepath.Join(t.TempDir(), "cache"))
	nav := navigation.New(repo, navigation.WithCache(cache, false))

	mustAdd(t, nav, "Home", "/", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Without slot, the build runs under the caller context
	if _, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("err: expected '%v', got '%v'", context.Canceled, err)
	}

	tree, err := nav.Tree(ctx, "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(tree); e != g {
		t.Errorf("len(tree): expected '%v', got '%v'", e, g)
	}

	held, err := nav.Tree(context.Background(), "/", nil, navigation.Criteria{}, "main")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !reflect.DeepEqual(tree, held) {
		t.Errorf("held: expected '%+v', got '%+v'", tree, held)
	}
}

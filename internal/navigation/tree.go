package navigation

import (
	"context"
	"log/slog"

	"github.com/bornholm/dbmenu/pkg/log"
	"github.com/pkg/errors"
)

// Criteria narrows the items selected by a tree build
type Criteria struct {
	// Where is pushed to the repository as equality matches
	Where Fields
	// Rule is evaluated against each selected item
	Rule *Rule
}

// Build assembles the tree of active items under parentID (root when nil).
// It returns a nil tree when the level has no matching item.
func (n *Navigation) Build(ctx context.Context, currentURL string, parentID *int64, criteria Criteria) ([]*Node, error) {
	where, err := criteria.Where.Normalize()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	criteria.Where = where

	if criteria.Rule != nil {
		if err := criteria.Rule.Compile(); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	n.opts.Builds.Increment()

	path := make(map[int64]struct{})
	if parentID != nil {
		path[*parentID] = struct{}{}
	}

	tree, err := n.build(ctx, currentURL, parentID, criteria, path, 0)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tree, nil
}

func (n *Navigation) build(ctx context.Context, currentURL string, parentID *int64, criteria Criteria, path map[int64]struct{}, depth int) ([]*Node, error) {
	if n.opts.MaxDepth > 0 && depth >= n.opts.MaxDepth {
		return nil, errors.Wrapf(ErrMaxDepth, "depth %d", depth)
	}

	items, err := n.repo.ActiveChildren(ctx, parentID, criteria.Where)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(items) == 0 {
		return nil, nil
	}

	nodes := make([]*Node, 0, len(items))

	for _, item := range items {
		if criteria.Rule != nil {
			matched, err := criteria.Rule.Match(item, currentURL)
			if err != nil {
				return nil, errors.Wrapf(err, "could not evaluate rule '%s' on item %d", criteria.Rule, item.ID)
			}

			if !matched {
				continue
			}
		}

		node := &Node{MenuItem: *item}

		switch {
		case item.HandlerClass != "" || item.HandlerFunction != "":
			children, err := n.handlerChildren(ctx, currentURL, item)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			node.Children = children

		default:
			if _, exists := path[item.ID]; exists {
				return nil, errors.Wrapf(ErrCycle, "item %d is its own ancestor", item.ID)
			}

			path[item.ID] = struct{}{}

			children, err := n.build(ctx, currentURL, &item.ID, criteria, path, depth+1)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			delete(path, item.ID)

			node.Children = children
		}

		nodes = append(nodes, node)
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	return nodes, nil
}

func (n *Navigation) handlerChildren(ctx context.Context, currentURL string, item *MenuItem) ([]*Node, error) {
	if n.opts.Handlers == nil {
		return nil, errors.Errorf("item %d references a handler but no handler registry is configured", item.ID)
	}

	var (
		fn  ChildrenFunc
		err error
	)

	if item.HandlerClass != "" {
		fn, err = n.opts.Handlers.ResolveMethod(item.HandlerClass, item.HandlerFunction)
	} else {
		fn, err = n.opts.Handlers.ResolveFunc(item.HandlerFunction)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve handler of item %d", item.ID)
	}

	children, err := fn(ctx, currentURL)
	if err != nil {
		return nil, errors.Wrapf(err, "handler of item %d failed", item.ID)
	}

	return children, nil
}

// Tree returns the tree held in the given cache slot, building and storing it on a miss.
// An empty slot name, or a navigation without cache, always builds a fresh tree.
func (n *Navigation) Tree(ctx context.Context, currentURL string, parentID *int64, criteria Criteria, slot string) ([]*Node, error) {
	if slot == "" || n.opts.Cache == nil {
		tree, err := n.Build(ctx, currentURL, parentID, criteria)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return tree, nil
	}

	if tree, held := n.heldTree(slot); held {
		n.opts.CacheLookups.Increment("memory")
		return tree, nil
	}

	// The build is shared by every caller missing the same slot, it must
	// not fail because the first of them went away
	ctx = context.WithoutCancel(log.WithAttrs(ctx, slog.String("slot", slot)))

	result, err, _ := n.group.Do(slot, func() (any, error) {
		if tree, held := n.heldTree(slot); held {
			n.opts.CacheLookups.Increment("memory")
			return tree, nil
		}

		tree, found, err := n.opts.Cache.Get(ctx, slot)
		if err != nil {
			slog.WarnContext(ctx, "could not load cached navigation tree", log.Error(errors.WithStack(err)))
		}

		if found {
			n.opts.CacheLookups.Increment("hit")
			n.holdTree(slot, tree)
			return tree, nil
		}

		n.opts.CacheLookups.Increment("miss")

		tree, err = n.Build(ctx, currentURL, parentID, criteria)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		if tree == nil {
			return tree, nil
		}

		if err := n.opts.Cache.Put(ctx, slot, tree); err != nil {
			slog.WarnContext(ctx, "could not store navigation tree", log.Error(errors.WithStack(err)))
		}

		n.holdTree(slot, tree)

		return tree, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return result.([]*Node), nil
}

// Purge drops the trees held in memory and in the cache slots
func (n *Navigation) Purge(ctx context.Context) error {
	n.mu.Lock()
	clear(n.trees)
	n.mu.Unlock()

	if n.opts.Cache == nil {
		return nil
	}

	if err := n.opts.Cache.Purge(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (n *Navigation) heldTree(slot string) ([]*Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	tree, exists := n.trees[slot]

	return tree, exists
}

func (n *Navigation) holdTree(slot string, tree []*Node) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.trees[slot] = tree
}

package navigation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/bornholm/dbmenu/pkg/log"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

type Navigation struct {
	repo Repository
	opts *Options

	validate *validator.Validate

	mu    sync.RWMutex
	trees map[string][]*Node
	group singleflight.Group
}

type itemInput struct {
	Label string `validate:"required"`
	URI   string `validate:"required"`
}

// Add creates a new item under parentID (root level when nil) and returns its identifier.
// Extra fields are applied last and may override the computed order.
func (n *Navigation) Add(ctx context.Context, label string, uri string, parentID *int64, extra Fields) (int64, error) {
	fields, err := Fields{
		FieldLabel:    label,
		FieldURI:      uri,
		FieldParentID: parentID,
		FieldActive:   true,
	}.Merge(extra).Normalize()
	if err != nil {
		return 0, errors.WithStack(err)
	}

	if err := n.cleanItemFields(fields); err != nil {
		return 0, errors.WithStack(err)
	}

	input := itemInput{
		Label: fields[FieldLabel].(string),
		URI:   fields[FieldURI].(string),
	}

	if err := n.validate.StructCtx(ctx, input); err != nil {
		return 0, errors.Wrap(ErrInvalidItem, err.Error())
	}

	id, err := n.repo.InsertItem(ctx, fields)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	n.changed(ctx)

	return id, nil
}

// Edit updates the given fields of the item identified by id.
func (n *Navigation) Edit(ctx context.Context, id int64, fields Fields) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrInvalidItem, "no field to update")
	}

	fields, err := fields.Normalize()
	if err != nil {
		return errors.WithStack(err)
	}

	if err := n.cleanItemFields(fields); err != nil {
		return errors.WithStack(err)
	}

	if parentID, exists := fields[FieldParentID]; exists && parentID == id {
		return errors.Wrapf(ErrCycle, "item %d cannot be its own parent", id)
	}

	if err := n.repo.UpdateItem(ctx, id, fields); err != nil {
		return errors.WithStack(err)
	}

	n.changed(ctx)

	return nil
}

// cleanItemFields trims the label and sanitizes the uri of normalized fields.
// Both must remain non-empty when present.
func (n *Navigation) cleanItemFields(fields Fields) error {
	if value, exists := fields[FieldLabel]; exists {
		label := strings.TrimSpace(value.(string))
		if label == "" {
			return errors.Wrap(ErrInvalidItem, "label cannot be empty")
		}

		fields[FieldLabel] = label
	}

	if value, exists := fields[FieldURI]; exists {
		uri := n.opts.Sanitizer.SanitizeURI(strings.TrimSpace(value.(string)))
		if uri == "" {
			return errors.Wrap(ErrInvalidItem, "uri cannot be empty")
		}

		fields[FieldURI] = uri
	}

	return nil
}

func (n *Navigation) Delete(ctx context.Context, id int64) error {
	if err := n.repo.DeleteItem(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	n.changed(ctx)

	return nil
}

// NextOrder returns the order a new item under parentID would get.
func (n *Navigation) NextOrder(ctx context.Context, parentID *int64) (int, error) {
	count, err := n.repo.CountChildren(ctx, parentID)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return int(count) + 1, nil
}

func (n *Navigation) Item(ctx context.Context, id int64) (*MenuItem, error) {
	item, err := n.repo.GetItem(ctx, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return item, nil
}

func (n *Navigation) changed(ctx context.Context) {
	if !n.opts.PurgeOnChange {
		return
	}

	if err := n.Purge(ctx); err != nil {
		slog.WarnContext(ctx, "could not purge navigation cache", log.Error(errors.WithStack(err)))
	}
}

func New(repo Repository, funcs ...OptionFunc) *Navigation {
	return &Navigation{
		repo:     repo,
		opts:     NewOptions(funcs...),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		trees:    make(map[string][]*Node),
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

type AddCommand struct {
	Label  string            `arg:"" help:"Label of the item."`
	URI    string            `arg:"" help:"URI of the item."`
	Parent string            `help:"Identifier of the parent item, root level when empty." short:"p"`
	Set    map[string]string `help:"Additional fields (e.g. --set target=_blank --set sort_order=3)." short:"s"`
}

func (c *AddCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	parentID, err := parseParentID(c.Parent)
	if err != nil {
		return errors.WithStack(err)
	}

	extra, err := parseFields(c.Set)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := nav.Add(ctx, c.Label, c.URI, parentID, extra)
	if err != nil {
		return errors.WithStack(err)
	}

	fmt.Println(id)

	return nil
}

type EditCommand struct {
	ID  int64             `arg:"" help:"Identifier of the item."`
	Set map[string]string `help:"Fields to update (e.g. --set label=Home --set parent_id=null)." short:"s" required:""`
}

func (c *EditCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	fields, err := parseFields(c.Set)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := nav.Edit(ctx, c.ID, fields); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type DeleteCommand struct {
	ID int64 `arg:"" help:"Identifier of the item."`
}

func (c *DeleteCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := nav.Delete(ctx, c.ID); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type GetCommand struct {
	ID int64 `arg:"" help:"Identifier of the item."`
}

func (c *GetCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	item, err := nav.Item(ctx, c.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()

	if err := encoder.Encode(item); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type NextOrderCommand struct {
	Parent string `help:"Identifier of the parent item, root level when empty." short:"p"`
}

func (c *NextOrderCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	parentID, err := parseParentID(c.Parent)
	if err != nil {
		return errors.WithStack(err)
	}

	order, err := nav.NextOrder(ctx, parentID)
	if err != nil {
		return errors.WithStack(err)
	}

	fmt.Println(order)

	return nil
}

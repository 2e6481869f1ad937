package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/ddddddO/gtree"
	"github.com/pkg/errors"
)

type TreeCommand struct {
	URL    string            `help:"Current URL handed to the handlers and rules." default:"/"`
	Parent string            `help:"Identifier of the item to start from, root level when empty." short:"p"`
	Slot   string            `help:"Cache slot to read from, and to store into on a miss."`
	Filter string            `help:"Rule expression each item must match (e.g. 'target != \"_blank\"')." short:"f"`
	Where  map[string]string `help:"Field equality filters (e.g. --where class=main)." short:"w"`
}

func (c *TreeCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	parentID, err := parseParentID(c.Parent)
	if err != nil {
		return errors.WithStack(err)
	}

	where, err := parseFields(c.Where)
	if err != nil {
		return errors.WithStack(err)
	}

	criteria := navigation.Criteria{Where: where}
	if c.Filter != "" {
		criteria.Rule = navigation.NewRule(c.Filter)
	}

	tree, err := nav.Tree(ctx, c.URL, parentID, criteria, c.Slot)
	if err != nil {
		return errors.WithStack(err)
	}

	title := "navigation"
	if c.Slot != "" {
		title = c.Slot
	}

	return printTree(os.Stdout, title, tree)
}

func printTree(w io.Writer, title string, tree []*navigation.Node) error {
	root := gtree.NewRoot(title)

	addNodes(root, tree)

	if err := gtree.OutputFromRoot(w, root); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func addNodes(parent *gtree.Node, nodes []*navigation.Node) {
	for _, n := range nodes {
		addNodes(parent.Add(nodeText(n)), n.Children)
	}
}

func nodeText(n *navigation.Node) string {
	text := fmt.Sprintf("%s (%s)", n.Label, n.URI)

	if n.ID != 0 {
		text = fmt.Sprintf("#%d %s", n.ID, text)
	}

	switch {
	case n.HandlerClass != "":
		text += fmt.Sprintf(" [%s.%s]", n.HandlerClass, n.HandlerFunction)
	case n.HandlerFunction != "":
		text += fmt.Sprintf(" [%s]", n.HandlerFunction)
	}

	return text
}

type PurgeCommand struct{}

func (c *PurgeCommand) Run(app *App) error {
	ctx := context.Background()

	nav, err := app.Navigation(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := nav.Purge(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

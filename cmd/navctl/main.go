package main

import (
	"github.com/alecthomas/kong"

	_ "github.com/bornholm/dbmenu/internal/navigation/cache/all"
)

type Command struct {
	Config   string `help:"Configuration file." short:"c" type:"existingfile" env:"DBMENU_CONFIG"`
	LogLevel int    `help:"Logging level (debug: -4, info: 0, warn: 4, error: 8)." default:"4"`

	Add          *AddCommand          `cmd:"add" help:"Add a menu item."`
	Edit         *EditCommand         `cmd:"edit" help:"Edit the fields of a menu item."`
	Delete       *DeleteCommand       `cmd:"delete" help:"Delete a menu item."`
	Get          *GetCommand          `cmd:"get" help:"Show a menu item."`
	NextOrder    *NextOrderCommand    `cmd:"next-order" help:"Show the order the next item under a parent would get."`
	Tree         *TreeCommand         `cmd:"tree" help:"Print the navigation tree."`
	Purge        *PurgeCommand        `cmd:"purge" help:"Purge the cached navigation trees."`
	HashPassword *HashPasswordCommand `cmd:"hash-password" help:"Hash an admin password for the configuration."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("navctl"),
		kong.Description("Navigation menu administration"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&App{
		ConfigFile: command.Config,
		LogLevel:   command.LogLevel,
	})
	ctx.FatalIfErrorf(err)
}

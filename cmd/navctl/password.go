package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bornholm/dbmenu/internal/authn/basic"
	"github.com/pkg/errors"
)

type HashPasswordCommand struct {
	Cost int `help:"Bcrypt cost." default:"12"`
}

// Run reads the password from the standard input
func (c *HashPasswordCommand) Run(app *App) error {
	reader := bufio.NewReader(os.Stdin)

	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		return errors.Wrap(err, "could not read password from standard input")
	}

	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}

	hash, err := basic.HashPassword(password, c.Cost)
	if err != nil {
		return errors.WithStack(err)
	}

	fmt.Println(hash)

	return nil
}

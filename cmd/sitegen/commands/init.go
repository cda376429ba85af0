package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct{}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println("Initializing site skeleton")
	scaffold.Run(config.FromEnv())
	fmt.Println("Run 'sitegen develop' to preview it at http://localhost:8000")
	return nil
}

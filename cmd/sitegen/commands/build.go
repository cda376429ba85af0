package commands

import (
	"context"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/registry"
	"git.home.luguber.info/inful/sitegen/internal/templates"
)

// BuildCmd implements the 'build' command: one full build, exit non-zero on
// a structurally invalid template.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, _ *CLI) error {
	site := config.FromEnv()
	orch := build.New(site, templates.NewEngine(), registry.New())
	return orch.Run(context.Background())
}

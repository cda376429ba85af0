package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
)

var version = "dev"

func main() {
	// Optional .env in the working directory; absence is fine.
	_ = godotenv.Load()

	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("sitegen"),
		kong.Description("Minimal static-site generator: Markdown pages, HTML templates, live preview."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}

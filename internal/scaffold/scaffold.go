// Package scaffold creates the conventional site skeleton for `init`:
// an example page, two example templates and one static asset. Existing
// directories are left untouched; creation failures are swallowed so a
// partially present layout never aborts initialization.
package scaffold

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

const examplePage = `---
title: Welcome
template: homepage
---
# Welcome to your new site

Edit ` + "`pages/index.md`" + ` and run ` + "`sitegen develop`" + ` to see changes live.
`

const homepageTemplate = `<html>
<head>
  <title>{{ title }}</title>
  <link rel="stylesheet" href="/main.css">
</head>
<body>
  <header><h1>{{ title }}</h1></header>
  <main id="page-content"></main>
</body>
</html>
`

const defaultTemplate = `<html>
<head>
  <title>{{ title }}</title>
  <link rel="stylesheet" href="/main.css">
</head>
<body>
  <main id="page-content"></main>
</body>
</html>
`

const exampleStylesheet = `body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
`

// Run scaffolds the site layout. A directory that already exists is skipped
// entirely so a second run never overwrites user content.
func Run(site config.Site) {
	scaffoldDir(site.PagesDir, map[string]string{
		"index.md": examplePage,
	})
	scaffoldDir(site.TemplatesDir, map[string]string{
		"homepage.html": homepageTemplate,
		"default.html":  defaultTemplate,
	})
	scaffoldDir(site.StaticDir, map[string]string{
		"main.css": exampleStylesheet,
	})
}

func scaffoldDir(dir string, files map[string]string) {
	if _, err := os.Stat(dir); err == nil {
		slog.Info("directory exists, leaving untouched", logfields.Path(dir))
		return
	}
	siteerr.BestEffort("scaffold "+dir, func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
				return err
			}
		}
		slog.Info("created", logfields.Path(dir))
		return nil
	})
}

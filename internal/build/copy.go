package build

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// copyAllAssets mirrors the passthrough files into the output root:
// non-HTML files from the templates root, non-Markdown files from the pages
// root, and everything from the static root. Hidden files are never copied.
// All of it is best-effort; a missing source directory is not an error.
func (o *Orchestrator) copyAllAssets() {
	siteerr.BestEffort("copy template assets", func() error {
		return o.copyTree(o.site.TemplatesDir, func(p string) bool { return !config.IsHTML(p) })
	})
	siteerr.BestEffort("copy page assets", func() error {
		return o.copyTree(o.site.PagesDir, func(p string) bool { return !config.IsMarkdown(p) })
	})
	siteerr.BestEffort("copy static assets", func() error {
		return o.copyTree(o.site.StaticDir, func(string) bool { return true })
	})
}

// copyTree copies files under root that pass the filter, preserving relative
// paths. Individual file failures are counted and skipped.
func (o *Orchestrator) copyTree(root string, include func(string) bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if config.Hidden(path) && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if config.Hidden(path) || !include(path) {
			return nil
		}
		if err := o.copyFile(path, o.site.MirrorPath(root, path)); err != nil {
			o.rec.IncCopyFailure()
		}
		return nil
	})
}

// CopyAsset mirrors a single changed file under root into the output,
// best-effort. Used by the watch loop for asset change events.
func (o *Orchestrator) CopyAsset(root, path string) {
	if config.Hidden(path) {
		return
	}
	siteerr.BestEffort("copy asset", func() error {
		if err := o.copyFile(path, o.site.MirrorPath(root, path)); err != nil {
			o.rec.IncCopyFailure()
			return err
		}
		return nil
	})
}

func (o *Orchestrator) copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Package watch reconciles filesystem change events into the minimal set of
// rebuild actions: one page for a page change, the dependent page set for a
// template change, a single mirror copy for an asset change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
	"git.home.luguber.info/inful/sitegen/internal/registry"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// Kind classifies a changed path.
type Kind string

const (
	KindPage     Kind = "page"     // Markdown under the pages root
	KindTemplate Kind = "template" // HTML under the templates root
	KindAsset    Kind = "asset"    // anything else under a watched root
	KindIgnored  Kind = "ignored"  // hidden files, editor temp files, unknown roots
)

// Loop subscribes to filesystem events for the site roots and applies the
// incremental reconciliation rules. Deleted pages and templates are not
// cleaned up; their registry entries and output files go stale.
type Loop struct {
	site    config.Site
	orch    *build.Orchestrator
	reg     *registry.Registry
	rec     metrics.Recorder
	watcher *fsnotify.Watcher
}

// New creates a loop watching the pages, templates and static roots
// recursively. Roots that do not exist are skipped.
func New(orch *build.Orchestrator, reg *registry.Registry, rec metrics.Recorder) (*Loop, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	l := &Loop{site: orch.Site(), orch: orch, reg: reg, rec: rec, watcher: watcher}
	for _, root := range []string{l.site.PagesDir, l.site.TemplatesDir, l.site.StaticDir} {
		if err := addDirsRecursive(watcher, root); err != nil && !os.IsNotExist(err) {
			_ = watcher.Close()
			return nil, err
		}
	}
	return l, nil
}

// Run pumps events until ctx is done or a structural template error stops the
// build. Closing the watcher is the only teardown.
func (l *Loop) Run(ctx context.Context) error {
	ctx = observability.WithComponent(ctx, "watch")
	defer func() { _ = l.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-l.watcher.Events:
			if !ok {
				return nil
			}
			if err := l.handleEvent(ctx, ev); err != nil {
				return err
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return nil
			}
			observability.WarnContext(ctx, "watcher error", logfields.Error(err))
		}
	}
}

func (l *Loop) handleEvent(ctx context.Context, ev fsnotify.Event) error {
	if ev.Op == fsnotify.Chmod {
		return nil
	}

	path := filepath.Clean(ev.Name)

	// New directories must be registered so events inside them arrive.
	if ev.Op.Has(fsnotify.Create) {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			if err := addDirsRecursive(l.watcher, path); err != nil {
				observability.WarnContext(ctx, "watch new directory failed", logfields.Path(path), logfields.Error(err))
			}
			return nil
		}
	}

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		// Deletion is not reconciled: stale output and index entries remain.
		observability.DebugContext(ctx, "deletion not handled", logfields.Path(path), logfields.Event(ev.Op.String()))
		l.rec.IncWatchEvent(string(KindIgnored))
		return nil
	}

	kind := l.Classify(path)
	l.rec.IncWatchEvent(string(kind))

	switch kind {
	case KindPage:
		observability.InfoContext(ctx, "page changed", logfields.Page(path))
		if err := l.orch.ProcessPage(ctx, path); err != nil {
			if siteerr.IsStructural(err) {
				return err
			}
			observability.ErrorContext(ctx, "page rebuild failed", logfields.Page(path), logfields.Error(err))
		}
	case KindTemplate:
		pages := l.reg.PagesUsing(path)
		observability.InfoContext(ctx, "template changed", logfields.Template(path), logfields.Pages(len(pages)))
		for _, page := range pages {
			if err := l.orch.ProcessPage(ctx, page); err != nil {
				if siteerr.IsStructural(err) {
					return err
				}
				observability.ErrorContext(ctx, "page rebuild failed", logfields.Page(page), logfields.Error(err))
			}
		}
	case KindAsset:
		observability.DebugContext(ctx, "asset changed", logfields.Path(path))
		l.orch.CopyAsset(l.rootOf(path), path)
	}
	return nil
}

// Classify maps a changed path to its reconciliation rule by root and
// extension.
func (l *Loop) Classify(path string) Kind {
	if shouldIgnore(path) {
		return KindIgnored
	}
	switch root := l.rootOf(path); root {
	case l.site.PagesDir:
		if config.IsMarkdown(path) {
			return KindPage
		}
		return KindAsset
	case l.site.TemplatesDir:
		if config.IsHTML(path) {
			return KindTemplate
		}
		return KindAsset
	case l.site.StaticDir:
		return KindAsset
	default:
		return KindIgnored
	}
}

func (l *Loop) rootOf(path string) string {
	for _, root := range []string{l.site.PagesDir, l.site.TemplatesDir, l.site.StaticDir} {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

// shouldIgnore filters hidden files and common editor temp artifacts.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp") {
		return true
	}
	return false
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if config.Hidden(path) && path != root {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

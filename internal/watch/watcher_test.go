package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/registry"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
	"git.home.luguber.info/inful/sitegen/internal/templates"
)

const defaultTemplate = `<html><head><title>{{ title }}</title></head><body><main id="page-content"></main></body></html>`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newLoop(t *testing.T) (*Loop, config.Site, *registry.Registry) {
	t.Helper()
	root := t.TempDir()
	site := config.Site{
		PagesDir:     filepath.Join(root, "pages"),
		TemplatesDir: filepath.Join(root, "templates"),
		StaticDir:    filepath.Join(root, "static"),
		OutputDir:    filepath.Join(root, "public"),
	}
	write(t, filepath.Join(site.TemplatesDir, "default.html"), defaultTemplate)
	require.NoError(t, os.MkdirAll(site.PagesDir, 0o755))
	require.NoError(t, os.MkdirAll(site.StaticDir, 0o755))
	require.NoError(t, os.MkdirAll(site.OutputDir, 0o755))

	reg := registry.New()
	orch := build.New(site, templates.NewEngine(), reg)
	l, err := New(orch, reg, metrics.NoopRecorder{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.watcher.Close() })
	return l, site, reg
}

func TestClassify(t *testing.T) {
	l, site, _ := newLoop(t)

	cases := []struct {
		path string
		want Kind
	}{
		{filepath.Join(site.PagesDir, "index.md"), KindPage},
		{filepath.Join(site.PagesDir, "nested", "post.md"), KindPage},
		{filepath.Join(site.PagesDir, "robots.txt"), KindAsset},
		{filepath.Join(site.TemplatesDir, "default.html"), KindTemplate},
		{filepath.Join(site.TemplatesDir, "base.css"), KindAsset},
		{filepath.Join(site.StaticDir, "css", "main.css"), KindAsset},
		{filepath.Join(site.StaticDir, "page.md"), KindAsset},
		{filepath.Join(site.PagesDir, ".hidden.md"), KindIgnored},
		{filepath.Join(site.PagesDir, "draft.md~"), KindIgnored},
		{filepath.Join(site.PagesDir, ".index.md.swp"), KindIgnored},
		{filepath.Join("elsewhere", "file.md"), KindIgnored},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, l.Classify(tc.path), "path %s", tc.path)
	}
}

func TestHandleEvent_PageChange_RebuildsOnePage(t *testing.T) {
	l, site, reg := newLoop(t)
	page := filepath.Join(site.PagesDir, "index.md")
	write(t, page, "---\ntitle: Home\n---\n# Hi\n")

	err := l.handleEvent(context.Background(), fsnotify.Event{Name: page, Op: fsnotify.Write})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(site.OutputDir, "index.html"))
	require.Equal(t, []string{page}, reg.PagesUsing(site.TemplatePath("")))
}

func TestHandleEvent_TemplateChange_FansOutToDependentPages(t *testing.T) {
	l, site, _ := newLoop(t)
	a := filepath.Join(site.PagesDir, "a.md")
	b := filepath.Join(site.PagesDir, "b.md")
	write(t, a, "# A\n")
	write(t, b, "# B\n")
	ctx := context.Background()

	tmpl := site.TemplatePath("")
	require.NoError(t, l.handleEvent(ctx, fsnotify.Event{Name: a, Op: fsnotify.Write}))
	require.NoError(t, l.handleEvent(ctx, fsnotify.Event{Name: b, Op: fsnotify.Write}))

	write(t, tmpl, `<html><head></head><body><p>v2</p><div id="page-content"></div></body></html>`)
	require.NoError(t, l.handleEvent(ctx, fsnotify.Event{Name: tmpl, Op: fsnotify.Write}))

	for _, out := range []string{"a.html", "b.html"} {
		content, err := os.ReadFile(filepath.Join(site.OutputDir, out))
		require.NoError(t, err)
		require.Contains(t, string(content), "<p>v2</p>")
	}
}

func TestHandleEvent_TemplateChange_NoDependents(t *testing.T) {
	l, site, _ := newLoop(t)
	tmpl := site.TemplatePath("homepage")
	write(t, tmpl, defaultTemplate)

	require.NoError(t, l.handleEvent(context.Background(), fsnotify.Event{Name: tmpl, Op: fsnotify.Write}))
}

func TestHandleEvent_AssetChange_MirrorsFile(t *testing.T) {
	l, site, _ := newLoop(t)
	asset := filepath.Join(site.StaticDir, "main.css")
	write(t, asset, "body{}")

	require.NoError(t, l.handleEvent(context.Background(), fsnotify.Event{Name: asset, Op: fsnotify.Write}))
	require.FileExists(t, filepath.Join(site.OutputDir, "main.css"))
}

func TestHandleEvent_RemoveLeavesStaleState(t *testing.T) {
	l, site, reg := newLoop(t)
	page := filepath.Join(site.PagesDir, "gone.md")
	write(t, page, "# Gone\n")
	ctx := context.Background()
	require.NoError(t, l.handleEvent(ctx, fsnotify.Event{Name: page, Op: fsnotify.Write}))
	require.NoError(t, os.Remove(page))

	require.NoError(t, l.handleEvent(ctx, fsnotify.Event{Name: page, Op: fsnotify.Remove}))

	// Stale output and index entry remain, preserved deliberately.
	require.FileExists(t, filepath.Join(site.OutputDir, "gone.html"))
	require.Equal(t, []string{page}, reg.PagesUsing(site.TemplatePath("")))
}

func TestHandleEvent_StructuralTemplateErrorStopsLoop(t *testing.T) {
	l, site, _ := newLoop(t)
	page := filepath.Join(site.PagesDir, "p.md")
	write(t, page, "# P\n")
	ctx := context.Background()
	require.NoError(t, l.handleEvent(ctx, fsnotify.Event{Name: page, Op: fsnotify.Write}))

	tmpl := site.TemplatePath("")
	write(t, tmpl, `<body>broken</body>`)
	err := l.handleEvent(ctx, fsnotify.Event{Name: tmpl, Op: fsnotify.Write})
	require.Error(t, err)
	require.True(t, siteerr.IsStructural(err))
}

func TestHandleEvent_ChmodIgnored(t *testing.T) {
	l, site, _ := newLoop(t)
	page := filepath.Join(site.PagesDir, "index.md")
	write(t, page, "# Hi\n")

	require.NoError(t, l.handleEvent(context.Background(), fsnotify.Event{Name: page, Op: fsnotify.Chmod}))
	require.NoFileExists(t, filepath.Join(site.OutputDir, "index.html"))
}

// Package build runs full site builds: it wipes the output root, copies
// passthrough assets, and renders every Markdown page through the template
// engine, registering each page with the registry as it goes.
package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
	"git.home.luguber.info/inful/sitegen/internal/registry"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
	"git.home.luguber.info/inful/sitegen/internal/templates"
)

// Orchestrator coordinates full builds and single-page rebuilds. The same
// instance is shared between the build command and the watch loop so both
// feed the same registry.
type Orchestrator struct {
	site   config.Site
	engine *templates.Engine
	reg    *registry.Registry
	rec    metrics.Recorder
}

// New creates an orchestrator with a no-op metrics recorder.
func New(site config.Site, engine *templates.Engine, reg *registry.Registry) *Orchestrator {
	return &Orchestrator{site: site, engine: engine, reg: reg, rec: metrics.NoopRecorder{}}
}

// WithRecorder swaps in a metrics recorder.
func (o *Orchestrator) WithRecorder(rec metrics.Recorder) *Orchestrator {
	o.rec = rec
	return o
}

// Site returns the layout the orchestrator builds from.
func (o *Orchestrator) Site() config.Site { return o.site }

// Run performs a full build: clear output, copy assets, render all pages.
// All pages are dispatched concurrently and joined before Run returns. The
// first structural template error aborts the build; other per-page failures
// are logged and skipped.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx = observability.WithBuildID(ctx, uuid.NewString()[:8])
	start := time.Now()

	if err := o.clearOutput(); err != nil {
		o.rec.IncBuildOutcome("failed")
		return err
	}
	o.copyAllAssets()

	pages, err := o.listPages()
	if err != nil {
		o.rec.IncBuildOutcome("failed")
		return fmt.Errorf("scan pages: %w", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		buildErr error
	)
	for _, page := range pages {
		wg.Add(1)
		go func(page string) {
			defer wg.Done()
			if err := o.ProcessPage(ctx, page); err != nil {
				if siteerr.IsStructural(err) {
					mu.Lock()
					if buildErr == nil {
						buildErr = err
					}
					mu.Unlock()
					return
				}
				observability.ErrorContext(ctx, "page failed", logfields.Page(page), logfields.Error(err))
			}
		}(page)
	}
	wg.Wait()

	elapsed := time.Since(start)
	o.rec.ObserveBuildDuration(elapsed)
	if buildErr != nil {
		o.rec.IncBuildOutcome("failed")
		return buildErr
	}
	o.rec.IncBuildOutcome("success")
	observability.InfoContext(ctx, "build complete",
		logfields.Pages(len(pages)), logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

// ProcessPage renders a single Markdown page and writes its output file. The
// page is always reprocessed from scratch; the registry entry reflects the
// most recent successful parse.
func (o *Orchestrator) ProcessPage(ctx context.Context, pagePath string) error {
	raw, err := os.ReadFile(pagePath)
	if err != nil {
		o.rec.IncPageResult(metrics.PageFailed)
		return siteerr.PageError(pagePath, err)
	}

	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		o.rec.IncPageResult(metrics.PageFailed)
		return siteerr.PageError(pagePath, err)
	}

	templatePath := o.site.TemplatePath(meta.Template())
	o.reg.Record(pagePath, templatePath)

	out, err := o.engine.RenderPage(meta, body, templatePath)
	if err != nil {
		o.rec.IncPageResult(metrics.PageFailed)
		return err
	}

	outPath := o.site.OutputPath(pagePath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		o.rec.IncPageResult(metrics.PageFailed)
		return siteerr.PageError(pagePath, err)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		o.rec.IncPageResult(metrics.PageFailed)
		return siteerr.PageError(pagePath, err)
	}

	o.rec.IncPageResult(metrics.PageSuccess)
	observability.DebugContext(ctx, "page rendered",
		logfields.Page(pagePath), logfields.Template(templatePath), logfields.Output(outPath))
	return nil
}

func (o *Orchestrator) clearOutput() error {
	if err := os.RemoveAll(o.site.OutputDir); err != nil {
		return fmt.Errorf("clear output: %w", err)
	}
	if err := os.MkdirAll(o.site.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return nil
}

func (o *Orchestrator) listPages() ([]string, error) {
	var pages []string
	err := filepath.WalkDir(o.site.PagesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if config.Hidden(path) && path != o.site.PagesDir {
				return filepath.SkipDir
			}
			return nil
		}
		if config.Hidden(path) || !config.IsMarkdown(path) {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("pages directory missing, nothing to build", logfields.Path(o.site.PagesDir))
			return nil, nil
		}
		return nil, err
	}
	return pages, nil
}

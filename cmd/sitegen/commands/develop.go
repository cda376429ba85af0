package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/devserver"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/registry"
	"git.home.luguber.info/inful/sitegen/internal/templates"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// DevelopCmd implements the 'develop' command: full build, then a preview
// server plus the incremental watch loop until interrupted.
type DevelopCmd struct {
	Port int `arg:"" optional:"" default:"8000" env:"SITEGEN_PORT" help:"Preview server port."`
}

func (d *DevelopCmd) Run(_ *Global, _ *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	site := config.FromEnv()
	promReg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(promReg)

	reg := registry.New()
	orch := build.New(site, templates.NewEngine(), reg).WithRecorder(rec)
	if err := orch.Run(sigctx); err != nil {
		return err
	}

	loop, err := watch.New(orch, reg, rec)
	if err != nil {
		return err
	}
	server := devserver.New(site.OutputDir, rec).WithPrometheus(promReg)

	errCh := make(chan error, 2)
	go func() { errCh <- loop.Run(sigctx) }()
	go func() { errCh <- server.ListenAndServe(sigctx, d.Port) }()

	// First failure wins; a nil from either side means a clean shutdown was
	// requested, so stop the other one too.
	first := <-errCh
	cancel()
	second := <-errCh
	if first != nil {
		return first
	}
	return second
}

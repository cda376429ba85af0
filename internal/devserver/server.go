// Package devserver serves the generated output over plain HTTP for local
// preview. Routing is deliberately simple: `/` maps to index.html, an
// extension-less final segment gets `.html` appended, everything else is raw
// byte passthrough. There are no caching headers and no directory listings.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// notFoundBody is the fixed response body for misses.
const notFoundBody = `<html><head><title>404 Not Found</title></head><body><h1>404</h1><p>Page not found.</p></body></html>`

// Server serves files from the output root.
type Server struct {
	root    string
	rec     metrics.Recorder
	promReg *prom.Registry

	httpServer *http.Server
}

// New creates a preview server for the given output root.
func New(root string, rec metrics.Recorder) *Server {
	return &Server{root: root, rec: rec}
}

// WithPrometheus mounts a /-/metrics endpoint backed by reg.
func (s *Server) WithPrometheus(reg *prom.Registry) *Server {
	s.promReg = reg
	return s
}

// Handler builds the route table. Operational endpoints live under /-/ so
// they cannot shadow generated content.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/-/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "ok")
	})
	if s.promReg != nil {
		mux.Handle("/-/metrics", metrics.HTTPHandler(s.promReg))
	}
	mux.HandleFunc("/", s.serveFile)
	return mux
}

// ListenAndServe runs the server until ctx is done, then shuts it down.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()
	slog.Info("preview server listening", logfields.Port(port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", port)))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveFile applies the routing rules and streams the resolved file.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	file := Resolve(r.URL.Path)

	full := filepath.Join(s.root, filepath.FromSlash(file))
	data, err := os.ReadFile(full)
	if err != nil {
		s.rec.IncHTTPRequest(http.StatusNotFound)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, notFoundBody)
		return
	}

	s.rec.IncHTTPRequest(http.StatusOK)
	_, _ = w.Write(data)
}

// Resolve maps a request path to a file path relative to the output root:
// `/` becomes index.html and a final segment without a dot gets `.html`
// appended; everything else passes through verbatim.
func Resolve(urlPath string) string {
	p := path.Clean("/" + urlPath)
	if p == "/" {
		return "index.html"
	}
	p = strings.TrimPrefix(p, "/")
	if !strings.Contains(path.Base(p), ".") {
		p += ".html"
	}
	return p
}

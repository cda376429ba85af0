package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pageResults   *prom.CounterVec
	copyFailures  prom.Counter
	watchEvents   *prom.CounterVec
	httpRequests  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the sitegen metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitegen",
			Name:      "build_duration_seconds",
			Help:      "Total full-build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "build_outcomes_total",
			Help:      "Full builds by final status",
		}, []string{"outcome"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "page_results_total",
			Help:      "Per-page render results",
		}, []string{"result"}),
		copyFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "copy_failures_total",
			Help:      "Best-effort asset copy failures (swallowed)",
		}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "watch_events_total",
			Help:      "Filesystem events by classification",
		}, []string{"kind"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "http_requests_total",
			Help:      "Preview server requests by status code",
		}, []string{"status"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pageResults, pr.copyFailures, pr.watchEvents, pr.httpRequests)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPageResult(result PageResult) {
	if p == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncCopyFailure() {
	if p == nil {
		return
	}
	p.copyFailures.Inc()
}

func (p *PrometheusRecorder) IncWatchEvent(kind string) {
	if p == nil {
		return
	}
	p.watchEvents.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncHTTPRequest(status int) {
	if p == nil {
		return
	}
	p.httpRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// HTTPHandler returns an http.Handler serving Prometheus metrics for reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SafeToCall(t *testing.T) {
	var r Recorder = NoopRecorder{}
	require.NotPanics(t, func() {
		r.ObserveBuildDuration(time.Second)
		r.IncBuildOutcome("success")
		r.IncPageResult(PageSuccess)
		r.IncCopyFailure()
		r.IncWatchEvent("page")
		r.IncHTTPRequest(200)
	})
}

func TestPrometheusRecorder_CountsResults(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncPageResult(PageSuccess)
	r.IncPageResult(PageSuccess)
	r.IncPageResult(PageFailed)
	r.IncWatchEvent("template")
	r.IncHTTPRequest(404)

	require.Equal(t, float64(2), testutil.ToFloat64(r.pageResults.WithLabelValues("success")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.pageResults.WithLabelValues("failed")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.watchEvents.WithLabelValues("template")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.httpRequests.WithLabelValues("404")))
}

func TestPrometheusRecorder_NilReceiverIsSafe(t *testing.T) {
	var r *PrometheusRecorder
	require.NotPanics(t, func() {
		r.IncPageResult(PageSuccess)
		r.IncCopyFailure()
	})
}

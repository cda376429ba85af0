// Package metrics defines the observability hooks for builds, page renders,
// watch events and preview requests. Components receive a Recorder through
// dependency injection; the default NoopRecorder makes metrics optional
// without nil checks. The Prometheus implementation is activated only by the
// develop command.
package metrics

import "time"

// PageResult enumerates per-page render outcomes for counters.
type PageResult string

const (
	PageSuccess PageResult = "success"
	PageFailed  PageResult = "failed"
)

// Recorder defines observability hooks. Implementations must be safe for
// concurrent use; all methods must be cheap enough to call on every page.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	IncPageResult(result PageResult)
	IncCopyFailure()
	IncWatchEvent(kind string) // kind: page|template|asset|ignored
	IncHTTPRequest(status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) IncPageResult(PageResult)           {}
func (NoopRecorder) IncCopyFailure()                    {}
func (NoopRecorder) IncWatchEvent(string)               {}
func (NoopRecorder) IncHTTPRequest(int)                 {}

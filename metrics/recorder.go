package metrics

import "time"

// ResultLabel enumerates per-page outcomes.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder receives generation metrics. Implementations must be safe for
// concurrent use since pages are rendered in parallel.
type Recorder interface {
	ObservePageDuration(d time.Duration, result ResultLabel)
	IncPageResult(result ResultLabel)
	IncInFlight()
	DecInFlight()
	SetConcurrency(n int)
	ObserveGenerateDuration(d time.Duration, success bool)
}

// NoopRecorder is the default when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObservePageDuration(time.Duration, ResultLabel) {}
func (NoopRecorder) IncPageResult(ResultLabel)                      {}
func (NoopRecorder) IncInFlight()                                   {}
func (NoopRecorder) DecInFlight()                                   {}
func (NoopRecorder) SetConcurrency(int)                             {}
func (NoopRecorder) ObserveGenerateDuration(time.Duration, bool)    {}

package metrics

import "time"

// OutcomeLabel enumerates run outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarning  OutcomeLabel = "warning"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for sourcing runs.
type Recorder interface {
	ObserveFetchDuration(resource string, d time.Duration, success bool)
	IncFetchRetry(resource string)
	SetNodes(kind string, n int)
	AddPassOutcomes(pass, status string, n int)
	AddEmitted(batch string, created int, aborted bool)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncFetchRetry(string)                             {}
func (NoopRecorder) SetNodes(string, int)                             {}
func (NoopRecorder) AddPassOutcomes(string, string, int)              {}
func (NoopRecorder) AddEmitted(string, int, bool)                     {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                 {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                       {}

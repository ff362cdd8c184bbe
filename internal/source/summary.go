package source

import (
	"context"
	stderrors "errors"
	"time"

	"git.home.luguber.info/inful/kontentsource/internal/emit"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
	"git.home.luguber.info/inful/kontentsource/internal/metrics"
)

// RunSummary describes one sourcing run.
type RunSummary struct {
	ProjectID  string               `json:"project_id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	DurationMS int64                `json:"duration_ms"`
	Outcome    metrics.OutcomeLabel `json:"outcome"`
	Error      string               `json:"error,omitempty"`
	Counts     map[string]int       `json:"counts"`
	Passes     []PassSummary        `json:"passes"`
	Batches    []BatchSummary       `json:"batches"`
}

// PassSummary aggregates the outcomes of one normalization or decoration pass.
type PassSummary struct {
	Pass      string        `json:"pass"`
	Decorated int           `json:"decorated"`
	Skipped   int           `json:"skipped"`
	Skips     []SkipSummary `json:"skips,omitempty"`
}

// SkipSummary names one unit left out of a pass.
type SkipSummary struct {
	Language string `json:"language,omitempty"`
	Codename string `json:"codename"`
	Error    string `json:"error"`
}

// BatchSummary is the outcome of one emission batch.
type BatchSummary struct {
	Batch   string `json:"batch"`
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Error   string `json:"error,omitempty"`
}

func newSummary(projectID string, start time.Time) *RunSummary {
	return &RunSummary{
		ProjectID: projectID,
		StartedAt: start,
		Counts:    map[string]int{},
	}
}

func (s *RunSummary) addReport(r *kontent.Report) {
	ps := PassSummary{
		Pass:      r.Pass,
		Decorated: r.Count(kontent.StatusDecorated),
		Skipped:   r.Count(kontent.StatusSkipped),
	}
	for _, o := range r.Skipped() {
		skip := SkipSummary{Language: o.Language, Codename: o.Codename}
		if o.Err != nil {
			skip.Error = o.Err.Error()
		}
		ps.Skips = append(ps.Skips, skip)
	}
	s.Passes = append(s.Passes, ps)
}

func (s *RunSummary) addBatch(r emit.BatchResult) {
	b := BatchSummary{Batch: r.Batch, Total: r.Total, Created: r.Created}
	if r.Err != nil {
		b.Error = r.Err.Error()
	}
	s.Batches = append(s.Batches, b)
}

// Skipped returns the number of skipped units across all passes.
func (s *RunSummary) Skipped() int {
	n := 0
	for _, p := range s.Passes {
		n += p.Skipped
	}
	return n
}

// AbortedBatches returns the number of batches stopped by a sink failure.
func (s *RunSummary) AbortedBatches() int {
	n := 0
	for _, b := range s.Batches {
		if b.Error != "" {
			n++
		}
	}
	return n
}

func (s *RunSummary) finish(end time.Time, err error) {
	s.FinishedAt = end
	s.DurationMS = end.Sub(s.StartedAt).Milliseconds()
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		s.Outcome = metrics.OutcomeCanceled
		s.Error = err.Error()
	case err != nil:
		s.Outcome = metrics.OutcomeFailed
		s.Error = err.Error()
	case s.Skipped() > 0 || s.AbortedBatches() > 0:
		s.Outcome = metrics.OutcomeWarning
	default:
		s.Outcome = metrics.OutcomeSuccess
	}
}

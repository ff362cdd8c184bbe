package kontent

import (
	"log/slog"

	"git.home.luguber.info/inful/kontentsource/internal/logfields"
)

// Status is the result of processing one unit.
type Status string

const (
	StatusDecorated Status = "decorated"
	StatusSkipped   Status = "skipped"
)

// Outcome records what happened to one item, type or taxonomy in a pass.
type Outcome struct {
	Pass     string
	Language string
	Codename string
	Status   Status
	Err      error
}

// Report collects per-unit outcomes of a pass.
type Report struct {
	Pass     string
	Outcomes []Outcome
}

// NewReport creates an empty report for a pass.
func NewReport(pass string) *Report {
	return &Report{Pass: pass}
}

// Decorated records a successful unit.
func (r *Report) Decorated(language, codename string) {
	r.Outcomes = append(r.Outcomes, Outcome{Pass: r.Pass, Language: language, Codename: codename, Status: StatusDecorated})
}

// Skip records and logs a unit that was left out.
func (r *Report) Skip(language, codename string, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Pass: r.Pass, Language: language, Codename: codename, Status: StatusSkipped, Err: err})
	slog.Error("Skipping unit",
		logfields.Pass(r.Pass),
		logfields.Language(language),
		logfields.Codename(codename),
		logfields.Error(err))
}

// Skipped returns the skipped outcomes.
func (r *Report) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped {
			out = append(out, o)
		}
	}
	return out
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Merge appends the outcomes of other.
func (r *Report) Merge(other *Report) {
	if other != nil {
		r.Outcomes = append(r.Outcomes, other.Outcomes...)
	}
}

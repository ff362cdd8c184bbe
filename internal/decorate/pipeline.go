// Package decorate rewrites cross references between nodes into relation
// fields. Each decorator takes a collection snapshot and returns a new
// collection; the input is never modified.
package decorate

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/kontentsource/internal/kontent"
	"git.home.luguber.info/inful/kontentsource/internal/logfields"
)

// Pass names.
const (
	PassLanguageVariants = "language_variants"
	PassTypeItems        = "type_items"
	PassLinkedItems      = "linked_items"
	PassRichText         = "rich_text_linked_items"
)

// Decorator is one transformation of a collection snapshot.
type Decorator func(c *kontent.Collection) (*kontent.Collection, *kontent.Report)

// Step is a named decorator in the pipeline.
type Step struct {
	Name  string
	Apply Decorator
}

// Steps returns the decorators in the order they must run. Later passes read
// relation fields written by earlier ones.
func Steps() []Step {
	return []Step{
		{Name: PassLanguageVariants, Apply: LanguageVariants},
		{Name: PassTypeItems, Apply: TypeItems},
		{Name: PassLinkedItems, Apply: LinkedItems},
		{Name: PassRichText, Apply: RichText},
	}
}

// Run applies steps in order and returns the final collection together with
// one report per step.
func Run(c *kontent.Collection, steps []Step) (*kontent.Collection, []*kontent.Report) {
	reports := make([]*kontent.Report, 0, len(steps))
	current := c
	for _, step := range steps {
		start := time.Now()
		next, report := step.Apply(current)
		if report == nil {
			report = kontent.NewReport(step.Name)
		}
		slog.Info("Decoration pass finished",
			logfields.Pass(step.Name),
			slog.Int("decorated", report.Count(kontent.StatusDecorated)),
			slog.Int("skipped", report.Count(kontent.StatusSkipped)),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		reports = append(reports, report)
		current = next
	}
	return current, reports
}

// Package source runs one complete sourcing pass: fetch, normalize, decorate
// and emit.
package source

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/decorate"
	"git.home.luguber.info/inful/kontentsource/internal/delivery"
	"git.home.luguber.info/inful/kontentsource/internal/emit"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
	"git.home.luguber.info/inful/kontentsource/internal/logfields"
	"git.home.luguber.info/inful/kontentsource/internal/metrics"
	"git.home.luguber.info/inful/kontentsource/internal/richtext"
)

// Notifier publishes run summaries.
type Notifier interface {
	Publish(ctx context.Context, event any) error
}

// Source fetches Delivery API content and hands decorated nodes to a sink.
type Source struct {
	cfg        *config.Config
	client     delivery.Client
	emitter    *emit.Emitter
	normalizer *kontent.Normalizer
	steps      []decorate.Step
	recorder   metrics.Recorder
	notifier   Notifier
	nodeID     kontent.NodeIDFunc
	now        func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Source) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithNotifier publishes a summary after every run.
func WithNotifier(n Notifier) Option {
	return func(s *Source) { s.notifier = n }
}

// WithNodeID replaces the node id generator.
func WithNodeID(fn kontent.NodeIDFunc) Option {
	return func(s *Source) { s.nodeID = fn }
}

// WithSteps replaces the decoration pipeline.
func WithSteps(steps []decorate.Step) Option {
	return func(s *Source) { s.steps = steps }
}

// New validates the language configuration and returns a Source. An
// invalid language list is a fatal configuration error.
func New(cfg *config.Config, client delivery.Client, sink emit.Sink, opts ...Option) (*Source, error) {
	if err := config.ValidateLanguageCodenames(cfg.Languages); err != nil {
		return nil, err
	}

	s := &Source{
		cfg:      cfg,
		client:   client,
		emitter:  emit.NewEmitter(sink),
		steps:    decorate.Steps(),
		recorder: metrics.NoopRecorder{},
		nodeID:   kontent.UUIDNodeID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	renderer := richtext.NewRenderer(richtext.Options{
		LinkPrefix:      cfg.RichText.LinkPrefix,
		LinkedItemClass: cfg.RichText.LinkedItemClass,
	})
	s.normalizer = kontent.NewNormalizer(s.nodeID, renderer)
	return s, nil
}

// Run executes one sourcing run. A failed listing fetch aborts the run;
// per-unit failures and aborted batches are recorded in the summary.
func (s *Source) Run(ctx context.Context) (*RunSummary, error) {
	start := s.now()
	summary := newSummary(s.cfg.Delivery.ProjectID, start)

	err := s.run(ctx, summary)
	summary.finish(s.now(), err)

	s.recorder.ObserveRunDuration(summary.FinishedAt.Sub(start))
	s.recorder.IncRunOutcome(summary.Outcome)
	for kind, n := range summary.Counts {
		s.recorder.SetNodes(kind, n)
	}

	if s.notifier != nil {
		if nerr := s.notifier.Publish(ctx, summary); nerr != nil {
			slog.Warn("Failed to publish run summary", logfields.Error(nerr))
		}
	}

	if err != nil {
		slog.Error("Kontent nodes generation failed",
			logfields.ProjectID(summary.ProjectID),
			logfields.Error(err))
		return summary, err
	}
	slog.Info("Kontent nodes generation finished",
		logfields.ProjectID(summary.ProjectID),
		slog.String("outcome", string(summary.Outcome)),
		slog.Int("skipped", summary.Skipped()),
		slog.Int("aborted_batches", summary.AbortedBatches()),
		logfields.DurationMS(float64(summary.DurationMS)))
	return summary, nil
}

func (s *Source) run(ctx context.Context, summary *RunSummary) error {
	defaultLang := s.cfg.DefaultLanguage()
	others := s.cfg.NonDefaultLanguages()

	slog.Info("Generating Kontent nodes",
		logfields.ProjectID(s.cfg.Delivery.ProjectID),
		slog.Any("languages", s.cfg.Languages))

	collection := kontent.NewCollection(defaultLang, others)

	rawTaxonomies, err := fetch(ctx, s, "taxonomies", s.client.Taxonomies)
	if err != nil {
		return err
	}
	taxonomies, report := s.normalizer.Taxonomies(rawTaxonomies)
	collection.Taxonomies = taxonomies
	s.record(summary, report)

	rawTypes, err := fetch(ctx, s, "types", s.client.Types)
	if err != nil {
		return err
	}
	types, report := s.normalizer.Types(rawTypes)
	collection.Types = types
	s.record(summary, report)

	itemsReport := kontent.NewReport(kontent.PassItems)
	for _, lang := range collection.Partitions() {
		rawItems, err := fetch(ctx, s, "items", func(ctx context.Context) ([]delivery.Item, error) {
			return s.client.Items(ctx, lang)
		})
		if err != nil {
			return err
		}
		items, report := s.normalizer.Items(lang, rawItems)
		collection.Items[lang] = items
		itemsReport.Merge(report)
		slog.Info("Fetched content items", logfields.Language(lang), logfields.Count(len(items)))
	}
	s.record(summary, itemsReport)

	decorated, reports := decorate.Run(collection, s.steps)
	for _, r := range reports {
		s.record(summary, r)
	}

	maps.Copy(summary.Counts, decorated.Counts())
	for _, lang := range decorated.Partitions() {
		summary.Counts[emit.ItemBatch(lang)] = len(decorated.ItemsIn(lang))
	}

	s.emitBatch(summary, emit.Emit(ctx, s.emitter, emit.BatchTypes, decorated.Types))
	s.emitBatch(summary, emit.Emit(ctx, s.emitter, emit.BatchTaxonomies, decorated.Taxonomies))
	for _, lang := range decorated.Partitions() {
		s.emitBatch(summary, emit.Emit(ctx, s.emitter, emit.ItemBatch(lang), decorated.ItemsIn(lang)))
	}
	return ctx.Err()
}

func fetch[T any](ctx context.Context, s *Source, resource string, fn func(context.Context) ([]T, error)) ([]T, error) {
	start := s.now()
	out, err := fn(ctx)
	s.recorder.ObserveFetchDuration(resource, s.now().Sub(start), err == nil)
	if err != nil {
		slog.Error("Failed to fetch delivery resource", logfields.Resource(resource), logfields.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *Source) record(summary *RunSummary, r *kontent.Report) {
	summary.addReport(r)
	s.recorder.AddPassOutcomes(r.Pass, string(kontent.StatusDecorated), r.Count(kontent.StatusDecorated))
	s.recorder.AddPassOutcomes(r.Pass, string(kontent.StatusSkipped), r.Count(kontent.StatusSkipped))
}

func (s *Source) emitBatch(summary *RunSummary, r emit.BatchResult) {
	summary.addBatch(r)
	s.recorder.AddEmitted(r.Batch, r.Created, r.Aborted())
}

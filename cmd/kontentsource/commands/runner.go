package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/delivery"
	"git.home.luguber.info/inful/kontentsource/internal/emit"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/logfields"
	"git.home.luguber.info/inful/kontentsource/internal/metrics"
	"git.home.luguber.info/inful/kontentsource/internal/notify"
	"git.home.luguber.info/inful/kontentsource/internal/source"
	"git.home.luguber.info/inful/kontentsource/internal/watch"
)

// sinkOpener opens the node sink for a run.
type sinkOpener func(cfg *config.Config) (emit.Sink, func(), error)

// openSink opens the sink selected by cfg.Output.
func openSink(cfg *config.Config) (emit.Sink, func(), error) {
	switch cfg.Output.Kind {
	case config.OutputSQLite:
		sink, err := emit.NewSQLiteSink(cfg.Output.Path)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {
			if cerr := sink.Close(); cerr != nil {
				slog.Warn("Failed to close sqlite sink", logfields.Error(cerr))
			}
		}, nil
	case config.OutputJSON, "":
		sink, err := emit.NewJSONDirSink(cfg.Output.Path)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {}, nil
	default:
		return nil, nil, errors.ConfigError("unsupported output kind").
			WithContext("kind", string(cfg.Output.Kind)).
			Build()
	}
}

// textfileRunner writes the Prometheus textfile after every run.
type textfileRunner struct {
	runner   watch.Runner
	recorder *metrics.PrometheusRecorder
	path     string
}

func (r textfileRunner) Run(ctx context.Context) (*source.RunSummary, error) {
	summary, err := r.runner.Run(ctx)
	if werr := r.recorder.WriteTextfile(r.path); werr != nil {
		slog.Warn("Failed to write metrics textfile", "path", r.path, logfields.Error(werr))
	}
	return summary, err
}

// newRunnerFactory wires the delivery client, sink, metrics and notifier for
// one run of cfg.
func newRunnerFactory(open sinkOpener) watch.RunnerFactory {
	return func(cfg *config.Config) (watch.Runner, func(), error) {
		var recorder metrics.Recorder = metrics.NoopRecorder{}
		var prom *metrics.PrometheusRecorder
		if cfg.Metrics.Textfile != "" {
			prom = metrics.NewPrometheusRecorder(nil)
			recorder = prom
		}

		client, err := delivery.NewHTTPClient(cfg.Delivery,
			delivery.WithRetryObserver(func(resource string, _ int, _ error) {
				recorder.IncFetchRetry(resource)
			}),
		)
		if err != nil {
			return nil, nil, err
		}

		sink, closeSink, err := open(cfg)
		if err != nil {
			return nil, nil, err
		}

		opts := []source.Option{source.WithRecorder(recorder)}
		cleanup := closeSink
		if cfg.Notify.Enabled() {
			publisher, perr := notify.Connect(cfg.Notify)
			if perr != nil {
				slog.Warn("Run summaries will not be published", logfields.Error(perr))
			} else {
				opts = append(opts, source.WithNotifier(publisher))
				cleanup = func() {
					publisher.Close()
					closeSink()
				}
			}
		}

		src, err := source.New(cfg, client, sink, opts...)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if prom != nil {
			return textfileRunner{runner: src, recorder: prom, path: cfg.Metrics.Textfile}, cleanup, nil
		}
		return src, cleanup, nil
	}
}

// Package watch keeps nodes in sync by re-running the source on a schedule
// and whenever the configuration file changes. Runs never overlap.
package watch

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/logfields"
	"git.home.luguber.info/inful/kontentsource/internal/source"
)

// Runner executes one sourcing run.
type Runner interface {
	Run(ctx context.Context) (*source.RunSummary, error)
}

// RunnerFactory builds a runner for cfg. The returned cleanup is called once
// the run finishes.
type RunnerFactory func(cfg *config.Config) (Runner, func(), error)

// Daemon schedules sourcing runs.
type Daemon struct {
	configPath string
	factory    RunnerFactory

	mu   sync.RWMutex
	cfg  *config.Config
	last *source.RunSummary
	runs int

	runMu     sync.Mutex
	scheduler *Scheduler
}

// New returns a daemon for the configuration loaded from configPath.
func New(configPath string, cfg *config.Config, factory RunnerFactory) *Daemon {
	return &Daemon{configPath: configPath, cfg: cfg, factory: factory}
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// LastSummary returns the summary of the most recent run, if any.
func (d *Daemon) LastSummary() *source.RunSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

// Runs returns the number of completed runs.
func (d *Daemon) Runs() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.runs
}

// RunOnce performs one run with the active configuration, waiting for any
// run in progress to finish first.
func (d *Daemon) RunOnce(ctx context.Context, reason string) (*source.RunSummary, error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := d.Config()
	slog.Info("Starting sourcing run", slog.String("reason", reason), logfields.ProjectID(cfg.Delivery.ProjectID))

	runner, cleanup, err := d.factory(cfg)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	summary, err := runner.Run(ctx)

	d.mu.Lock()
	d.runs++
	if summary != nil {
		d.last = summary
	}
	d.mu.Unlock()
	return summary, err
}

// Run performs an initial run, then keeps running on the configured interval
// and on configuration changes until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	if _, err := d.RunOnce(ctx, "startup"); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("Initial sourcing run failed", logfields.Error(err))
	}

	scheduler, err := NewScheduler()
	if err != nil {
		return err
	}
	d.scheduler = scheduler
	if err := scheduler.SchedulePeriodic(d.Config().Watch.Interval, func() { d.scheduled(ctx) }); err != nil {
		return err
	}
	scheduler.Start()

	watcher, err := NewConfigWatcher(d.configPath, d)
	if err != nil {
		_ = scheduler.Stop()
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		_ = scheduler.Stop()
		return err
	}

	<-ctx.Done()
	_ = watcher.Stop()
	if err := scheduler.Stop(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to stop scheduler").Build()
	}
	return nil
}

func (d *Daemon) scheduled(ctx context.Context) {
	if _, err := d.RunOnce(ctx, "scheduled"); err != nil && ctx.Err() == nil {
		slog.Error("Scheduled sourcing run failed", logfields.Error(err))
	}
}

// ReloadConfig swaps in cfg, reschedules when the interval changed and
// triggers a run.
func (d *Daemon) ReloadConfig(ctx context.Context, cfg *config.Config) error {
	d.mu.Lock()
	old := d.cfg
	d.cfg = cfg
	d.mu.Unlock()

	if old.Delivery.ProjectID != cfg.Delivery.ProjectID {
		slog.Warn("Delivery project changed", "from", old.Delivery.ProjectID, "to", cfg.Delivery.ProjectID)
	}
	if d.scheduler != nil && old.Watch.Interval != cfg.Watch.Interval {
		if err := d.scheduler.SchedulePeriodic(cfg.Watch.Interval, func() { d.scheduled(ctx) }); err != nil {
			return err
		}
		slog.Info("Rescheduled periodic run", slog.Duration("interval", cfg.Watch.Interval))
	}

	_, err := d.RunOnce(ctx, "config_reload")
	return err
}

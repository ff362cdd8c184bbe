package watch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler running one periodic job.
type Scheduler struct {
	scheduler gocron.Scheduler
	mu        sync.Mutex
	job       gocron.Job
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to create gocron scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// SchedulePeriodic runs task every interval, replacing any previously
// scheduled job. A tick that fires while the task is still running is
// rescheduled instead of overlapping.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, task func()) error {
	if interval <= 0 {
		return errors.ConfigError("watch interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job != nil {
		if err := s.scheduler.RemoveJob(s.job.ID()); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to remove periodic job").Build()
		}
		s.job = nil
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("kontentsource-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to create periodic job").Build()
	}
	s.job = job
	return nil
}

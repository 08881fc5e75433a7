package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
	"github.com/kcuzner/rstblog/internal/queue"
)

// Enqueuer publishes tasks. Implemented by the queue publisher.
type Enqueuer interface {
	Enqueue(task queue.Task) error
}

// Scheduler enqueues periodic rebuilds in addition to webhook triggers.
type Scheduler struct {
	scheduler gocron.Scheduler
	enqueuer  Enqueuer
}

// NewScheduler creates a scheduler that enqueues a rebuild every interval.
// A zero interval returns a nil scheduler and no error.
func NewScheduler(interval time.Duration, enqueuer Enqueuer) (*Scheduler, error) {
	if interval <= 0 {
		return nil, nil
	}
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.InternalError("create scheduler", err)
	}
	s := &Scheduler{scheduler: gs, enqueuer: enqueuer}
	if _, err := gs.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.enqueue),
		gocron.WithName("periodic-rebuild"),
	); err != nil {
		return nil, errors.InternalError("schedule periodic rebuild", err)
	}
	return s, nil
}

// Start begins the scheduler. Safe on a nil receiver.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}
	slog.Info("Starting rebuild scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler. Safe on a nil receiver.
func (s *Scheduler) Stop() error {
	if s == nil {
		return nil
	}
	slog.Info("Stopping rebuild scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) enqueue() {
	if err := s.enqueuer.Enqueue(queue.NewTask(queue.TaskUpdate, "schedule")); err != nil {
		slog.Error("Failed to enqueue scheduled rebuild", logfields.Error(err))
	}
}

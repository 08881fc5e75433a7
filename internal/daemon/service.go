// Package daemon ties the queue consumer to the build pipeline and schedules
// periodic rebuilds.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/kcuzner/rstblog/internal/build"
	"github.com/kcuzner/rstblog/internal/eventstore"
	"github.com/kcuzner/rstblog/internal/logfields"
	"github.com/kcuzner/rstblog/internal/metrics"
	"github.com/kcuzner/rstblog/internal/queue"
)

// Runner is the build pipeline the service drives.
type Runner interface {
	Clone(ctx context.Context) error
	Run(ctx context.Context) (*build.Report, error)
}

// Service executes queued tasks against the build runner, recording each
// build's metrics and history.
type Service struct {
	runner   Runner
	recorder *metrics.Recorder
	history  *eventstore.Store
}

// NewService wires the task executor. recorder and history may be nil.
func NewService(runner Runner, recorder *metrics.Recorder, history *eventstore.Store) *Service {
	return &Service{runner: runner, recorder: recorder, history: history}
}

// CloneRepository performs the idempotent initial clone.
func (s *Service) CloneRepository(ctx context.Context, task queue.Task) error {
	s.recorder.IncTaskReceived(string(task.Type))
	return s.runner.Clone(ctx)
}

// Update runs a full rebuild and records its outcome.
func (s *Service) Update(ctx context.Context, task queue.Task) error {
	s.recorder.IncTaskReceived(string(task.Type))

	if s.history != nil {
		if err := s.history.RecordStart(ctx, task.ID, task.Trigger); err != nil {
			slog.Warn("Failed to record build start", logfields.BuildID(task.ID), logfields.Error(err))
		}
	}

	report, err := s.runner.Run(ctx)
	if err != nil {
		s.recorder.IncBuildOutcome(metrics.OutcomeFailure)
		s.recordOutcome(ctx, task.ID, report, err)
		return err
	}

	s.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	s.recorder.ObserveBuildDuration(report.Duration)
	s.recorder.AddDocuments("page", report.Pages)
	s.recorder.AddDocuments("post", report.Posts)
	s.recordOutcome(ctx, task.ID, report, nil)
	return nil
}

func (s *Service) recordOutcome(ctx context.Context, buildID string, report *build.Report, buildErr error) {
	if s.history == nil {
		return
	}
	duration := time.Duration(0)
	if report != nil {
		duration = report.Duration
	}
	if err := s.history.RecordOutcome(ctx, buildID, duration, buildErr); err != nil {
		slog.Warn("Failed to record build outcome", logfields.BuildID(buildID), logfields.Error(err))
	}
}

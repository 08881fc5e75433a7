package daemon

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcuzner/rstblog/internal/build"
	"github.com/kcuzner/rstblog/internal/eventstore"
	"github.com/kcuzner/rstblog/internal/metrics"
	"github.com/kcuzner/rstblog/internal/queue"
)

type fakeRunner struct {
	cloned int
	runs   int
	report *build.Report
	err    error
}

func (f *fakeRunner) Clone(ctx context.Context) error { f.cloned++; return nil }

func (f *fakeRunner) Run(ctx context.Context) (*build.Report, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func TestServiceCloneRepository(t *testing.T) {
	runner := &fakeRunner{}
	svc := NewService(runner, metrics.NewRecorder(nil), nil)

	task := queue.NewTask(queue.TaskCloneRepository, "startup")
	require.NoError(t, svc.CloneRepository(context.Background(), task))
	assert.Equal(t, 1, runner.cloned)
}

func TestServiceUpdateRecordsHistory(t *testing.T) {
	store, err := eventstore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runner := &fakeRunner{report: &build.Report{Pages: 2, Posts: 5, Duration: 800 * time.Millisecond}}
	svc := NewService(runner, metrics.NewRecorder(nil), store)

	task := queue.NewTask(queue.TaskUpdate, "webhook")
	require.NoError(t, svc.Update(context.Background(), task))

	builds, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, task.ID, builds[0].ID)
	assert.Equal(t, eventstore.StatusSucceeded, builds[0].Status)
	assert.Equal(t, int64(800), builds[0].DurationMS)
}

func TestServiceUpdateRecordsFailure(t *testing.T) {
	store, err := eventstore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runner := &fakeRunner{err: fmt.Errorf("clone failed")}
	svc := NewService(runner, nil, store)

	task := queue.NewTask(queue.TaskUpdate, "schedule")
	require.Error(t, svc.Update(context.Background(), task))

	builds, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, eventstore.StatusFailed, builds[0].Status)
	assert.Equal(t, "clone failed", builds[0].Error)
}

type countingEnqueuer struct {
	count atomic.Int64
}

func (c *countingEnqueuer) Enqueue(task queue.Task) error {
	c.count.Add(1)
	return nil
}

func TestSchedulerDisabledOnZeroInterval(t *testing.T) {
	s, err := NewScheduler(0, &countingEnqueuer{})
	require.NoError(t, err)
	assert.Nil(t, s)

	// nil receiver is a no-op
	s.Start(context.Background())
	require.NoError(t, s.Stop())
}

func TestSchedulerEnqueuesPeriodically(t *testing.T) {
	enqueuer := &countingEnqueuer{}
	s, err := NewScheduler(10*time.Millisecond, enqueuer)
	require.NoError(t, err)
	require.NotNil(t, s)

	s.Start(context.Background())
	defer func() { require.NoError(t, s.Stop()) }()

	require.Eventually(t, func() bool {
		return enqueuer.count.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

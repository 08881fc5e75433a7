package eventstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndQueryBuilds(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.RecordStart(ctx, "b1", "webhook"))
	require.NoError(t, store.RecordOutcome(ctx, "b1", 1500*time.Millisecond, nil))

	require.NoError(t, store.RecordStart(ctx, "b2", "schedule"))
	require.NoError(t, store.RecordOutcome(ctx, "b2", 200*time.Millisecond, fmt.Errorf("clone failed")))

	builds, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, builds, 2)

	byID := map[string]Build{}
	for _, b := range builds {
		byID[b.ID] = b
	}
	assert.Equal(t, StatusSucceeded, byID["b1"].Status)
	assert.Equal(t, int64(1500), byID["b1"].DurationMS)
	assert.Empty(t, byID["b1"].Error)

	assert.Equal(t, StatusFailed, byID["b2"].Status)
	assert.Equal(t, "clone failed", byID["b2"].Error)
	assert.Equal(t, "schedule", byID["b2"].Trigger)
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordStart(ctx, fmt.Sprintf("b%d", i), "test"))
	}

	builds, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, builds, 3)
}

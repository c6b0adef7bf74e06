package prewarm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.PrewarmStats
}

func (p *fakePublisher) PublishSweepCompleted(ctx context.Context, stats *models.PrewarmStats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, stats)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func blockingSweep(release <-chan struct{}, stats *models.PrewarmStats) SweepFunc {
	return func(ctx context.Context) (*models.PrewarmStats, error) {
		<-release
		return stats, nil
	}
}

func TestTracker_GlobalSweepIsSingleFlight(t *testing.T) {
	tracker := NewTracker(nil)
	release := make(chan struct{})

	require.True(t, tracker.TriggerGlobal(context.Background(), blockingSweep(release, &models.PrewarmStats{})))
	assert.False(t, tracker.TriggerGlobal(context.Background(), blockingSweep(release, &models.PrewarmStats{})), "second trigger while running must be rejected")

	close(release)
	require.Eventually(t, func() bool {
		return !tracker.Snapshot().GlobalRunning
	}, time.Second, 10*time.Millisecond)

	assert.True(t, tracker.TriggerGlobal(context.Background(), func(ctx context.Context) (*models.PrewarmStats, error) {
		return &models.PrewarmStats{}, nil
	}), "trigger after completion must start a fresh sweep")
}

func TestTracker_UserSweepsAreIndependentSingleFlights(t *testing.T) {
	tracker := NewTracker(nil)
	u1, u2 := uuid.New(), uuid.New()
	release := make(chan struct{})
	defer close(release)

	require.True(t, tracker.TriggerUser(context.Background(), u1, blockingSweep(release, &models.PrewarmStats{})))
	assert.False(t, tracker.TriggerUser(context.Background(), u1, blockingSweep(release, &models.PrewarmStats{})))
	assert.True(t, tracker.TriggerUser(context.Background(), u2, blockingSweep(release, &models.PrewarmStats{})), "different users run concurrently")

	snap := tracker.Snapshot()
	assert.Len(t, snap.RunningUsers, 2)
}

func TestTracker_SnapshotRecordsLastResults(t *testing.T) {
	tracker := NewTracker(nil)
	userID := uuid.New()

	stats := &models.PrewarmStats{TargetUserID: &userID, Generated: 7, CompletedAt: time.Now()}
	require.True(t, tracker.TriggerUser(context.Background(), userID, func(ctx context.Context) (*models.PrewarmStats, error) {
		return stats, nil
	}))

	require.Eventually(t, func() bool {
		snap := tracker.Snapshot()
		got, ok := snap.LastByUser[userID]
		return ok && got.Generated == 7
	}, time.Second, 10*time.Millisecond)
}

func TestTracker_SnapshotPrunesOldUserResults(t *testing.T) {
	tracker := NewTracker(nil)

	newestID := uuid.UUID{}
	base := time.Now()
	for i := 0; i < maxUserResults+5; i++ {
		userID := uuid.New()
		if i == maxUserResults+4 {
			newestID = userID
		}
		stats := &models.PrewarmStats{TargetUserID: &userID, CompletedAt: base.Add(time.Duration(i) * time.Second)}
		require.True(t, tracker.TriggerUser(context.Background(), userID, func(ctx context.Context) (*models.PrewarmStats, error) {
			return stats, nil
		}))
		require.Eventually(t, func() bool {
			return len(tracker.Snapshot().RunningUsers) == 0
		}, time.Second, time.Millisecond, "sweep %d must finish before the next", i)
	}

	snap := tracker.Snapshot()
	assert.Len(t, snap.LastByUser, maxUserResults)
	_, ok := snap.LastByUser[newestID]
	assert.True(t, ok, "the most recent result must survive pruning")
}

func TestTracker_PublishesCompletedSweeps(t *testing.T) {
	publisher := &fakePublisher{}
	tracker := NewTracker(publisher)

	require.True(t, tracker.TriggerGlobal(context.Background(), func(ctx context.Context) (*models.PrewarmStats, error) {
		return &models.PrewarmStats{Generated: 3}, nil
	}))

	require.Eventually(t, func() bool { return publisher.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, publisher.published[0].Generated)
}

func TestTracker_FailedSweepIsNotPublished(t *testing.T) {
	publisher := &fakePublisher{}
	tracker := NewTracker(publisher)

	require.True(t, tracker.TriggerGlobal(context.Background(), func(ctx context.Context) (*models.PrewarmStats, error) {
		return nil, errors.New("sweep blew up")
	}))

	require.Eventually(t, func() bool {
		return !tracker.Snapshot().GlobalRunning
	}, time.Second, 10*time.Millisecond)
	assert.Zero(t, publisher.count())

	assert.True(t, tracker.TriggerGlobal(context.Background(), func(ctx context.Context) (*models.PrewarmStats, error) {
		return &models.PrewarmStats{}, nil
	}), "a failed sweep must release the single-flight slot")
}

package prewarm

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

// SweepFunc runs one sweep and reports its stats.
type SweepFunc func(ctx context.Context) (*models.PrewarmStats, error)

// EventPublisher defines what the tracker needs to announce completed sweeps
type EventPublisher interface {
	PublishSweepCompleted(ctx context.Context, stats *models.PrewarmStats) error
}

// maxUserResults bounds how many per-user results a snapshot reports.
const maxUserResults = 20

// Tracker is the process-wide record of running sweeps: at most one global
// sweep and one per user at a time, plus the outcome of the last completed
// sweep per scope. It exists to dedupe concurrent triggers and report
// progress; it resets on restart and the cache store stays authoritative.
type Tracker struct {
	publisher EventPublisher

	mu            sync.Mutex
	globalRunning bool
	userRunning   map[uuid.UUID]bool
	lastGlobal    *models.PrewarmStats
	lastByUser    map[uuid.UUID]*models.PrewarmStats
}

// NewTracker creates a run tracker. publisher may be nil to disable sweep
// events.
func NewTracker(publisher EventPublisher) *Tracker {
	return &Tracker{
		publisher:   publisher,
		userRunning: make(map[uuid.UUID]bool),
		lastByUser:  make(map[uuid.UUID]*models.PrewarmStats),
	}
}

// TriggerGlobal starts a global sweep in the background and reports whether
// it started. A trigger while one is running returns false instead of
// queuing a second sweep.
func (t *Tracker) TriggerGlobal(ctx context.Context, run SweepFunc) bool {
	t.mu.Lock()
	if t.globalRunning {
		t.mu.Unlock()
		return false
	}
	t.globalRunning = true
	t.mu.Unlock()

	go func() {
		stats, err := run(ctx)

		t.mu.Lock()
		t.globalRunning = false
		if stats != nil {
			t.lastGlobal = stats
		}
		t.mu.Unlock()

		t.finishSweep(ctx, stats, err)
	}()
	return true
}

// TriggerUser starts a sweep scoped to one user, with the same single-flight
// semantics per user id.
func (t *Tracker) TriggerUser(ctx context.Context, userID uuid.UUID, run SweepFunc) bool {
	t.mu.Lock()
	if t.userRunning[userID] {
		t.mu.Unlock()
		return false
	}
	t.userRunning[userID] = true
	t.mu.Unlock()

	go func() {
		stats, err := run(ctx)

		t.mu.Lock()
		delete(t.userRunning, userID)
		if stats != nil {
			t.lastByUser[userID] = stats
		}
		t.mu.Unlock()

		t.finishSweep(ctx, stats, err)
	}()
	return true
}

func (t *Tracker) finishSweep(ctx context.Context, stats *models.PrewarmStats, err error) {
	if err != nil {
		log.Error().Err(err).Msg("prewarm sweep failed")
		return
	}
	if t.publisher == nil || stats == nil {
		return
	}
	if pubErr := t.publisher.PublishSweepCompleted(ctx, stats); pubErr != nil {
		log.Error().Err(pubErr).Msg("failed to publish sweep completed event")
	}
}

// Snapshot is a point-in-time view of tracker state for the status endpoint.
type Snapshot struct {
	GlobalRunning bool                              `json:"global_running"`
	RunningUsers  []uuid.UUID                       `json:"running_users,omitempty"`
	LastGlobal    *models.PrewarmStats              `json:"last_global,omitempty"`
	LastByUser    map[uuid.UUID]models.PrewarmStats `json:"last_by_user,omitempty"`
}

// Snapshot returns the current run state. Per-user results are pruned to the
// most recent maxUserResults entries on read; older slots are dropped from
// the tracker for good.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked()

	snap := Snapshot{
		GlobalRunning: t.globalRunning,
		LastGlobal:    t.lastGlobal,
		LastByUser:    make(map[uuid.UUID]models.PrewarmStats, len(t.lastByUser)),
	}
	for id := range t.userRunning {
		snap.RunningUsers = append(snap.RunningUsers, id)
	}
	for id, stats := range t.lastByUser {
		snap.LastByUser[id] = *stats
	}
	return snap
}

// pruneLocked keeps only the maxUserResults most recent per-user outcomes.
func (t *Tracker) pruneLocked() {
	if len(t.lastByUser) <= maxUserResults {
		return
	}

	type entry struct {
		id    uuid.UUID
		stats *models.PrewarmStats
	}
	entries := make([]entry, 0, len(t.lastByUser))
	for id, stats := range t.lastByUser {
		entries = append(entries, entry{id: id, stats: stats})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].stats.CompletedAt.After(entries[j].stats.CompletedAt)
	})
	for _, e := range entries[maxUserResults:] {
		delete(t.lastByUser, e.id)
	}
}

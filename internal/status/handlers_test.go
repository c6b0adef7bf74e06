package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/prewarm"
)

type fakeSweeper struct {
	mu      sync.Mutex
	lastOpt prewarm.Options
	block   chan struct{}
}

func (s *fakeSweeper) Run(ctx context.Context, opts prewarm.Options) (*models.PrewarmStats, error) {
	s.mu.Lock()
	s.lastOpt = opts
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	return &models.PrewarmStats{TargetUserID: opts.TargetUserID, CompletedAt: time.Now()}, nil
}

func (s *fakeSweeper) options() prewarm.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOpt
}

type fakeCacheReader struct {
	counts map[uuid.UUID]int64
}

func (f *fakeCacheReader) CountReady(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.counts[userID], nil
}

func newTestServer(sweeper *fakeSweeper) (*httptest.Server, *prewarm.Tracker) {
	return newTestServerWithCache(sweeper, &fakeCacheReader{})
}

func newTestServerWithCache(sweeper *fakeSweeper, cache *fakeCacheReader) (*httptest.Server, *prewarm.Tracker) {
	tracker := prewarm.NewTracker(nil)
	handler := NewHandler(tracker, sweeper, cache, prewarm.Options{MaxPairs: 100, Concurrency: 4})
	mux := http.NewServeMux()
	handler.Register(mux)
	return httptest.NewServer(mux), tracker
}

func TestTriggerGlobal_StartsSweep(t *testing.T) {
	sweeper := &fakeSweeper{}
	srv, tracker := newTestServer(sweeper)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/prewarm", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body triggerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Started)

	require.Eventually(t, func() bool {
		return !tracker.Snapshot().GlobalRunning
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 100, sweeper.options().MaxPairs, "defaults apply when the body is empty")
}

func TestTriggerGlobal_ConflictWhileRunning(t *testing.T) {
	sweeper := &fakeSweeper{block: make(chan struct{})}
	srv, _ := newTestServer(sweeper)
	defer srv.Close()
	defer close(sweeper.block)

	first, err := http.Post(srv.URL+"/prewarm", "application/json", nil)
	require.NoError(t, err)
	first.Body.Close()
	require.Equal(t, http.StatusAccepted, first.StatusCode)

	second, err := http.Post(srv.URL+"/prewarm", "application/json", nil)
	require.NoError(t, err)
	defer second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)

	var body triggerResponse
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	assert.False(t, body.Started)
	assert.Equal(t, "sweep already running", body.Reason)
}

func TestTriggerGlobal_BodyOverridesDefaults(t *testing.T) {
	sweeper := &fakeSweeper{}
	srv, tracker := newTestServer(sweeper)
	defer srv.Close()

	payload := `{"max_pairs": 7, "time_budget_ms": 1500, "max_retries": 5}`
	resp, err := http.Post(srv.URL+"/prewarm", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		return !tracker.Snapshot().GlobalRunning
	}, time.Second, 10*time.Millisecond)

	opts := sweeper.options()
	assert.Equal(t, 7, opts.MaxPairs)
	assert.Equal(t, 1500*time.Millisecond, opts.TimeBudget)
	assert.Equal(t, 5, opts.MaxRetries)
	assert.Equal(t, 4, opts.Concurrency, "unset fields keep their defaults")
}

func TestTriggerGlobal_RejectsMalformedBody(t *testing.T) {
	srv, _ := newTestServer(&fakeSweeper{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/prewarm", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTriggerUser_ScopesToPathUser(t *testing.T) {
	sweeper := &fakeSweeper{}
	srv, _ := newTestServer(sweeper)
	defer srv.Close()

	userID := uuid.New()
	resp, err := http.Post(srv.URL+"/prewarm/user/"+userID.String(), "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		opts := sweeper.options()
		return opts.TargetUserID != nil && *opts.TargetUserID == userID
	}, time.Second, 10*time.Millisecond)
}

func TestTriggerUser_RejectsInvalidID(t *testing.T) {
	srv, _ := newTestServer(&fakeSweeper{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/prewarm/user/not-a-uuid", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserStatus_ReportsReadyCountAndLastSweep(t *testing.T) {
	sweeper := &fakeSweeper{}
	userID := uuid.New()
	cache := &fakeCacheReader{counts: map[uuid.UUID]int64{userID: 12}}
	srv, tracker := newTestServerWithCache(sweeper, cache)
	defer srv.Close()

	trigger, err := http.Post(srv.URL+"/prewarm/user/"+userID.String(), "application/json", nil)
	require.NoError(t, err)
	trigger.Body.Close()
	require.Eventually(t, func() bool {
		return len(tracker.Snapshot().RunningUsers) == 0
	}, time.Second, 10*time.Millisecond)

	resp, err := http.Get(srv.URL + "/prewarm/user/" + userID.String() + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body userStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, userID, body.UserID)
	assert.Equal(t, int64(12), body.ReadyResponses)
	assert.False(t, body.SweepRunning)
	require.NotNil(t, body.LastSweep)
	require.NotNil(t, body.LastSweep.TargetUserID)
	assert.Equal(t, userID, *body.LastSweep.TargetUserID)
}

func TestGetStatus_ReportsSnapshot(t *testing.T) {
	sweeper := &fakeSweeper{block: make(chan struct{})}
	srv, _ := newTestServer(sweeper)
	defer srv.Close()
	defer close(sweeper.block)

	first, err := http.Post(srv.URL+"/prewarm", "application/json", nil)
	require.NoError(t, err)
	first.Body.Close()

	resp, err := http.Get(srv.URL + "/prewarm/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap prewarm.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.True(t, snap.GlobalRunning)
}

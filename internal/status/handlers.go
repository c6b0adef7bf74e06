package status

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/prewarm"
)

// Sweeper defines what the handlers need to run sweeps
type Sweeper interface {
	Run(ctx context.Context, opts prewarm.Options) (*models.PrewarmStats, error)
}

// CacheReader defines what the handlers need from the response cache store
type CacheReader interface {
	CountReady(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Handler exposes the operational prewarm surface: trigger endpoints and the
// runtime snapshot. Sweeps run in the background; triggers return whether one
// started.
type Handler struct {
	tracker  *prewarm.Tracker
	sweeper  Sweeper
	cache    CacheReader
	defaults prewarm.Options
}

// NewHandler creates the prewarm status handler. defaults apply when a
// trigger request leaves options unset.
func NewHandler(tracker *prewarm.Tracker, sweeper Sweeper, cache CacheReader, defaults prewarm.Options) *Handler {
	return &Handler{
		tracker:  tracker,
		sweeper:  sweeper,
		cache:    cache,
		defaults: defaults,
	}
}

// Register mounts the prewarm endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /prewarm", h.triggerGlobal)
	mux.HandleFunc("POST /prewarm/user/{id}", h.triggerUser)
	mux.HandleFunc("GET /prewarm/status", h.getStatus)
	mux.HandleFunc("GET /prewarm/user/{id}/status", h.getUserStatus)
}

type triggerRequest struct {
	MaxPairs     int   `json:"max_pairs,omitempty"`
	TimeBudgetMs int64 `json:"time_budget_ms,omitempty"`
	Concurrency  int   `json:"concurrency,omitempty"`
	MaxRetries   int   `json:"max_retries,omitempty"`
}

type triggerResponse struct {
	Started bool   `json:"started"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) triggerGlobal(w http.ResponseWriter, r *http.Request) {
	opts, err := h.parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Detach from the request context: the sweep outlives the trigger call.
	started := h.tracker.TriggerGlobal(context.WithoutCancel(r.Context()), func(ctx context.Context) (*models.PrewarmStats, error) {
		return h.sweeper.Run(ctx, opts)
	})
	h.writeTriggerResponse(w, started)
}

func (h *Handler) triggerUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	opts, err := h.parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts.TargetUserID = &userID

	started := h.tracker.TriggerUser(context.WithoutCancel(r.Context()), userID, func(ctx context.Context) (*models.PrewarmStats, error) {
		return h.sweeper.Run(ctx, opts)
	})
	h.writeTriggerResponse(w, started)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Snapshot())
}

type userStatusResponse struct {
	UserID         uuid.UUID            `json:"user_id"`
	ReadyResponses int64                `json:"ready_responses"`
	SweepRunning   bool                 `json:"sweep_running"`
	LastSweep      *models.PrewarmStats `json:"last_sweep,omitempty"`
}

func (h *Handler) getUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	count, err := h.cache.CountReady(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count ready responses")
		http.Error(w, "failed to read cache state", http.StatusInternalServerError)
		return
	}

	snap := h.tracker.Snapshot()
	resp := userStatusResponse{
		UserID:         userID,
		ReadyResponses: count,
	}
	for _, id := range snap.RunningUsers {
		if id == userID {
			resp.SweepRunning = true
		}
	}
	if stats, ok := snap.LastByUser[userID]; ok {
		resp.LastSweep = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseOptions(r *http.Request) (prewarm.Options, error) {
	opts := h.defaults

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return opts, errors.New("failed to read request body")
	}
	if len(body) == 0 {
		return opts, nil
	}

	var req triggerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return opts, errors.New("invalid trigger request body")
	}
	if req.MaxPairs > 0 {
		opts.MaxPairs = req.MaxPairs
	}
	if req.TimeBudgetMs > 0 {
		opts.TimeBudget = time.Duration(req.TimeBudgetMs) * time.Millisecond
	}
	if req.Concurrency > 0 {
		opts.Concurrency = req.Concurrency
	}
	if req.MaxRetries > 0 {
		opts.MaxRetries = req.MaxRetries
	}
	return opts, nil
}

func (h *Handler) writeTriggerResponse(w http.ResponseWriter, started bool) {
	resp := triggerResponse{Started: started}
	code := http.StatusAccepted
	if !started {
		resp.Reason = "sweep already running"
		code = http.StatusConflict
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

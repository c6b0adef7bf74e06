package agentcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/agentturn"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/responsecache"
)

// ResponseStore defines what the gate needs from the response cache store
type ResponseStore interface {
	ReadReady(ctx context.Context, userID uuid.UUID, questionKey string) (*models.CacheEntry, error)
	SeedPending(ctx context.Context, userID uuid.UUID, questionKey string) error
	UpsertReady(ctx context.Context, userID uuid.UUID, questionKey, answerText, normalizedGuess string, audio json.RawMessage) (*models.CacheEntry, error)
	UpsertFailed(ctx context.Context, userID uuid.UUID, questionKey string, genErr error) error
}

// AgentClient defines what generation needs from the external agent service
type AgentClient interface {
	GenerateGuess(ctx context.Context, agentID string, turn models.TurnContext) (string, error)
	GenerateSpeech(ctx context.Context, accessToken, text, emotion string) (json.RawMessage, error)
}

const (
	// How long a caller waits for another in-flight generation of the same
	// pair before self-generating: 20 polls at 200ms, about 4 seconds.
	inflightPollInterval = 200 * time.Millisecond
	inflightPollAttempts = 20

	speechEmotion = "cheerful"
)

// Gate ensures at most one in-flight generation per (user, question) pair in
// this process. Concurrent callers wait for the in-flight result instead of
// duplicating the external call. The guard is process-local; cross-process
// races are accepted since the store upsert is idempotent per key.
type Gate struct {
	store  ResponseStore
	client AgentClient
	clock  clockwork.Clock

	inFlight   map[string]bool
	inFlightMu sync.Mutex
}

// NewGate creates a generation gate over the given store and agent client.
func NewGate(store ResponseStore, client AgentClient, clock clockwork.Clock) *Gate {
	return &Gate{
		store:    store,
		client:   client,
		clock:    clock,
		inFlight: make(map[string]bool),
	}
}

// GetOrCreate returns the READY cache entry for (user, question), generating
// and persisting it when absent. Generation failures are persisted as FAILED
// and returned to the caller.
func (g *Gate) GetOrCreate(ctx context.Context, user *models.User, question models.Question) (*models.CacheEntry, error) {
	questionKey := question.Key()

	entry, err := g.store.ReadReady(ctx, user.ID, questionKey)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}

	pairKey := responsecache.PairKey(user.ID, questionKey)
	if !g.tryAcquire(pairKey) {
		// Another caller is generating this pair; wait for its result.
		entry, err := g.awaitInflight(ctx, user.ID, questionKey)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
		// Wait window exceeded. Self-generate; duplicate work is an accepted
		// tradeoff since generation is idempotent per key.
		log.Warn().
			Str("user_id", user.ID.String()).
			Str("question_key", questionKey).
			Msg("in-flight wait window exceeded, generating anyway")
		return g.generate(ctx, user, question, questionKey)
	}
	defer g.release(pairKey)

	return g.generate(ctx, user, question, questionKey)
}

// tryAcquire marks the pair in flight, returning false if it already is.
func (g *Gate) tryAcquire(pairKey string) bool {
	g.inFlightMu.Lock()
	defer g.inFlightMu.Unlock()
	if g.inFlight[pairKey] {
		return false
	}
	g.inFlight[pairKey] = true
	return true
}

func (g *Gate) release(pairKey string) {
	g.inFlightMu.Lock()
	defer g.inFlightMu.Unlock()
	delete(g.inFlight, pairKey)
}

// awaitInflight polls the store while another caller generates the pair.
// Returns nil without error when the wait window closes before a READY row
// appears.
func (g *Gate) awaitInflight(ctx context.Context, userID uuid.UUID, questionKey string) (*models.CacheEntry, error) {
	for i := 0; i < inflightPollAttempts; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-g.clock.After(inflightPollInterval):
		}

		entry, err := g.store.ReadReady(ctx, userID, questionKey)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
	}
	return nil, nil
}

// generate performs the full pipeline: chat call, guess extraction, speech
// synthesis, READY persist. Any failure is recorded as FAILED and re-raised.
func (g *Gate) generate(ctx context.Context, user *models.User, question models.Question, questionKey string) (*models.CacheEntry, error) {
	// Mark the pair PENDING so the row is observable while generation runs.
	// A conflict with an existing row is fine; the upserts below overwrite it.
	if err := g.store.SeedPending(ctx, user.ID, questionKey); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", user.ID.String()).
			Str("question_key", questionKey).
			Msg("failed to seed pending cache entry")
	}

	entry, err := g.doGenerate(ctx, user, question, questionKey)
	if err != nil {
		if persistErr := g.store.UpsertFailed(ctx, user.ID, questionKey, err); persistErr != nil {
			log.Error().
				Err(persistErr).
				Str("user_id", user.ID.String()).
				Str("question_key", questionKey).
				Msg("failed to persist FAILED cache entry")
		}
		return nil, err
	}
	return entry, nil
}

func (g *Gate) doGenerate(ctx context.Context, user *models.User, question models.Question, questionKey string) (*models.CacheEntry, error) {
	if !user.HasAgentCredentials() {
		// Non-retryable: no token, no speech synthesis.
		return nil, fmt.Errorf("user %s has no agent credentials", user.ID)
	}

	turn := models.TurnContext{Hint: question.Hint}
	reply, err := g.client.GenerateGuess(ctx, user.ID.String(), turn)
	if err != nil {
		return nil, fmt.Errorf("generate guess: %w", err)
	}
	if reply == "" {
		return nil, fmt.Errorf("agent returned empty reply for question %s", questionKey)
	}

	normalizedGuess := agentturn.NormalizeGuess(ExtractGuess(reply))

	audio, err := g.client.GenerateSpeech(ctx, user.AgentAccessToken, reply, speechEmotion)
	if err != nil {
		return nil, fmt.Errorf("generate speech: %w", err)
	}

	entry, err := g.store.UpsertReady(ctx, user.ID, questionKey, reply, normalizedGuess, audio)
	if err != nil {
		return nil, fmt.Errorf("persist ready entry: %w", err)
	}

	log.Debug().
		Str("user_id", user.ID.String()).
		Str("question_key", questionKey).
		Str("guess", normalizedGuess).
		Msg("generated agent response")
	return entry, nil
}

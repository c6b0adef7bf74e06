package prewarm

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/questions"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/responsecache"
)

// UsersRepository defines what the sweeper needs from the users repository
type UsersRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListWithAgentCredentials(ctx context.Context) ([]*models.User, error)
}

// ResponseStore defines what the sweeper needs from the response cache store
type ResponseStore interface {
	ReadReady(ctx context.Context, userID uuid.UUID, questionKey string) (*models.CacheEntry, error)
	ListReadyPairs(ctx context.Context, userIDs []uuid.UUID) (map[string]struct{}, error)
}

// Generator is the per-pair generation capability (the gate).
type Generator interface {
	GetOrCreate(ctx context.Context, user *models.User, question models.Question) (*models.CacheEntry, error)
}

// Options configure one sweep.
type Options struct {
	// TargetUserID restricts the sweep to one user instead of all eligible
	// users.
	TargetUserID *uuid.UUID
	// MaxPairs caps how many pair generations one sweep attempts. Zero means
	// no cap.
	MaxPairs int
	// TimeBudget is advisory: once exceeded no new pairs are handed out, but
	// in-flight generations finish. Zero means no budget.
	TimeBudget time.Duration
	// Concurrency is the fixed worker pool size.
	Concurrency int
	// MaxRetries is the total number of attempts per pair (linear backoff of
	// 250ms per attempt between them).
	MaxRetries int
}

const (
	DefaultConcurrency = 4
	DefaultMaxRetries  = 3

	retryBackoffStep = 250 * time.Millisecond

	// Share of the eligible-user list treated as "newest" and prewarmed
	// preferentially.
	newestShare = 0.4
)

type pair struct {
	user     *models.User
	question models.Question
}

// Sweeper fills the response cache for every (eligible user, question) pair
// that is not READY yet, out of the live path.
type Sweeper struct {
	users UsersRepository
	store ResponseStore
	gate  Generator
	bank  *questions.Bank
	clock clockwork.Clock
}

// NewSweeper creates a batch prewarm sweeper.
func NewSweeper(users UsersRepository, store ResponseStore, gate Generator, bank *questions.Bank, clock clockwork.Clock) *Sweeper {
	return &Sweeper{
		users: users,
		store: store,
		gate:  gate,
		bank:  bank,
		clock: clock,
	}
}

// Run executes one sweep and returns its aggregate stats. Per-pair failures
// are counted, never fatal; only resolving the candidate set can fail the
// sweep as a whole.
func (s *Sweeper) Run(ctx context.Context, opts Options) (*models.PrewarmStats, error) {
	start := s.clock.Now()

	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	eligible, err := s.resolveUsers(ctx, opts.TargetUserID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.buildCandidates(ctx, eligible, opts.MaxPairs)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("users", len(eligible)).
		Int("bank_size", s.bank.Len()).
		Int("candidate_pairs", len(candidates)).
		Int("concurrency", opts.Concurrency).
		Msg("prewarm sweep started")

	stats := &models.PrewarmStats{
		TargetUserID: opts.TargetUserID,
		ScannedPairs: len(candidates),
	}

	var statsMu sync.Mutex
	workCh := make(chan pair)

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for p := range workCh {
				generated, hit, procErr := s.processPair(ctx, p, opts.MaxRetries)

				statsMu.Lock()
				switch {
				case procErr != nil:
					stats.Failed++
				case hit:
					stats.CacheHits++
				case generated:
					stats.Generated++
				}
				statsMu.Unlock()

				if procErr != nil {
					log.Warn().
						Err(procErr).
						Int("worker_id", workerID).
						Str("user_id", p.user.ID.String()).
						Str("question_key", p.question.Key()).
						Msg("pair generation failed")
				}
			}
		}(i)
	}

	// Hand out pairs until the list drains or the time budget is exceeded.
	// The budget is advisory: in-flight generations run to completion.
feed:
	for _, p := range candidates {
		if opts.TimeBudget > 0 && s.clock.Since(start) > opts.TimeBudget {
			log.Info().
				Dur("time_budget", opts.TimeBudget).
				Msg("prewarm time budget exceeded, not claiming more pairs")
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case workCh <- p:
		}
	}
	close(workCh)
	wg.Wait()

	stats.Elapsed = s.clock.Since(start)
	stats.CompletedAt = s.clock.Now()

	log.Info().
		Int("scanned", stats.ScannedPairs).
		Int("generated", stats.Generated).
		Int("cache_hits", stats.CacheHits).
		Int("failed", stats.Failed).
		Dur("elapsed", stats.Elapsed).
		Msg("prewarm sweep completed")

	return stats, nil
}

// resolveUsers returns the eligible user set in sweep priority order.
func (s *Sweeper) resolveUsers(ctx context.Context, targetUserID *uuid.UUID) ([]*models.User, error) {
	if targetUserID != nil {
		user, err := s.users.GetUser(ctx, *targetUserID)
		if err != nil {
			return nil, fmt.Errorf("resolve target user: %w", err)
		}
		return []*models.User{user}, nil
	}

	users, err := s.users.ListWithAgentCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible users: %w", err)
	}
	return prioritizeUsers(users), nil
}

// prioritizeUsers splits the newest 40% from the rest (the repository lists
// newest first), shuffles each partition independently and concatenates
// newest-first: new users get their caches filled preferentially while
// randomized rotation gives older users eventual coverage.
func prioritizeUsers(users []*models.User) []*models.User {
	cut := int(float64(len(users))*newestShare + 0.5)
	newest := append([]*models.User(nil), users[:cut]...)
	rest := append([]*models.User(nil), users[cut:]...)

	rand.Shuffle(len(newest), func(i, j int) { newest[i], newest[j] = newest[j], newest[i] })
	rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	return append(newest, rest...)
}

// buildCandidates computes the (user, question) pairs lacking a READY entry,
// using one batched existence query rather than a read per pair.
func (s *Sweeper) buildCandidates(ctx context.Context, users []*models.User, maxPairs int) ([]pair, error) {
	userIDs := make([]uuid.UUID, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	ready, err := s.store.ListReadyPairs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list ready pairs: %w", err)
	}

	var candidates []pair
	bank := s.bank.Shuffled()
	for _, user := range users {
		for _, q := range bank {
			if _, ok := ready[responsecache.PairKey(user.ID, q.Key())]; ok {
				continue
			}
			candidates = append(candidates, pair{user: user, question: q})
			if maxPairs > 0 && len(candidates) >= maxPairs {
				return candidates, nil
			}
		}
	}
	return candidates, nil
}

// processPair generates one pair with per-pair retry. Returns whether a new
// entry was generated, whether the pair turned out READY already, or the
// final error after retries.
func (s *Sweeper) processPair(ctx context.Context, p pair, maxRetries int) (generated, hit bool, err error) {
	// The pair may have become READY between candidate selection and now.
	entry, err := s.store.ReadReady(ctx, p.user.ID, p.question.Key())
	if err == nil && entry != nil {
		return false, true, nil
	}

	for attempt := 1; ; attempt++ {
		if _, err = s.gate.GetOrCreate(ctx, p.user, p.question); err == nil {
			return true, false, nil
		}
		if ctx.Err() != nil || attempt >= maxRetries {
			return false, false, err
		}
		select {
		case <-ctx.Done():
			return false, false, ctx.Err()
		case <-s.clock.After(retryBackoffStep * time.Duration(attempt)):
		}
	}
}

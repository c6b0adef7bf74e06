package responsecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/responsecache/db"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetAgentResponse(ctx context.Context, arg db.GetAgentResponseParams) (db.AgentResponse, error)
	InsertPendingAgentResponse(ctx context.Context, arg db.InsertPendingAgentResponseParams) error
	UpsertAgentResponseReady(ctx context.Context, arg db.UpsertAgentResponseReadyParams) (db.AgentResponse, error)
	UpsertAgentResponseFailed(ctx context.Context, arg db.UpsertAgentResponseFailedParams) (db.AgentResponse, error)
	ListReadyQuestionKeys(ctx context.Context, userIds []uuid.UUID) ([]db.ListReadyQuestionKeysRow, error)
	CountReadyForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

const uniqueViolation = "23505"

// Repository implements cached-agent-response data access over Postgres.
// Rows are keyed by (user_id, question_key) and overwritten in place; this
// subsystem never deletes them.
type Repository struct {
	queries Querier
}

// NewRepository creates a new response cache repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// PairKey is the process-wide identity of one (user, question) generation.
func PairKey(userID uuid.UUID, questionKey string) string {
	return userID.String() + questionKey
}

// ReadReady returns the cache entry only when it is READY with a non-empty
// answer. Missing, PENDING and FAILED rows all read as nil: not usable yet.
func (r *Repository) ReadReady(ctx context.Context, userID uuid.UUID, questionKey string) (*models.CacheEntry, error) {
	row, err := r.queries.GetAgentResponse(ctx, db.GetAgentResponseParams{
		UserID:      userID,
		QuestionKey: questionKey,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent response: %w", err)
	}

	entry := r.dbResponseToModel(row)
	if !entry.Usable() {
		return nil, nil
	}
	return entry, nil
}

// SeedPending lazily creates the PENDING row for a pair. A duplicate-key
// conflict means another writer already created it, which is benign in
// bulk-seeding paths and reported as ok.
func (r *Repository) SeedPending(ctx context.Context, userID uuid.UUID, questionKey string) error {
	err := r.queries.InsertPendingAgentResponse(ctx, db.InsertPendingAgentResponseParams{
		UserID:      userID,
		QuestionKey: questionKey,
	})
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed pending agent response: %w", err)
	}
	return nil
}

// UpsertReady records a successful generation: READY status, answer, derived
// guess and audio reference, clearing any previous error.
func (r *Repository) UpsertReady(ctx context.Context, userID uuid.UUID, questionKey, answerText, normalizedGuess string, audio json.RawMessage) (*models.CacheEntry, error) {
	var audioRef pqtype.NullRawMessage
	if len(audio) > 0 {
		audioRef = pqtype.NullRawMessage{RawMessage: audio, Valid: true}
	}

	row, err := r.queries.UpsertAgentResponseReady(ctx, db.UpsertAgentResponseReadyParams{
		UserID:          userID,
		QuestionKey:     questionKey,
		AnswerText:      answerText,
		NormalizedGuess: normalizedGuess,
		Audio:           audioRef,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert ready agent response: %w", err)
	}

	return r.dbResponseToModel(row), nil
}

// UpsertFailed records a failed generation attempt. The previous answer text
// survives in the row, but FAILED status keeps reads treating the entry as
// unusable until it is regenerated.
func (r *Repository) UpsertFailed(ctx context.Context, userID uuid.UUID, questionKey string, genErr error) error {
	var lastError sql.NullString
	if genErr != nil {
		msg := genErr.Error()
		lastError = sqlutil.ToSqlString(&msg)
	}

	_, err := r.queries.UpsertAgentResponseFailed(ctx, db.UpsertAgentResponseFailedParams{
		UserID:      userID,
		QuestionKey: questionKey,
		LastError:   lastError,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert failed agent response: %w", err)
	}
	return nil
}

// ListReadyPairs returns the set of pair keys that are already READY for the
// given users, as one batched query for sweep exclusion.
func (r *Repository) ListReadyPairs(ctx context.Context, userIDs []uuid.UUID) (map[string]struct{}, error) {
	if len(userIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	rows, err := r.queries.ListReadyQuestionKeys(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list ready question keys: %w", err)
	}

	ready := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		ready[PairKey(row.UserID, row.QuestionKey)] = struct{}{}
	}
	return ready, nil
}

// CountReady returns how many READY entries a user has.
func (r *Repository) CountReady(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := r.queries.CountReadyForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count ready agent responses: %w", err)
	}
	return count, nil
}

// dbResponseToModel converts a database row to the domain model
func (r *Repository) dbResponseToModel(row db.AgentResponse) *models.CacheEntry {
	entry := &models.CacheEntry{
		UserID:          row.UserID,
		QuestionKey:     row.QuestionKey,
		Status:          models.CacheStatus(row.Status),
		AnswerText:      row.AnswerText,
		NormalizedGuess: row.NormalizedGuess,
		GeneratedAt:     row.GeneratedAt,
	}
	if row.Audio.Valid {
		entry.Audio = row.Audio.RawMessage
	}
	entry.LastError = sqlutil.FromSqlString(row.LastError, "")
	return entry
}

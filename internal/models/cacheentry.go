package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CacheStatus defines the lifecycle state of a cached agent response.
type CacheStatus string

const (
	CacheStatusPending CacheStatus = "PENDING"
	CacheStatusReady   CacheStatus = "READY"
	CacheStatusFailed  CacheStatus = "FAILED"
)

// CacheEntry is one cached agent response, identified by (UserID,
// QuestionKey). At most one row exists per pair; a FAILED entry may be
// regenerated in place and become READY later.
type CacheEntry struct {
	UserID          uuid.UUID       `json:"user_id"`
	QuestionKey     string          `json:"question_key"`
	Status          CacheStatus     `json:"status"`
	AnswerText      string          `json:"answer_text"`
	NormalizedGuess string          `json:"normalized_guess"`
	Audio           json.RawMessage `json:"audio,omitempty"`
	LastError       string          `json:"last_error,omitempty"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Usable reports whether the entry can serve a live read: READY with a
// non-empty answer. PENDING, FAILED and empty answers all read as a miss.
func (e *CacheEntry) Usable() bool {
	return e != nil && e.Status == CacheStatusReady && e.AnswerText != ""
}

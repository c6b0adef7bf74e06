package models

import (
	"time"

	"github.com/google/uuid"
)

// PrewarmStats aggregates one sweep. It lives only in the run tracker's
// last-result slots; the cache store stays the source of truth.
type PrewarmStats struct {
	TargetUserID *uuid.UUID    `json:"target_user_id,omitempty"`
	ScannedPairs int           `json:"scanned_pairs"`
	Generated    int           `json:"generated"`
	CacheHits    int           `json:"cache_hits"`
	Failed       int           `json:"failed"`
	Elapsed      time.Duration `json:"elapsed"`
	CompletedAt  time.Time     `json:"completed_at"`
}

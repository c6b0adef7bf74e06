package models

// TurnContext carries everything an agent needs to produce one guess. It is
// ephemeral and never persisted.
type TurnContext struct {
	Round        int      `json:"round"`
	Hint         string   `json:"hint"`
	PriorGuesses []string `json:"prior_guesses,omitempty"`
}

// Clone returns a copy with its own prior-guesses slice so concurrent turns
// cannot contaminate each other.
func (c TurnContext) Clone() TurnContext {
	out := c
	out.PriorGuesses = append([]string(nil), c.PriorGuesses...)
	return out
}

// TurnResult is the outcome of one agent turn. Guess is always non-empty,
// lowercase and trimmed; UsedFallback marks that the real agent call timed
// out or failed irrecoverably.
type TurnResult struct {
	AgentID      string `json:"agent_id"`
	Guess        string `json:"guess"`
	Attempts     int    `json:"attempts"`
	UsedFallback bool   `json:"used_fallback"`
}

package agentturn

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

// AgentTurnClient defines what a turn needs from the external conversational
// service.
type AgentTurnClient interface {
	GenerateGuess(ctx context.Context, agentID string, turn models.TurnContext) (string, error)
}

// Options configure a single turn execution.
type Options struct {
	// Timeout bounds each individual GenerateGuess call. A timeout is
	// terminal: no further retries after one.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first when
	// the call errors (so MaxRetries=2 means up to 3 invocations).
	MaxRetries int
	// FallbackGuess overrides the hint-derived placeholder guess.
	FallbackGuess string
}

const (
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 2
)

// Runner executes agent turns under timeout and retry policy.
type Runner struct {
	clock clockwork.Clock
}

// NewRunner creates a turn runner. In production pass
// clockwork.NewRealClock().
func NewRunner(clock clockwork.Clock) *Runner {
	return &Runner{clock: clock}
}

// RunTurn obtains one guess from the agent. It always returns a playable
// result: a stalled or failing backend degrades to the fallback guess, never
// to an error. Timeouts are terminal; other call errors are retried until
// attempts exceed opts.MaxRetries.
func (r *Runner) RunTurn(ctx context.Context, agentID string, turn models.TurnContext, client AgentTurnClient, opts Options) models.TurnResult {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fallback := opts.FallbackGuess
	if fallback == "" {
		fallback = FallbackFromHint(turn.Hint)
	}

	for attempts := 1; ; attempts++ {
		guess, timedOut, err := WithTimeout(ctx, r.clock, timeout, "", func(ctx context.Context) (string, error) {
			return client.GenerateGuess(ctx, agentID, turn)
		})
		if timedOut {
			log.Warn().
				Str("agent_id", agentID).
				Int("round", turn.Round).
				Int("attempts", attempts).
				Dur("timeout", timeout).
				Msg("agent guess timed out, using fallback")
			return models.TurnResult{AgentID: agentID, Guess: fallback, Attempts: attempts, UsedFallback: true}
		}
		if err != nil {
			if ctx.Err() == nil && attempts <= opts.MaxRetries {
				log.Warn().
					Err(err).
					Str("agent_id", agentID).
					Int("attempt", attempts).
					Msg("agent guess failed, retrying")
				continue
			}
			log.Error().
				Err(err).
				Str("agent_id", agentID).
				Int("attempts", attempts).
				Msg("agent guess failed after retries, using fallback")
			return models.TurnResult{AgentID: agentID, Guess: fallback, Attempts: attempts, UsedFallback: true}
		}

		guess = NormalizeGuess(guess)
		if guess == "" {
			return models.TurnResult{AgentID: agentID, Guess: fallback, Attempts: attempts, UsedFallback: true}
		}
		return models.TurnResult{AgentID: agentID, Guess: guess, Attempts: attempts}
	}
}

// NormalizeGuess lowercases and trims a raw guess.
func NormalizeGuess(guess string) string {
	return strings.ToLower(strings.TrimSpace(guess))
}

// FallbackFromHint derives the deterministic placeholder guess from the
// hint's first letter ("a____" yields "agent"). Hints without a leading
// letter yield "agent".
func FallbackFromHint(hint string) string {
	hint = strings.TrimSpace(strings.ToLower(hint))
	if hint != "" {
		if r := []rune(hint)[0]; unicode.IsLetter(r) {
			return string(r) + "gent"
		}
	}
	return "agent"
}

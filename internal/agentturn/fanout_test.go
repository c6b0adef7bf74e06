package agentturn

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

func TestRunTurns_ResultsMatchInputOrder(t *testing.T) {
	runner := NewRunner(clockwork.NewRealClock())

	results := runner.RunTurns(context.Background(), []string{"a1", "a2", "a3"}, models.TurnContext{Hint: "a____"}, clientFunc(func(ctx context.Context, agentID string, turn models.TurnContext) (string, error) {
		return "guess-" + agentID, nil
	}), Options{Timeout: time.Second})

	require.Len(t, results, 3)
	assert.Equal(t, "a1", results[0].AgentID)
	assert.Equal(t, "guess-a1", results[0].Guess)
	assert.Equal(t, "a2", results[1].AgentID)
	assert.Equal(t, "a3", results[2].AgentID)
}

func TestRunTurns_PriorGuessesAreIsolated(t *testing.T) {
	runner := NewRunner(clockwork.NewRealClock())

	var mu sync.Mutex
	seen := make(map[string][]string)

	turn := models.TurnContext{Hint: "a____", PriorGuesses: []string{"orange"}}
	runner.RunTurns(context.Background(), []string{"a1", "a2"}, turn, clientFunc(func(ctx context.Context, agentID string, turn models.TurnContext) (string, error) {
		// Mutating this slice must not leak into other agents' turns.
		turn.PriorGuesses = append(turn.PriorGuesses, "mine-"+agentID)
		mu.Lock()
		seen[agentID] = turn.PriorGuesses
		mu.Unlock()
		return "apple", nil
	}), Options{Timeout: time.Second})

	assert.Equal(t, []string{"orange", "mine-a1"}, seen["a1"])
	assert.Equal(t, []string{"orange", "mine-a2"}, seen["a2"])
	assert.Equal(t, []string{"orange"}, turn.PriorGuesses)
}

func TestRunTurns_RunsInParallel(t *testing.T) {
	runner := NewRunner(clockwork.NewRealClock())
	start := time.Now()

	results := runner.RunTurns(context.Background(), []string{"a1", "a2", "a3", "a4"}, models.TurnContext{Hint: "a____"}, clientFunc(func(ctx context.Context, agentID string, turn models.TurnContext) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "apple", nil
	}), Options{Timeout: time.Second})

	require.Len(t, results, 4)
	// Serial execution would take 400ms+; parallel stays near one call.
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

package agentturn

import (
	"context"
	"sync"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

// RunTurns executes one turn per agent concurrently, all sharing the same
// round context. Each turn gets its own copy of the prior-guesses slice so
// agents cannot contaminate each other. Results come back in input order and
// total wall time is bounded by the slowest individual turn's own timeout.
func (r *Runner) RunTurns(ctx context.Context, agentIDs []string, turn models.TurnContext, client AgentTurnClient, opts Options) []models.TurnResult {
	results := make([]models.TurnResult, len(agentIDs))

	var wg sync.WaitGroup
	for i, agentID := range agentIDs {
		wg.Add(1)
		go func(i int, agentID string) {
			defer wg.Done()
			results[i] = r.RunTurn(ctx, agentID, turn.Clone(), client, opts)
		}(i, agentID)
	}
	wg.Wait()

	return results
}

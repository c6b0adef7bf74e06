package agent_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

type chatRequest struct {
	AgentID      string   `json:"agent_id"`
	Round        int      `json:"round"`
	Hint         string   `json:"hint"`
	PriorGuesses []string `json:"prior_guesses,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// GenerateGuess asks the conversational service for the agent's reply to one
// round. The raw reply comes back as-is; callers extract and normalize the
// guess word themselves.
func (c *AgentApiClient) GenerateGuess(ctx context.Context, agentID string, turn models.TurnContext) (string, error) {
	payload, err := json.Marshal(chatRequest{
		AgentID:      agentID,
		Round:        turn.Round,
		Hint:         turn.Hint,
		PriorGuesses: turn.PriorGuesses,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	body, err := c.Post(ctx, ChatEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat response: %w, raw response: %s", err, string(body))
	}
	if response.Error != "" {
		return "", fmt.Errorf("chat API returned error: %s", response.Error)
	}

	return response.Reply, nil
}

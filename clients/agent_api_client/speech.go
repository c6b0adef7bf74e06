package agent_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

type speechRequest struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion"`
}

// GenerateSpeech synthesizes audio for text on behalf of a user. The access
// token is the user's own credential, passed per call rather than held on the
// client. The returned reference (voice, url, duration) is stored opaquely.
func (c *AgentApiClient) GenerateSpeech(ctx context.Context, accessToken, text, emotion string) (json.RawMessage, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("missing agent access token")
	}
	if emotion == "" {
		emotion = EmotionNeutral
	}

	payload, err := json.Marshal(speechRequest{Text: text, Emotion: emotion})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	body, err := c.MakeRequest(ctx, "POST", SpeechEndpoint, bytes.NewReader(payload), map[string]string{
		AuthorizationHeader: "Bearer " + accessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("speech API returned invalid JSON: %s", string(body))
	}
	return json.RawMessage(body), nil
}

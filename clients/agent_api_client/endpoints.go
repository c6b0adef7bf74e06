package agent_api_client

const (
	// API Endpoints
	ChatEndpoint   = "/v1/chat"
	SpeechEndpoint = "/v1/speech"

	// Headers
	APIKeyHeader        = "X-Api-Key"
	AuthorizationHeader = "Authorization"

	// Speech emotions accepted by the TTS endpoint
	EmotionNeutral  = "neutral"
	EmotionCheerful = "cheerful"
)

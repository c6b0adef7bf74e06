package agent_api_client

import (
	"github.com/lkttle/agentGameGuessWord-sub000/clients"
)

type AgentApiClient struct {
	*clients.BaseClient
}

func NewAgentApiClient(baseURL, apiKey string) *AgentApiClient {
	client := &AgentApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(APIKeyHeader, apiKey)
	client.SetHeader("Content-Type", "application/json")

	return client
}

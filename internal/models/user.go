package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a player account. AgentAccessToken is the credential used
// for speech synthesis calls on the user's behalf; users without one are not
// eligible for prewarming.
type User struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	AgentAccessToken string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasAgentCredentials reports whether the user can be served by the agent
// speech API.
func (u *User) HasAgentCredentials() bool {
	return u.AgentAccessToken != ""
}

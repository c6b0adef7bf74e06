package agentcache

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

// UsersRepository defines what the app needs from the users repository
type UsersRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// App is the read path used outside the sweep: resolve the user, then serve
// the cached response, generating it only when the cache cannot.
type App struct {
	users UsersRepository
	gate  *Gate
}

// NewApp creates a new agent cache App
func NewApp(users UsersRepository, gate *Gate) *App {
	return &App{
		users: users,
		gate:  gate,
	}
}

// GetOrCreateByUser returns the cached agent response for (userID, question),
// generating it when absent. A READY row short-circuits without any external
// call.
func (a *App) GetOrCreateByUser(ctx context.Context, userID uuid.UUID, question models.Question) (*models.CacheEntry, error) {
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return a.gate.GetOrCreate(ctx, user, question)
}

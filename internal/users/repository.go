package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/sqlutil"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/users/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
	ListUsersWithAgentCredentials(ctx context.Context) ([]db.User, error)
}

// Repository implements user data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new users repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.dbUserToModel(user), nil
}

// ListWithAgentCredentials returns every user holding a usable agent access
// token, newest first. These are the users eligible for prewarming.
func (r *Repository) ListWithAgentCredentials(ctx context.Context) ([]*models.User, error) {
	rows, err := r.queries.ListUsersWithAgentCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with agent credentials: %w", err)
	}

	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, r.dbUserToModel(row))
	}
	return users, nil
}

// dbUserToModel converts a database user to domain model
func (r *Repository) dbUserToModel(dbUser db.User) *models.User {
	return &models.User{
		ID:               dbUser.ID,
		Username:         dbUser.Username,
		AgentAccessToken: sqlutil.FromSqlString(dbUser.AgentAccessToken, ""),
		CreatedAt:        dbUser.CreatedAt,
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/dbconfig"
)

// User uses a string for CreatedAt to match the JSON layout
type User struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	AgentAccessToken *string   `json:"agent_access_token"`
	CreatedAt        string    `json:"created_at"`
}

func main() {
	ctx := context.Background()

	// 1) Load users.json
	data, err := os.ReadFile("internal/assets/users.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read users.json: %v\n", err)
		os.Exit(1)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal users: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Seed users
	total, inserted, skipped, errs := len(users), 0, 0, 0
	for _, u := range users {
		tag, err := pool.Exec(ctx, `
            INSERT INTO users (
              id, username, agent_access_token, created_at
            ) VALUES ($1,$2,$3,$4)
            ON CONFLICT (username) DO NOTHING
        `, u.ID, u.Username, u.AgentAccessToken, u.CreatedAt)
		if err != nil {
			errs++
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	fmt.Printf(
		"Users seed: total=%d inserted=%d skipped=%d errors=%d\n",
		total, inserted, skipped, errs,
	)
}

package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/lkttle/agentGameGuessWord-sub000/clients/agent_api_client"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/agentcache"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/prewarm"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/questions"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/responsecache"
	responsecachedb "github.com/lkttle/agentGameGuessWord-sub000/internal/responsecache/db"
	"github.com/lkttle/agentGameGuessWord-sub000/internal/users"
	usersdb "github.com/lkttle/agentGameGuessWord-sub000/internal/users/db"
)

type Services struct {
	Users     *users.Repository
	Cache     *responsecache.Repository
	CacheApp  *agentcache.App
	Sweeper   *prewarm.Sweeper
	Tracker   *prewarm.Tracker
	Publisher *prewarm.JetStreamPublisher
}

func setupServices(database *sql.DB, config *Config) (*Services, error) {
	// Database layer → Repository layer → Gate/Sweeper layer
	clock := clockwork.NewRealClock()

	userQueries := usersdb.New(database)
	userRepo := users.NewRepository(userQueries)

	cacheQueries := responsecachedb.New(database)
	cacheRepo := responsecache.NewRepository(cacheQueries)

	bank, err := questions.LoadBank(config.QuestionBankPath)
	if err != nil {
		return nil, err
	}

	agentClient := agent_api_client.NewAgentApiClient(
		getEnv("AGENT_API_URL", "http://localhost:9090"),
		getEnv("AGENT_API_KEY", ""),
	)

	gate := agentcache.NewGate(cacheRepo, agentClient, clock)
	cacheApp := agentcache.NewApp(userRepo, gate)

	sweeper := prewarm.NewSweeper(userRepo, cacheRepo, gate, bank, clock)

	var publisher *prewarm.JetStreamPublisher
	if config.Events.Enabled {
		cfg := prewarm.DefaultJetStreamConfig()
		cfg.URL = getEnv("NATS_URL", cfg.URL)
		publisher, err = prewarm.NewJetStreamPublisher(cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("url", cfg.URL).Msg("sweep event publisher connected")
	}

	var trackerPublisher prewarm.EventPublisher
	if publisher != nil {
		trackerPublisher = publisher
	}
	tracker := prewarm.NewTracker(trackerPublisher)

	return &Services{
		Users:     userRepo,
		Cache:     cacheRepo,
		CacheApp:  cacheApp,
		Sweeper:   sweeper,
		Tracker:   tracker,
		Publisher: publisher,
	}, nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/prewarm"
)

// Config holds the service settings loaded from the optional YAML file.
// Environment variables cover the secrets and connection endpoints.
type Config struct {
	QuestionBankPath string `yaml:"question_bank_path"`

	Prewarm struct {
		Concurrency  int   `yaml:"concurrency"`
		MaxRetries   int   `yaml:"max_retries"`
		MaxPairs     int   `yaml:"max_pairs"`
		TimeBudgetMs int64 `yaml:"time_budget_ms"`
	} `yaml:"prewarm"`

	Events struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"events"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := &Config{}
	config.QuestionBankPath = "questions.yaml"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return config, nil
}

// prewarmDefaults converts config into the sweep options applied when a
// trigger request leaves them unset.
func (c *Config) prewarmDefaults() prewarm.Options {
	opts := prewarm.Options{
		Concurrency: c.Prewarm.Concurrency,
		MaxRetries:  c.Prewarm.MaxRetries,
		MaxPairs:    c.Prewarm.MaxPairs,
	}
	if c.Prewarm.TimeBudgetMs > 0 {
		opts.TimeBudget = time.Duration(c.Prewarm.TimeBudgetMs) * time.Millisecond
	}
	return opts
}

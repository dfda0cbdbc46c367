package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core. BotToken and DatabaseURL are needed by the bot process only;
	// the worker runs on Redis and the summarizer alone.
	BotToken    string `env:"BOT_TOKEN"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Summarizer (worker only)
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	SummaryModel  string `env:"SUMMARY_MODEL" envDefault:"gpt-5-nano"`
	PromptPath    string `env:"PROMPT_PATH" envDefault:"prompt.txt"`

	// Admin
	AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`
	AdminChatID int64   `env:"ADMIN_CHAT_ID"`

	// Bot behavior
	Debug bool `env:"DEBUG" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ValidateBot checks the settings the bot process cannot run without.
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

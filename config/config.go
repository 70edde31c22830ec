// Package config provides configuration for the chat backend.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int `env:"HTTP_PORT" envDefault:"5000"`

	// OpenRouter upstream
	OpenRouterKey string        `env:"OPENROUTER_API_KEY,required,notEmpty"`
	OpenRouterURL string        `env:"OPENROUTER_URL" envDefault:"https://openrouter.ai/api/v1"`
	SiteURL       string        `env:"SITE_URL" envDefault:"http://localhost:8000"`
	AppName       string        `env:"APP_NAME" envDefault:"AlphaX"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`

	// Token signing
	SecretKey string        `env:"SECRET_KEY" envDefault:"your-secret-key-change-this-in-production"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	UsersFile     string `env:"USERS_FILE" envDefault:"users.json"`
	ChatsFile     string `env:"CHATS_FILE" envDefault:"chats.json"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"file:alphax.db?cache=shared&mode=rwc"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables. It fails when a
// required variable (the OpenRouter API key) is missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

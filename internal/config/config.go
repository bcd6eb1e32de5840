// Package config loads the service configuration from the process
// environment.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the agent service.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Identity provider configuration
	IdpDomain       string `envconfig:"IDP_DOMAIN" validate:"required"`
	IdpClientID     string `envconfig:"IDP_CLIENT_ID" validate:"required"`
	IdpClientSecret string `envconfig:"IDP_CLIENT_SECRET" validate:"required"`
	// IdpAudience defaults to the management API identifier of the domain.
	IdpAudience string `envconfig:"IDP_AUDIENCE"`

	// LLM configuration. Either a provider config file, or an API key for
	// the default Gemini provider.
	LLMConfigFile  string `envconfig:"LLM_CONFIG"`
	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY" validate:"required_without=LLMConfigFile"`
	GeminiModel    string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiEndpoint string `envconfig:"GEMINI_ENDPOINT"`

	// Observability configuration
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment, with optional .env file
// support for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	if cfg.IdpAudience == "" {
		cfg.IdpAudience = "https://" + cfg.IdpDomain + "/api/v2/"
	}
	return cfg, nil
}

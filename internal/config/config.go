// Package config loads the voxloopd backend configuration from the
// environment. Values are read once at startup; .env loading is the
// entrypoint's job.
package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultHTTPAddress = ":8080"
	defaultModel       = "gpt-4o-mini"
)

type Config struct {
	// HTTPAddress is the listen address of the backend API server.
	HTTPAddress string

	// OpenAIAPIKey authenticates the completion provider. Required.
	OpenAIAPIKey string
	// Model is the chat-completion model name.
	Model string
	// Location is an optional human-readable location fed into the persona
	// context, e.g. "Berlin, Germany".
	Location string

	// AllowedOrigins is the CORS allowlist for browser clients.
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddress:    defaultHTTPAddress,
		Model:          defaultModel,
		AllowedOrigins: []string{"*"},
	}

	if address, ok := os.LookupEnv("VOXLOOP_HTTP_ADDRESS"); ok && address != "" {
		cfg.HTTPAddress = address
	}

	apiKey, ok := os.LookupEnv("OPENAI_API_KEY")
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	cfg.OpenAIAPIKey = apiKey

	if model, ok := os.LookupEnv("VOXLOOP_MODEL"); ok && model != "" {
		cfg.Model = model
	}

	cfg.Location = os.Getenv("VOXLOOP_LOCATION")

	if origins, ok := os.LookupEnv("VOXLOOP_ALLOWED_ORIGINS"); ok && origins != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	return cfg, nil
}

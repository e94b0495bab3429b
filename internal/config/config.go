// Package config loads process configuration from the environment (and,
// in development, an optional .env file) into a typed struct.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the CLI and REST front-ends need at startup.
// Load does not validate the MT provider credential: an empty
// GoogleTranslateAPIKey is accepted here, and the front-ends pass it on to
// provider.NewRestProvider, which rejects a missing credential at provider
// construction.
type Config struct {
	// GoogleTranslateAPIKey (or an equivalent vendor credential) for the
	// default RestProvider wiring in the front-ends.
	GoogleTranslateAPIKey string `env:"GOOGLE_TRANSLATE_API_KEY"`
	// RestEndpoint overrides the default MT vendor endpoint.
	RestEndpoint string `env:"MTSUGGEST_REST_ENDPOINT"`

	// ServerAddr is the REST front-end's listen address.
	ServerAddr string `env:"MTSUGGEST_ADDR" envDefault:":8080"`
	// RequestTimeout is loaded from the environment; no front-end reads it
	// (cmd/mtsuggestd uses its own fixed http.Server timeouts).
	RequestTimeout time.Duration `env:"MTSUGGEST_REQUEST_TIMEOUT" envDefault:"30s"`

	// DefaultSourceLocale is the source locale cmd/mtsuggestd passes to
	// Suggest for every request; requests carry no source locale of their own.
	DefaultSourceLocale string `env:"MTSUGGEST_SOURCE_LOCALE" envDefault:"en"`

	// BatchConcurrency is a concurrency bound in the form batch.Run takes;
	// no front-end in this module passes it to batch.Run.
	BatchConcurrency int `env:"MTSUGGEST_BATCH_CONCURRENCY" envDefault:"8"`
}

// Load reads Config from the environment, first loading a .env file from
// dotenvPath if present (a missing file is not an error; a malformed one
// is). Pass "" to skip .env loading entirely.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return nil, fmt.Errorf("config: loading %s: %w", dotenvPath, err)
			}
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	return &cfg, nil
}

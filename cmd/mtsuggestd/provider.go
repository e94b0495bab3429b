package main

import (
	"github.com/translatewiki/mtsuggest/internal/config"
	"github.com/translatewiki/mtsuggest/provider"
)

const defaultRestEndpoint = "https://translation.googleapis.com/language/translate/v2"

// buildProvider constructs a RestProvider from configuration. A missing
// credential is a fatal KindConfig error raised here, at provider
// construction, not at pipeline construction; run calls this during
// startup, so the server does not start without a credential.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	endpoint := cfg.RestEndpoint
	if endpoint == "" {
		endpoint = defaultRestEndpoint
	}
	return provider.NewRestProvider(endpoint, cfg.GoogleTranslateAPIKey)
}

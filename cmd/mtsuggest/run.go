package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/translatewiki/mtsuggest"
	"github.com/translatewiki/mtsuggest/internal/config"
	"github.com/translatewiki/mtsuggest/provider"
	"github.com/translatewiki/mtsuggest/wikiparse"
)

const defaultRestEndpoint = "https://translation.googleapis.com/language/translate/v2"

func runSuggest(cmd *cobra.Command, args []string) error {
	message, targetLocale := args[0], args[1]

	cfg, err := config.Load(".env")
	if err != nil {
		return provider.NewError(provider.KindConfig, err, "loading configuration")
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	log := newLogger(flagVerbose)
	pipeline := mtsuggest.New(wikiparse.Parse, prov, mtsuggest.WithLogger(log))

	suggestion, err := pipeline.Suggest(context.Background(), flagSourceLocale, targetLocale, flagMessageKey, message)
	if err != nil {
		return err
	}

	for _, w := range suggestion.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Kind, w.Message)
	}

	return writeExport(flagMessageKey, suggestion.Wikitext, targetLocale)
}

// buildProvider selects the mock provider (--mock) or a RestProvider
// configured from --key / the environment. A missing credential is a
// fatal KindConfig error raised here, at provider construction, never at
// pipeline construction.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	if flagMock {
		return provider.NewMockProvider(provider.ModeIdentity), nil
	}

	key := flagKey
	if key == "" {
		key = cfg.GoogleTranslateAPIKey
	}
	endpoint := cfg.RestEndpoint
	if endpoint == "" {
		endpoint = defaultRestEndpoint
	}
	return provider.NewRestProvider(endpoint, key)
}

// exportMetadata is the "@metadata" block of the
// `{"@metadata": {...}, key: wikitext}` document that writeExport prints or
// writes to the --out file.
type exportMetadata struct {
	Authors     []string `json:"authors"`
	Locale      string   `json:"locale"`
	LastUpdated string   `json:"last-updated"`
}

func writeExport(key, wikitext, locale string) error {
	doc := map[string]interface{}{
		"@metadata": exportMetadata{
			Authors:     []string{"mtsuggest"},
			Locale:      locale,
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
		},
		key: wikitext,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if flagOut == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(flagOut, data, 0644)
}

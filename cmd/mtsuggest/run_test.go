package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translatewiki/mtsuggest"
	"github.com/translatewiki/mtsuggest/internal/config"
	"github.com/translatewiki/mtsuggest/provider"
)

func TestBuildProviderMockIgnoresMissingCredential(t *testing.T) {
	flagMock = true
	defer func() { flagMock = false }()

	prov, err := buildProvider(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, "mock", prov.Name())
}

func TestBuildProviderRestRequiresCredential(t *testing.T) {
	flagMock = false
	flagKey = ""
	defer func() { flagKey = "" }()

	_, err := buildProvider(&config.Config{})
	require.Error(t, err)

	var perr *provider.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, provider.KindConfig, perr.Kind)
}

func TestBuildProviderRestUsesFlagKeyOverConfig(t *testing.T) {
	flagMock = false
	flagKey = "flag-key"
	defer func() { flagKey = "" }()

	prov, err := buildProvider(&config.Config{GoogleTranslateAPIKey: "config-key"})
	require.NoError(t, err)
	rp, ok := prov.(*provider.RestProvider)
	require.True(t, ok)
	assert.Equal(t, "flag-key", rp.APIKey)
}

func TestExitCodeForClassifiesEachTier(t *testing.T) {
	cfgErr := &mtsuggest.Error{Kind: mtsuggest.KindConfigError, Message: "x"}
	assert.Equal(t, 3, exitCodeFor(cfgErr))

	parseErr := &mtsuggest.Error{Kind: mtsuggest.KindParseError, Message: "x"}
	assert.Equal(t, 4, exitCodeFor(parseErr))

	provCfgErr := provider.NewError(provider.KindConfig, nil, "missing key")
	assert.Equal(t, 3, exitCodeFor(provCfgErr))

	provNetErr := provider.NewError(provider.KindNetwork, nil, "timeout")
	assert.Equal(t, 4, exitCodeFor(provNetErr))

	assert.Equal(t, 2, exitCodeFor(errors.New("bad flags")))
}

func TestWriteExportToFileProducesExpectedShape(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "export.json")

	flagOut = out
	defer func() { flagOut = "" }()

	require.NoError(t, writeExport("greeting", "Hello, $1!", "fr"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Hello, $1!", doc["greeting"])
	meta, ok := doc["@metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "fr", meta["locale"])
}

func TestRootCommandRequiresTwoPositionalArgs(t *testing.T) {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs([]string{"only-one-arg"})
	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestRunSuggestEndToEndWithMockProvider(t *testing.T) {
	flagMock = true
	flagSourceLocale = "en"
	flagMessageKey = "greeting"
	flagOut = filepath.Join(t.TempDir(), "out.json")
	defer func() {
		flagMock = false
		flagSourceLocale = "en"
		flagMessageKey = "message"
		flagOut = ""
	}()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs([]string{"Hello, $1!", "fr"})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(flagOut)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Hello, $1!", doc["greeting"])
}

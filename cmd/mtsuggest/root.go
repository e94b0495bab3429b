// Command mtsuggest is a single-purpose CLI over the suggestion pipeline:
// given a wikitext message and a target locale, it prints (or writes) the
// translated suggestion as a small JSON export document.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/translatewiki/mtsuggest"
	"github.com/translatewiki/mtsuggest/provider"
)

var (
	flagSourceLocale string
	flagMock         bool
	flagVerbose      bool
	flagKey          string
	flagMessageKey   string
	flagOut          string
)

var rootCmd = &cobra.Command{
	Use:   "mtsuggest <message> <target-locale>",
	Short: "Suggest an MT-assisted translation for a wikitext message",
	Args:  cobra.ExactArgs(2),
	RunE:  runSuggest,
}

func init() {
	rootCmd.Flags().StringVar(&flagSourceLocale, "source", "en", "Source locale of the message")
	rootCmd.Flags().BoolVar(&flagMock, "mock", false, "Use the deterministic mock provider instead of a real MT vendor")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug-level logging")
	rootCmd.Flags().StringVar(&flagKey, "key", "", "MT vendor API key (overrides GOOGLE_TRANSLATE_API_KEY / .env)")
	rootCmd.Flags().StringVar(&flagMessageKey, "message-key", "message", "Key under which the wikitext is exported")
	rootCmd.Flags().StringVar(&flagOut, "out", "", "Write the export document to this file instead of stdout")
}

func main() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a failure to the contract's exit codes: 2 for anything
// this process could not even classify (bad flags, cobra's own arg-count
// check), 3 for a configuration failure at provider construction, 4 for
// everything the pipeline itself rejected.
func exitCodeFor(err error) int {
	var merr *mtsuggest.Error
	if errors.As(err, &merr) {
		if merr.Kind == mtsuggest.KindConfigError {
			return 3
		}
		return 4
	}
	var perr *provider.Error
	if errors.As(err, &perr) {
		if perr.Kind == provider.KindConfig {
			return 3
		}
		return 4
	}
	return 2
}

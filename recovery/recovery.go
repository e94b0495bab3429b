// Package recovery reverses the Anchor Registry's substitution, restoring
// $N placeholders in reassembled wikitext.
package recovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/translatewiki/mtsuggest/anchor"
)

// Warning describes a non-fatal issue found while recovering placeholders.
// Reassembly/translation can proceed with a Warning; it never aborts the
// pipeline the way a ConsistencyError or BoundError does.
type Warning struct {
	// PlaceholderIndex is set when the warning concerns a specific
	// placeholder (MissingAnchor); zero otherwise.
	PlaceholderIndex uint
	Message          string
}

func (w Warning) String() string { return w.Message }

// Result is the outcome of Recover: wikitext with every known anchor
// replaced by its $N, plus any warnings encountered along the way.
type Result struct {
	Wikitext string
	Warnings []Warning
}

// malformedAnchor matches a digit run in the anchor's numeric range that
// DecodeAll did not resolve to a registered index — i.e. the run itself
// looks like an anchor shape but collides with nothing the registry
// allocated (a partial match, or MT mangled it beyond the tolerated
// whitespace-splitting).
var malformedAnchor = regexp.MustCompile(`\b777\d{3,}\b`)

// Recover replaces every anchor in text with its original $N placeholder.
// Placeholders whose anchor never appears in text are reported as
// MissingAnchor warnings; digit runs that look like anchors but match no
// registered index are reported as UnexpectedAnchor warnings and left as
// literal text.
func Recover(text string, registry *anchor.Registry) *Result {
	decoded := registry.DecodeAll(text)

	var warnings []Warning
	for _, idx := range registry.Indices() {
		placeholder := fmt.Sprintf("$%d", idx)
		if !strings.Contains(decoded, placeholder) {
			warnings = append(warnings, Warning{
				PlaceholderIndex: idx,
				Message:          fmt.Sprintf("expected placeholder $%d not found after recovery; the translator should verify it by hand", idx),
			})
		}
	}

	known := make(map[string]bool, len(registry.Indices()))
	for _, idx := range registry.Indices() {
		known[anchor.Encode(idx)] = true
	}
	for _, m := range malformedAnchor.FindAllString(decoded, -1) {
		if !known[m] {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("found %q, which looks like an anchor but matches no known placeholder; left as literal text", m),
			})
		}
	}

	return &Result{Wikitext: decoded, Warnings: warnings}
}

package recovery

import (
	"testing"

	"github.com/translatewiki/mtsuggest/anchor"
)

func TestRecoverRestoresPlaceholders(t *testing.T) {
	reg := anchor.Allocate([]uint{1, 2})
	result := Recover("Hello 777001, you have 777002 messages", reg)
	if got, want := result.Wikitext, "Hello $1, you have $2 messages"; got != want {
		t.Errorf("Wikitext = %q, want %q", got, want)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestRecoverWhitespaceSplitAnchor(t *testing.T) {
	reg := anchor.Allocate([]uint{2})
	result := Recover("you have 777 002 messages", reg)
	if got, want := result.Wikitext, "you have $2 messages"; got != want {
		t.Errorf("Wikitext = %q, want %q", got, want)
	}
}

func TestRecoverDuplicateAnchorOccurrences(t *testing.T) {
	reg := anchor.Allocate([]uint{1})
	result := Recover("777001 and 777001 again", reg)
	if got, want := result.Wikitext, "$1 and $1 again"; got != want {
		t.Errorf("Wikitext = %q, want %q", got, want)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestRecoverMissingAnchorWarns(t *testing.T) {
	reg := anchor.Allocate([]uint{1, 2})
	result := Recover("Hello 777001, where did the other one go?", reg)
	if got, want := result.Wikitext, "Hello $1, where did the other one go?"; got != want {
		t.Errorf("Wikitext = %q, want %q", got, want)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(result.Warnings), result.Warnings)
	}
	if result.Warnings[0].PlaceholderIndex != 2 {
		t.Errorf("warning PlaceholderIndex = %d, want 2", result.Warnings[0].PlaceholderIndex)
	}
}

func TestRecoverUnexpectedAnchorWarns(t *testing.T) {
	reg := anchor.Allocate([]uint{1})
	result := Recover("Hello 777001, ticket number 777099", reg)
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning for the unregistered anchor-shaped number, got %d: %v", len(result.Warnings), result.Warnings)
	}
}

func TestRecoverIsIdempotentAfterFirstPass(t *testing.T) {
	reg := anchor.Allocate([]uint{1})
	first := Recover("Hello 777001!", reg)
	second := Recover(first.Wikitext, reg)
	if first.Wikitext != second.Wikitext {
		t.Errorf("Recover is not idempotent: %q != %q", first.Wikitext, second.Wikitext)
	}
}

package provider

import (
	"context"
	"strings"
)

// Mode selects a MockProvider's translation behavior.
type Mode int

const (
	// ModeIdentity returns each input unchanged.
	ModeIdentity Mode = iota
	// ModeSuffixAppend appends "_<targetLocale>" to each input.
	ModeSuffixAppend
	// ModePredefinedMapping looks up each input in a fixed map, passing
	// through unmapped inputs unchanged.
	ModePredefinedMapping
	// ModeReverseWords reverses the order of whitespace-separated words.
	ModeReverseWords
	// ModeError always fails, for exercising error handling.
	ModeError
)

// MockProvider is a deterministic Provider used in tests: it performs no
// network I/O and its output is a pure function of its mode and input.
type MockProvider struct {
	Mode Mode
	// Mapping is consulted in ModePredefinedMapping.
	Mapping map[string]string
	// Err is returned (wrapped) by ModeError; if nil a generic error is used.
	Err error
}

func NewMockProvider(mode Mode) *MockProvider {
	return &MockProvider{Mode: mode}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) TranslateBatch(ctx context.Context, texts []string, sourceLocale, targetLocale string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch p.Mode {
	case ModeError:
		if p.Err == nil {
			return nil, newError(KindOther, errMockFailure, "mock provider configured to fail")
		}
		// Preserve an existing *Error's Kind instead of forcing KindOther,
		// so tests can exercise a specific classification (e.g. KindConfig).
		if perr, ok := p.Err.(*Error); ok {
			return nil, newError(perr.Kind, perr, "mock provider configured to fail")
		}
		return nil, newError(KindOther, p.Err, "mock provider configured to fail")
	case ModeSuffixAppend:
		out := make([]string, len(texts))
		for i, t := range texts {
			out[i] = t + "_" + targetLocale
		}
		return out, nil
	case ModePredefinedMapping:
		out := make([]string, len(texts))
		for i, t := range texts {
			if mapped, ok := p.Mapping[t]; ok {
				out[i] = mapped
			} else {
				out[i] = t
			}
		}
		return out, nil
	case ModeReverseWords:
		out := make([]string, len(texts))
		for i, t := range texts {
			words := strings.Fields(t)
			for l, r := 0, len(words)-1; l < r; l, r = l+1, r-1 {
				words[l], words[r] = words[r], words[l]
			}
			out[i] = strings.Join(words, " ")
		}
		return out, nil
	default: // ModeIdentity
		out := make([]string, len(texts))
		copy(out, texts)
		return out, nil
	}
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errMockFailure = mockError("mock provider error")

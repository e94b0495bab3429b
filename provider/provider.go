// Package provider defines the machine-translation provider contract used
// by the suggestion pipeline, plus a deterministic mock and a generic REST
// implementation.
package provider

import (
	"context"
	"fmt"
)

// Provider is a capability for batch plain-text translation from a source
// to a target locale. TranslateBatch is order- and count-preserving.
type Provider interface {
	// TranslateBatch translates texts from sourceLocale to targetLocale,
	// returning one output per input, in the same order.
	TranslateBatch(ctx context.Context, texts []string, sourceLocale, targetLocale string) ([]string, error)

	// Name identifies the provider, for logging/diagnostics.
	Name() string
}

// BlockProvider is the optional, stronger-consistency capability: the
// caller asserts that texts are semantically related and should be
// translated together, sharing vocabulary choices.
type BlockProvider interface {
	Provider
	TranslateAsBlock(ctx context.Context, texts []string, sourceLocale, targetLocale string) ([]string, error)
}

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindConfig
	KindNetwork
	KindInvalidLocale
	KindRate
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNetwork:
		return "network"
	case KindInvalidLocale:
		return "invalid_locale"
	case KindRate:
		return "rate"
	default:
		return "other"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewError builds a classified Error for use by providers outside this
// package (e.g. pomemory).
func NewError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return newError(kind, cause, format, args...)
}

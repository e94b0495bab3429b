// Package mtsuggest drives the suggestion pipeline: parse, expand, translate,
// reassemble, recover. A Pipeline aggregates its dependencies once at
// construction (a parser, a provider), and Suggest drives them through one
// message at a time.
package mtsuggest

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/translatewiki/mtsuggest/ast"
	"github.com/translatewiki/mtsuggest/expansion"
	"github.com/translatewiki/mtsuggest/provider"
	"github.com/translatewiki/mtsuggest/reassembly"
	"github.com/translatewiki/mtsuggest/recovery"
)

// Parser turns wikitext into an ast.Message. Package wikiparse provides a
// reference implementation; any parser producing the same node set works.
type Parser func(wikitext string) (ast.Message, error)

// Suggestion is the result of one Suggest call.
type Suggestion struct {
	Wikitext    string
	Confidence  float64
	Warnings    []Warning
	VariantsIn  int // number of variants sent to the provider
	VariantsOut int // number of translated variants received back
}

// Pipeline aggregates the dependencies Suggest needs: a parser and an MT
// provider. Both are immutable for the lifetime of the Pipeline and safe to
// share across concurrently running Suggest calls (see package batch).
type Pipeline struct {
	Parse    Parser
	Provider provider.Provider
	Log      zerolog.Logger
}

// New builds a Pipeline. Without WithLogger it logs to zerolog.Nop(), which
// discards everything; pass a real logger to see it (cmd/mtsuggest logs to
// os.Stderr, cmd/mtsuggestd to os.Stdout).
func New(parse Parser, prov provider.Provider, opts ...Option) *Pipeline {
	p := &Pipeline{Parse: parse, Provider: prov, Log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithLogger attaches a logger to the Pipeline.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.Log = log }
}

// Suggest parses messageText, expands it for targetLocale, translates every
// variant through the Pipeline's Provider, reassembles the translations
// back into wikitext, and recovers placeholders. Errors from any stage
// surface as a *Error with a Kind describing which stage failed.
func (p *Pipeline) Suggest(ctx context.Context, sourceLocale, targetLocale, messageKey, messageText string) (*Suggestion, error) {
	log := p.Log.With().Str("message_key", messageKey).Str("target_locale", targetLocale).Logger()

	msg, err := p.Parse(messageText)
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		return nil, newError(KindParseError, err, "parsing message %q", messageKey)
	}

	plan, err := expansion.Expand(msg, targetLocale)
	if err != nil {
		return nil, classifyExpansionError(err, messageKey)
	}
	log.Debug().Int("variants", len(plan.Variants)).Msg("expanded")

	texts := make([]string, len(plan.Variants))
	for i, v := range plan.Variants {
		texts[i] = v.SourceText
	}

	translated, err := p.Provider.TranslateBatch(ctx, texts, sourceLocale, targetLocale)
	if err != nil {
		return nil, classifyProviderError(ctx, err)
	}
	if len(translated) != len(plan.Variants) {
		return nil, newError(KindReassemblyError, nil,
			"provider %s returned %d translations for %d variants", p.Provider.Name(), len(translated), len(plan.Variants))
	}
	for i, v := range plan.Variants {
		v.TargetText = translated[i]
	}

	result, err := reassembly.Reassemble(plan)
	if err != nil {
		var consistency *reassembly.ConsistencyError
		if errors.As(err, &consistency) {
			return nil, newError(KindConsistencyError, err, "message %q", messageKey)
		}
		return nil, newError(KindReassemblyError, err, "message %q", messageKey)
	}

	recovered := recovery.Recover(result.Wikitext, plan.Anchors)

	var warnings []Warning
	for _, sc := range result.ScopeChanges {
		warnings = append(warnings, Warning{Kind: KindScopeChange, Message: sc.Explanation})
	}
	for _, w := range recovered.Warnings {
		warnings = append(warnings, Warning{Kind: KindRecoveryWarning, Message: w.Message})
	}

	log.Info().Float64("confidence", result.Confidence).Int("warnings", len(warnings)).Msg("suggestion produced")

	return &Suggestion{
		Wikitext:    recovered.Wikitext,
		Confidence:  result.Confidence,
		Warnings:    warnings,
		VariantsIn:  len(plan.Variants),
		VariantsOut: len(translated),
	}, nil
}

// classifyExpansionError maps an error from expansion.Expand to a Kind.
// expansion.Expand's only error sources are a BoundError (product size >
// expansion.MaxVariants), a mismatched axis kind surfaced by ast.Collect
// (the same placeholder used as both a PLURAL and GENDER selector — a
// structural defect in the parsed message), or a locale the plural-rule
// engine does not recognize.
func classifyExpansionError(err error, messageKey string) error {
	var bound *expansion.BoundError
	if errors.As(err, &bound) {
		return newError(KindExpansionBound, err, "message %q", messageKey)
	}
	var mismatch *ast.KindMismatchError
	if errors.As(err, &mismatch) {
		return newError(KindParseError, err, "message %q", messageKey)
	}
	return newError(KindInvalidLocale, err, "message %q", messageKey)
}

// classifyProviderError maps a provider.Error (or a context cancellation
// observed while awaiting it) to a Kind.
func classifyProviderError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return newError(KindTimeout, err, "awaiting provider translation")
		}
		return newError(KindCancelled, err, "awaiting provider translation")
	}
	var perr *provider.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case provider.KindConfig:
			return newError(KindConfigError, err, "provider configuration")
		case provider.KindInvalidLocale:
			return newError(KindInvalidLocale, err, "provider translation")
		case provider.KindRate, provider.KindNetwork:
			return newError(KindNetworkError, err, "provider translation")
		default:
			return newError(KindNetworkError, err, "provider translation")
		}
	}
	return newError(KindNetworkError, err, "provider translation")
}

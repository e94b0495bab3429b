// Package anchor protects numbered placeholders ($1, $2, ...) from being
// mangled by machine translation by substituting them, before translation,
// with numeric sentinel strings that MT engines pass through unchanged.
package anchor

import (
	"regexp"
	"strconv"
	"strings"
)

// Base is the offset added to a placeholder index to form its anchor. It is
// chosen to be well outside any numeric range that could plausibly occur in
// real message source text.
const Base = 777000

// Registry is an injective mapping between placeholder indices and anchor
// strings, deterministic given the index so that identical placeholders
// across variants of the same message produce identical anchors.
type Registry struct {
	indices []uint
}

// Allocate returns a registry covering the given placeholder indices.
// Duplicate indices are coalesced; order is not significant.
func Allocate(indices []uint) *Registry {
	seen := make(map[uint]bool, len(indices))
	r := &Registry{}
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			r.indices = append(r.indices, idx)
		}
	}
	return r
}

// Indices returns the placeholder indices covered by this registry.
func (r *Registry) Indices() []uint { return r.indices }

// Encode returns the anchor string standing in for the given placeholder
// index. It is deterministic: calling Encode with the same index always
// returns the same string, with or without a prior call to Allocate.
func Encode(index uint) string {
	return strconv.FormatUint(uint64(Base)+uint64(index), 10)
}

// anchorDigitRun matches a run of digits that may contain internal Unicode
// whitespace, to tolerate MT engines that insert spaces inside long numeric
// literals (e.g. "777002" -> "777 002").
var anchorDigitRun = regexp.MustCompile(`[\p{Nd}](?:[\p{Nd}\s]*[\p{Nd}])?`)

// normalizeDigitRun strips internal whitespace from a matched digit run.
func normalizeDigitRun(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0xA0, 0x2007, 0x202F:
		return true
	}
	return false
}

// DecodeAll replaces every occurrence of any anchor encodable from this
// registry's indices with its corresponding $N placeholder. A single anchor
// may occur multiple times; occurrences of anchors for indices not in the
// registry are left untouched (the caller reports those separately, see
// package recovery).
func (r *Registry) DecodeAll(text string) string {
	return anchorDigitRun.ReplaceAllStringFunc(text, func(run string) string {
		normalized := normalizeDigitRun(run)
		n, err := strconv.ParseUint(normalized, 10, 64)
		if err != nil || n < Base {
			return run
		}
		idx := uint(n - Base)
		for _, known := range r.indices {
			if known == idx {
				return "$" + strconv.FormatUint(uint64(idx), 10)
			}
		}
		return run
	})
}

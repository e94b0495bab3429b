// Package reassembly folds a set of translated, anchored message variants
// back into a single piece of wikitext by iteratively collapsing axes with
// prefix/suffix alignment, the way the Expansion Engine's Cartesian product
// is meant to be undone.
package reassembly

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/translatewiki/mtsuggest/ast"
	"github.com/translatewiki/mtsuggest/expansion"
)

// MinSimilarity is the pairwise similarity floor within a folding group.
// Below it, the MT output for that axis is deemed incoherent.
const MinSimilarity = 0.70

// ScopeChangePenalty is subtracted from confidence for each ScopeChange.
const ScopeChangePenalty = 0.1

// ScopeChange records that a magic word's reconstructed span grew beyond
// the span it occupied in the source rendering — expected behavior for
// inflected target languages, reported as a warning rather than an error.
type ScopeChange struct {
	AxisIndex   uint
	Kind        ast.VariableKind
	OriginalLen int // rune length of the axis's span in the source rendering
	NewLen      int // rune length of the axis's span in the folded translation
	Explanation string
}

// ExtractedForms is the per-axis table of form strings recovered during
// folding, keyed by form index.
type ExtractedForms struct {
	AxisIndex uint
	Kind      ast.VariableKind
	Forms     []string
}

// Result is the outcome of a successful Reassemble call.
type Result struct {
	Wikitext       string
	ExtractedForms []ExtractedForms
	ScopeChanges   []ScopeChange
	Confidence     float64
}

// ConsistencyError means the MT output for one folding group was too
// divergent across forms to be coherently folded. Reassembly aborts.
type ConsistencyError struct {
	AxisIndex  uint
	Similarity float64
	TextA      string
	TextB      string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("reassembly: axis %d group has similarity %.2f (< %.2f) between %q and %q",
		e.AxisIndex, e.Similarity, MinSimilarity, e.TextA, e.TextB)
}

// workingVariant is a Variant reduced to what folding needs: a state
// restricted to the axes not yet collapsed, plus parallel source/target
// strings that always refer to the same span structure.
type workingVariant struct {
	state  map[uint]int
	source string
	target string
}

// Reassemble folds plan's translated Variants into one wikitext string.
// Every Variant must already have TargetText populated.
func Reassemble(plan *expansion.Plan) (*Result, error) {
	for i, v := range plan.Variants {
		if v.TargetText == "" {
			return nil, fmt.Errorf("reassembly: variant %d has no translated text", i)
		}
	}

	working := make([]*workingVariant, len(plan.Variants))
	for i, v := range plan.Variants {
		state := make(map[uint]int, len(v.State))
		for k, val := range v.State {
			state[k] = val
		}
		working[i] = &workingVariant{state: state, source: v.SourceText, target: v.TargetText}
	}

	axes := append([]expansion.AxisInfo(nil), plan.Axes...)
	var scopeChanges []ScopeChange
	var extracted []ExtractedForms

	for len(axes) > 0 {
		axis := axes[0]
		axes = axes[1:]

		groups := groupExcluding(working, axis.Index)
		var next []*workingVariant
		for _, key := range sortedKeys(groups) {
			group := groups[key]
			sort.Slice(group, func(i, j int) bool { return group[i].state[axis.Index] < group[j].state[axis.Index] })

			targets := make([]string, len(group))
			sources := make([]string, len(group))
			for i, wv := range group {
				targets[i] = wv.target
				sources[i] = wv.source
			}

			minSim, ta, tb := minPairwiseSimilarity(targets)
			if minSim < MinSimilarity {
				return nil, &ConsistencyError{AxisIndex: axis.Index, Similarity: minSim, TextA: ta, TextB: tb}
			}

			tPrefix, tSuffix, tMiddles := fold(targets)
			sPrefix, sSuffix, sMiddles := fold(sources)

			if wordCount(tPrefix) < wordCount(sPrefix) || wordCount(tSuffix) < wordCount(sSuffix) {
				repSrc := sources[0]
				repTgt := targets[0]
				originalLen := utf8.RuneCountInString(repSrc) - utf8.RuneCountInString(sPrefix) - utf8.RuneCountInString(sSuffix)
				newLen := utf8.RuneCountInString(repTgt) - utf8.RuneCountInString(tPrefix) - utf8.RuneCountInString(tSuffix)
				scopeChanges = append(scopeChanges, ScopeChange{
					AxisIndex:   axis.Index,
					Kind:        axis.Kind,
					OriginalLen: originalLen,
					NewLen:      newLen,
					Explanation: fmt.Sprintf("%s axis on placeholder %d widened from %d to %d runes during folding", axis.Kind, axis.Index, originalLen, newLen),
				})
			}

			extracted = append(extracted, ExtractedForms{AxisIndex: axis.Index, Kind: axis.Kind, Forms: append([]string(nil), tMiddles...)})

			newState := make(map[uint]int, len(group[0].state))
			for k, v := range group[0].state {
				if k != axis.Index {
					newState[k] = v
				}
			}
			next = append(next, &workingVariant{
				state:  newState,
				source: sPrefix + buildMagicWord(axis.Kind, axis.Index, sMiddles) + sSuffix,
				target: tPrefix + buildMagicWord(axis.Kind, axis.Index, tMiddles) + tSuffix,
			})
		}
		working = next
	}

	if len(working) != 1 {
		return nil, fmt.Errorf("reassembly: expected exactly 1 final variant, got %d", len(working))
	}

	confidence := 1.0 - ScopeChangePenalty*float64(len(scopeChanges))
	if confidence < 0 {
		confidence = 0
	}

	return &Result{
		Wikitext:       working[0].target,
		ExtractedForms: extracted,
		ScopeChanges:   scopeChanges,
		Confidence:     confidence,
	}, nil
}

func buildMagicWord(kind ast.VariableKind, axisIndex uint, middles []string) string {
	var b strings.Builder
	if kind == ast.KindGender {
		b.WriteString("{{GENDER:")
	} else {
		b.WriteString("{{PLURAL:")
	}
	b.WriteString("$" + strconv.FormatUint(uint64(axisIndex), 10))
	for _, m := range middles {
		b.WriteByte('|')
		b.WriteString(m)
	}
	b.WriteString("}}")
	return b.String()
}

func groupExcluding(variants []*workingVariant, axisIndex uint) map[string][]*workingVariant {
	groups := make(map[string][]*workingVariant)
	for _, v := range variants {
		keys := make([]uint, 0, len(v.state))
		for k := range v.state {
			if k != axisIndex {
				keys = append(keys, k)
			}
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%d=%d;", k, v.state[k])
		}
		key := b.String()
		groups[key] = append(groups[key], v)
	}
	return groups
}

func sortedKeys(m map[string][]*workingVariant) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fold computes the word-boundary-snapped common prefix/suffix of texts
// and the per-text middle strings remaining after removing them.
func fold(texts []string) (prefix, suffix string, middles []string) {
	if len(texts) == 0 {
		return "", "", nil
	}
	runeSets := make([][]rune, len(texts))
	minLen := -1
	for i, t := range texts {
		runeSets[i] = []rune(t)
		if minLen == -1 || len(runeSets[i]) < minLen {
			minLen = len(runeSets[i])
		}
	}
	if len(texts) == 1 {
		// A single-form axis (e.g. a one-category plural language): the
		// whole text is the form, nothing is identifiably fixed around it.
		return "", "", []string{texts[0]}
	}

	dmp := diffmatchpatch.New()
	prefixLen := len(runeSets[0])
	suffixLen := len(runeSets[0])
	for i := 1; i < len(texts); i++ {
		if cp := dmp.DiffCommonPrefix(texts[0], texts[i]); cp < prefixLen {
			prefixLen = cp
		}
		if cs := dmp.DiffCommonSuffix(texts[0], texts[i]); cs < suffixLen {
			suffixLen = cs
		}
	}
	if prefixLen+suffixLen > minLen {
		suffixLen = minLen - prefixLen
		if suffixLen < 0 {
			suffixLen = 0
		}
	}

	ref := runeSets[0]
	prefixLen = snapPrefix(ref, prefixLen)
	suffixStart := snapSuffix(ref, len(ref)-suffixLen)
	suffixLen = len(ref) - suffixStart

	prefix = string(ref[:prefixLen])
	suffix = string(ref[len(ref)-suffixLen:])

	middles = make([]string, len(texts))
	for i, rs := range runeSets {
		end := len(rs) - suffixLen
		if end < prefixLen {
			end = prefixLen
		}
		middles[i] = string(rs[prefixLen:end])
	}
	return prefix, suffix, middles
}

func isBoundaryRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// snapPrefix retracts pos to the nearest position at or before it that
// sits on a word boundary within runes.
func snapPrefix(runes []rune, pos int) int {
	for pos > 0 {
		left := runes[pos-1]
		rightIsBoundary := pos >= len(runes) || isBoundaryRune(runes[pos])
		if isBoundaryRune(left) || rightIsBoundary {
			return pos
		}
		pos--
	}
	return 0
}

// snapSuffix advances pos to the nearest position at or after it that sits
// on a word boundary within runes.
func snapSuffix(runes []rune, pos int) int {
	for pos < len(runes) {
		leftIsBoundary := pos == 0 || isBoundaryRune(runes[pos-1])
		right := runes[pos]
		if isBoundaryRune(right) || leftIsBoundary {
			return pos
		}
		pos++
	}
	return len(runes)
}

func wordCount(s string) int {
	return len(strings.FieldsFunc(s, unicode.IsSpace))
}

// minPairwiseSimilarity returns the lowest similarity score among all pairs
// in texts, along with the pair that scored it (for error reporting).
func minPairwiseSimilarity(texts []string) (minSim float64, worstA, worstB string) {
	minSim = 1.0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			sim := similarity(texts[i], texts[j])
			if sim < minSim {
				minSim, worstA, worstB = sim, texts[i], texts[j]
			}
		}
	}
	return minSim, worstA, worstB
}

// similarity implements 2*|common|/(len_a+len_b), using the total length of
// a Myers diff's equal-runs as the common-content term.
func similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la+lb == 0 {
		return 1.0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	common := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			common += utf8.RuneCountInString(d.Text)
		}
	}
	return 2 * float64(common) / float64(la+lb)
}

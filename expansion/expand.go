// Package expansion enumerates the Cartesian product of a message's
// PLURAL/GENDER axis states and renders each combination to anchored plain
// text suitable for machine translation.
package expansion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/translatewiki/mtsuggest/anchor"
	"github.com/translatewiki/mtsuggest/ast"
	"github.com/translatewiki/mtsuggest/pluralcat"
)

// MaxVariants is the hard bound on the size of a message's Cartesian
// expansion. It protects MT batch size and reassembly runtime.
const MaxVariants = 64

// Variant is one expansion of a message for a specific assignment of form
// indices to axes.
type Variant struct {
	// State maps each axis's placeholder index to its chosen form index.
	State map[uint]int
	// SourceText is this variant rendered in the source language with
	// placeholders replaced by anchors.
	SourceText string
	// TargetText is filled in by the MT provider; empty until then.
	TargetText string
}

// AxisInfo describes one axis of a message's expansion.
type AxisInfo struct {
	Index       uint
	Kind        ast.VariableKind
	Cardinality int
}

// Plan is the result of expanding a message: its axes, the full Cartesian
// product of Variants, and the anchor registry used to protect
// placeholders during translation.
type Plan struct {
	Axes     []AxisInfo
	Variants []*Variant
	Anchors  *anchor.Registry
}

// BoundError is returned when a message's predicted variant count exceeds
// MaxVariants. No MT call is ever made once this is detected.
type BoundError struct {
	Count int
	Max   int
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("expansion: %d variants exceeds the bound of %d", e.Count, e.Max)
}

// CalculateVariantCount returns the number of variants a message would
// expand to for the given target locale, without generating them.
func CalculateVariantCount(msg ast.Message, locale string) (int, error) {
	axes, err := ast.Collect(msg)
	if err != nil {
		return 0, err
	}
	total := 1
	var table *pluralcat.Table
	for _, a := range axes {
		switch a.Kind {
		case ast.KindGender:
			total *= ast.GenderFormCount
		default:
			if table == nil {
				table, err = pluralcat.For(locale)
				if err != nil {
					return 0, err
				}
			}
			total *= table.Len()
		}
	}
	return total, nil
}

// Expand walks msg, collects its axes, checks the variant bound, and
// enumerates every Variant in a stable, deterministic order (lexicographic
// by axis id, with the last axis — by ascending placeholder index — varying
// fastest).
func Expand(msg ast.Message, locale string) (*Plan, error) {
	axes, err := ast.Collect(msg)
	if err != nil {
		return nil, err
	}
	sort.Slice(axes, func(i, j int) bool { return axes[i].Index < axes[j].Index })

	var table *pluralcat.Table
	infos := make([]AxisInfo, 0, len(axes))
	for _, a := range axes {
		card := ast.GenderFormCount
		if a.Kind != ast.KindGender {
			if table == nil {
				table, err = pluralcat.For(locale)
				if err != nil {
					return nil, err
				}
			}
			card = table.Len()
		}
		infos = append(infos, AxisInfo{Index: a.Index, Kind: a.Kind, Cardinality: card})
	}
	if table == nil && hasPluralSelector(msg) {
		// Only literal-selector PLURAL sites are present: still need the
		// locale's table to resolve literal selectors during rendering.
		table, err = pluralcat.For(locale)
		if err != nil {
			return nil, err
		}
	}

	total := 1
	for _, info := range infos {
		total *= info.Cardinality
	}
	if total > MaxVariants {
		return nil, &BoundError{Count: total, Max: MaxVariants}
	}

	outputs := ast.OutputPlaceholderIndices(msg)
	registry := anchor.Allocate(outputs)

	states := enumerate(infos)
	variants := make([]*Variant, 0, len(states))
	for _, state := range states {
		variants = append(variants, &Variant{
			State:      state,
			SourceText: render(msg, state, table),
		})
	}

	return &Plan{Axes: infos, Variants: variants, Anchors: registry}, nil
}

func hasPluralSelector(m ast.Message) bool {
	for _, node := range m {
		switch n := node.(type) {
		case *ast.PluralNode:
			return true
		case *ast.GenderNode:
			for _, f := range n.Forms {
				if hasPluralSelector(f) {
					return true
				}
			}
		}
	}
	return false
}

func enumerate(infos []AxisInfo) []map[uint]int {
	if len(infos) == 0 {
		return []map[uint]int{{}}
	}
	var result []map[uint]int
	var rec func(i int, current map[uint]int)
	rec = func(i int, current map[uint]int) {
		if i == len(infos) {
			cp := make(map[uint]int, len(current))
			for k, v := range current {
				cp[k] = v
			}
			result = append(result, cp)
			return
		}
		axis := infos[i]
		for v := 0; v < axis.Cardinality; v++ {
			current[axis.Index] = v
			rec(i+1, current)
		}
	}
	rec(0, map[uint]int{})
	return result
}

func render(msg ast.Message, state map[uint]int, table *pluralcat.Table) string {
	var b strings.Builder
	var walk func(ast.Message)
	walk = func(m ast.Message) {
		for _, node := range m {
			switch n := node.(type) {
			case *ast.TextNode:
				b.WriteString(n.Text)
			case *ast.PlaceholderNode:
				b.WriteString(anchor.Encode(n.Index))
			case *ast.InternalLinkNode:
				b.WriteString(n.DisplayText())
			case *ast.ExternalLinkNode:
				b.WriteString(n.DisplayText())
			case *ast.PluralNode:
				card := 1
				if table != nil {
					card = table.Len()
				}
				forms := pluralcat.ResolveFormCount(n.Forms, card)
				idx := resolveFormIndex(n.Selector, state, table)
				if idx >= 0 && idx < len(forms) {
					walk(forms[idx])
				}
			case *ast.GenderNode:
				forms := pluralcat.ResolveFormCount(n.Forms, ast.GenderFormCount)
				idx := resolveFormIndex(n.Selector, state, nil)
				if idx < 0 {
					idx = 0
				}
				if idx >= len(forms) {
					idx = len(forms) - 1
				}
				if idx >= 0 && idx < len(forms) {
					walk(forms[idx])
				}
			}
		}
	}
	walk(msg)
	return b.String()
}

// resolveFormIndex picks the form index for a magic-word site: the current
// axis state for a placeholder selector, or the locale-classified category
// (PLURAL) / raw index (GENDER) for a literal selector.
func resolveFormIndex(sel ast.Selector, state map[uint]int, table *pluralcat.Table) int {
	if idx, ok := sel.AxisIndex(); ok {
		return state[idx]
	}
	if sel.Literal == nil {
		return 0
	}
	if table != nil {
		return table.Select(*sel.Literal)
	}
	return *sel.Literal
}

package reassembly

import (
	"testing"

	"github.com/andreyvit/diff"

	"github.com/translatewiki/mtsuggest/anchor"
	"github.com/translatewiki/mtsuggest/ast"
	"github.com/translatewiki/mtsuggest/expansion"
)

func variant(state map[uint]int, source, target string) *expansion.Variant {
	return &expansion.Variant{State: state, SourceText: source, TargetText: target}
}

func assertWikitext(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("Wikitext mismatch:\n%v", diff.LineDiff(want, got))
	}
}

func TestReassembleNoAxes(t *testing.T) {
	plan := &expansion.Plan{
		Axes:     nil,
		Variants: []*expansion.Variant{variant(map[uint]int{}, "Hello, 777001!", "Hello, 777001!_fr")},
		Anchors:  anchor.Allocate([]uint{1}),
	}
	result, err := Reassemble(plan)
	if err != nil {
		t.Fatal(err)
	}
	assertWikitext(t, result.Wikitext, "Hello, 777001!_fr")
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if len(result.ScopeChanges) != 0 {
		t.Errorf("expected no scope changes, got %d", len(result.ScopeChanges))
	}
}

func TestReassembleSinglePluralAxisIdentity(t *testing.T) {
	// "There {{PLURAL:$1|is|are}} $1 item", en, mock-identity: translated ==
	// source, so folding must recover the original magic word exactly.
	plan := &expansion.Plan{
		Axes: []expansion.AxisInfo{{Index: 1, Kind: ast.KindPlural, Cardinality: 2}},
		Variants: []*expansion.Variant{
			variant(map[uint]int{1: 0}, "There is 777001 item", "There is 777001 item"),
			variant(map[uint]int{1: 1}, "There are 777001 item", "There are 777001 item"),
		},
		Anchors: anchor.Allocate([]uint{1}),
	}
	result, err := Reassemble(plan)
	if err != nil {
		t.Fatal(err)
	}
	assertWikitext(t, result.Wikitext, "There {{PLURAL:$1|is|are}} 777001 item")
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 (identity translation, no scope change)", result.Confidence)
	}
}

func TestReassembleConsistencyErrorOnIncoherentGroup(t *testing.T) {
	plan := &expansion.Plan{
		Axes: []expansion.AxisInfo{{Index: 1, Kind: ast.KindPlural, Cardinality: 2}},
		Variants: []*expansion.Variant{
			variant(map[uint]int{1: 0}, "There is one item", "Completely unrelated sentence about boats"),
			variant(map[uint]int{1: 1}, "There are items", "Le chat mange une pomme rouge"),
		},
		Anchors: anchor.Allocate(nil),
	}
	_, err := Reassemble(plan)
	if err == nil {
		t.Fatal("expected a ConsistencyError")
	}
	if _, ok := err.(*ConsistencyError); !ok {
		t.Fatalf("expected *ConsistencyError, got %T: %v", err, err)
	}
}

func TestReassembleTwoAxesOrderIndependent(t *testing.T) {
	// GENDER($1, 2 forms) x PLURAL($2, 2 forms); verify folding GENDER
	// first or PLURAL first yields the same final wikitext (property P4).
	variants := []*expansion.Variant{
		variant(map[uint]int{1: 0, 2: 0}, "He has 777002 item", "He has 777002 item"),
		variant(map[uint]int{1: 0, 2: 1}, "He has 777002 items", "He has 777002 items"),
		variant(map[uint]int{1: 1, 2: 0}, "She has 777002 item", "She has 777002 item"),
		variant(map[uint]int{1: 1, 2: 1}, "She has 777002 items", "She has 777002 items"),
	}
	axisGender := expansion.AxisInfo{Index: 1, Kind: ast.KindGender, Cardinality: 2}
	axisPlural := expansion.AxisInfo{Index: 2, Kind: ast.KindPlural, Cardinality: 2}

	planA := &expansion.Plan{Axes: []expansion.AxisInfo{axisGender, axisPlural}, Variants: cloneVariants(variants), Anchors: anchor.Allocate([]uint{2})}
	planB := &expansion.Plan{Axes: []expansion.AxisInfo{axisPlural, axisGender}, Variants: cloneVariants(variants), Anchors: anchor.Allocate([]uint{2})}

	resultA, err := Reassemble(planA)
	if err != nil {
		t.Fatal(err)
	}
	resultB, err := Reassemble(planB)
	if err != nil {
		t.Fatal(err)
	}
	if resultA.Wikitext != resultB.Wikitext {
		t.Errorf("fold order changed the result:\n  gender-first: %q\n  plural-first: %q", resultA.Wikitext, resultB.Wikitext)
	}
}

func TestReassembleScopeChangeLowersConfidenceMonotonically(t *testing.T) {
	// Gender axis where the verb conjugation itself diverges per form
	// ("envoya" vs "envoyèrent"), so the target-side fixed suffix shrinks
	// to fewer words than the source-side "sent it" suffix.
	plan := &expansion.Plan{
		Axes: []expansion.AxisInfo{{Index: 1, Kind: ast.KindGender, Cardinality: 3}},
		Variants: []*expansion.Variant{
			variant(map[uint]int{1: 0}, "He sent it", "Il envoya cela"),
			variant(map[uint]int{1: 1}, "She sent it", "Elle envoya cela"),
			variant(map[uint]int{1: 2}, "They sent it", "Ils envoyèrent cela"),
		},
		Anchors: anchor.Allocate(nil),
	}
	result, err := Reassemble(plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.ScopeChanges) == 0 {
		t.Fatal("expected at least one ScopeChange")
	}
	if result.Confidence >= 1.0 {
		t.Errorf("Confidence = %v, want < 1.0 after a ScopeChange", result.Confidence)
	}
	wantConfidence := 1.0 - ScopeChangePenalty*float64(len(result.ScopeChanges))
	if result.Confidence != wantConfidence {
		t.Errorf("Confidence = %v, want %v (1.0 - 0.1*%d)", result.Confidence, wantConfidence, len(result.ScopeChanges))
	}
}

func cloneVariants(vs []*expansion.Variant) []*expansion.Variant {
	out := make([]*expansion.Variant, len(vs))
	for i, v := range vs {
		state := make(map[uint]int, len(v.State))
		for k, val := range v.State {
			state[k] = val
		}
		out[i] = &expansion.Variant{State: state, SourceText: v.SourceText, TargetText: v.TargetText}
	}
	return out
}

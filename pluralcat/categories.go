// Package pluralcat provides, for a target locale, the ordered list of CLDR
// plural categories together with a representative integer that is a true
// member of each category.
//
// The category-to-integer selection itself is delegated to a gettext
// Plural-Forms engine (github.com/robfig/gettext/po), which already ships
// a per-locale classification function; this package adds the CLDR
// category names (data the gettext engine does not expose) and probes a
// fixed integer ladder to find a representative for each one.
package pluralcat

import (
	"fmt"
	"strings"

	"github.com/robfig/gettext/po"
	"golang.org/x/text/language"
)

// Category is a CLDR plural category name.
type Category string

const (
	Zero  Category = "zero"
	One   Category = "one"
	Two   Category = "two"
	Few   Category = "few"
	Many  Category = "many"
	Other Category = "other"
)

// CategoryForm pairs a CLDR category with an integer that belongs to it.
type CategoryForm struct {
	Category       Category
	Representative int
}

// Table is the set of plural categories recognized for one locale, in CLDR
// order, plus the underlying selector function (n -> category index).
type Table struct {
	Locale     string
	Categories []CategoryForm
	selector   po.PluralSelector
}

// Len is the category count, i.e. the PLURAL axis cardinality for Locale.
func (t *Table) Len() int { return len(t.Categories) }

// Select returns the index into Categories that n belongs to.
func (t *Table) Select(n int) int {
	idx := t.selector(n)
	if idx < 0 || idx >= len(t.Categories) {
		return len(t.Categories) - 1 // degrade to the last (typically "other")
	}
	return idx
}

// candidateLadder is probed, in order, to find a representative integer for
// each category index a locale's selector can return. Values that are only
// reachable by a single specific integer (e.g. Arabic's "zero" category,
// which requires exactly n==0) still get discovered because every category
// index present in the table is filled in eventually; placing 0 near the
// end simply prefers non-degenerate representatives (e.g. Russian
// one=1, few=2, many=5) when a choice exists.
var candidateLadder = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12,
	20, 21, 100, 101, 102, 111, 1000000, 1000001, 0,
}

// namesByLanguage gives the CLDR cardinal category list, in CLDR order, for
// the base language of a locale. This is metadata the gettext Plural-Forms
// engine does not carry (it only classifies, it does not name); the list
// below follows Unicode CLDR's published cardinal plural rules for each
// language's most common form count.
var namesByLanguage = map[string][]Category{
	"en": {One, Other},
	"de": {One, Other},
	"nl": {One, Other},
	"sv": {One, Other},
	"da": {One, Other},
	"no": {One, Other},
	"nb": {One, Other},
	"nn": {One, Other},
	"fi": {One, Other},
	"el": {One, Other},
	"he": {One, Other},
	"hu": {One, Other},
	"it": {One, Other},
	"es": {One, Other},
	"pt": {One, Other},
	"eu": {One, Other},
	"bg": {One, Other},
	"fr": {One, Other},
	"tr": {One, Other},
	"id": {Other},
	"ja": {Other},
	"ko": {Other},
	"vi": {Other},
	"th": {Other},
	"zh": {Other},
	"ms": {Other},
	"my": {Other},
	"ru": {One, Few, Many},
	"uk": {One, Few, Many},
	"sr": {One, Few, Many},
	"hr": {One, Few, Many},
	"bs": {One, Few, Many},
	"pl": {One, Few, Many},
	"cs": {One, Few, Many},
	"sk": {One, Few, Many},
	"lt": {One, Few, Many},
	"ro": {One, Few, Other},
	"ar": {Zero, One, Two, Few, Many, Other},
	"cy": {Zero, One, Two, Few, Many, Other},
	"ga": {One, Two, Few, Many, Other},
	"br": {One, Two, Few, Many, Other},
	"mt": {One, Few, Many, Other},
	"sl": {One, Two, Few, Other},
	"lv": {Zero, One, Other},
}

// For returns the plural category table for locale, or an error if the
// underlying gettext engine has no Plural-Forms rule for it (InvalidLocale
// at the caller's boundary).
func For(locale string) (*Table, error) {
	selector := po.PluralSelectorForLanguage(locale)
	if selector == nil {
		return nil, fmt.Errorf("pluralcat: no plural rule known for locale %q", locale)
	}

	names := namesByLanguage[baseLanguage(locale)]

	reps := make(map[int]int)
	maxIdx := -1
	for _, cand := range candidateLadder {
		idx := selector(cand)
		if _, ok := reps[idx]; !ok {
			reps[idx] = cand
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	n := maxIdx + 1
	if n < 1 {
		n = 1
	}
	if len(names) != n {
		// No table entry for this locale's form count, or a mismatched one:
		// fall back to a generic, position-based label set: "other" for a
		// single form, otherwise "one" for the first slot and "other" for
		// every later one — callers still get the right cardinality, just
		// without precise CLDR names.
		names = genericNames(n)
	}

	cats := make([]CategoryForm, 0, n)
	for idx := 0; idx < n; idx++ {
		rep, ok := reps[idx]
		if !ok {
			rep = idx // never probed (ladder didn't reach this index); best effort
		}
		cats = append(cats, CategoryForm{Category: names[idx], Representative: rep})
	}
	return &Table{Locale: locale, Categories: cats, selector: selector}, nil
}

func genericNames(n int) []Category {
	if n == 1 {
		return []Category{Other}
	}
	if n == 2 {
		return []Category{One, Other}
	}
	names := make([]Category, n)
	for i := range names {
		names[i] = Other
	}
	names[0] = One
	return names
}

func baseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		// Best-effort: take everything before the first separator.
		if i := strings.IndexAny(locale, "_-"); i >= 0 {
			return strings.ToLower(locale[:i])
		}
		return strings.ToLower(locale)
	}
	base, _ := tag.Base()
	return base.String()
}

// Package pomemory adapts gettext PO catalogs into a provider.Provider:
// exact-match translation memory, consulted before (or instead of) a live
// MT vendor.
package pomemory

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/robfig/gettext/po"
	"golang.org/x/text/language"

	"github.com/translatewiki/mtsuggest/provider"
)

// FileOpener opens the PO file for a locale. It returns a nil ReadCloser,
// nil error if no such file exists.
type FileOpener interface {
	Open(locale string) (io.ReadCloser, error)
}

type fsFileOpener struct{ Dirname string }

func (o fsFileOpener) Open(locale string) (io.ReadCloser, error) {
	switch f, err := os.Open(path.Join(o.Dirname, locale+".po")); {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return f, nil
	}
}

// catalog is one locale's exact-match source-text -> translation table.
type catalog struct {
	locale       string
	translations map[string]string
}

func loadCatalog(r io.Reader, locale string) (*catalog, error) {
	file, err := po.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("pomemory: parsing %s.po: %w", locale, err)
	}
	c := &catalog{locale: locale, translations: make(map[string]string)}
	for _, msg := range file.Messages {
		if msg.Id == "" || len(msg.Str) == 0 {
			continue
		}
		if translated := firstNonEmpty(msg.Str); translated != "" {
			c.translations[msg.Id] = translated
		}
	}
	return c, nil
}

func firstNonEmpty(strs []string) string {
	for _, s := range strs {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// fallbacks returns locale tags to try, from most to least specific, for a
// catalog miss: <lang>-<script>-<region>, <lang>-<script>, <lang>.
func fallbacks(tag language.Tag) []language.Tag {
	var result []language.Tag
	lang, script, region := tag.Raw()
	if region.String() != "ZZ" {
		if t, err := language.Compose(lang, script, region); err == nil {
			result = append(result, t)
		}
	}
	if script.String() != "Zzzz" {
		if t, err := language.Compose(lang, script); err == nil {
			result = append(result, t)
		}
	}
	if t, err := language.Compose(lang); err == nil {
		result = append(result, t)
	}
	return result
}

// MissError reports source texts with no exact match in the locale's
// catalog (after fallback). The orchestrator can use this to fall through
// to a live MT provider for the reported texts only.
type MissError struct {
	Locale  string
	Missing []string
}

func (e *MissError) Error() string {
	return fmt.Sprintf("pomemory: %d of the requested texts have no translation memory entry for %q", len(e.Missing), e.Locale)
}

// TranslationMemoryProvider is a provider.Provider that answers strictly
// from previously-translated PO catalogs, one per locale, lazily loaded and
// cached. It never invents a translation: a catalog miss is reported via
// MissError rather than passed through or guessed.
type TranslationMemoryProvider struct {
	opener FileOpener

	mu       sync.Mutex
	catalogs map[string]*catalog // keyed by resolved locale tag string
}

// New builds a TranslationMemoryProvider that reads PO files through opener.
func New(opener FileOpener) *TranslationMemoryProvider {
	return &TranslationMemoryProvider{opener: opener, catalogs: make(map[string]*catalog)}
}

// Dir builds a TranslationMemoryProvider rooted at a directory of
// "<locale>.po" files, e.g. dirname/fr.po, dirname/pt-BR.po.
func Dir(dirname string) *TranslationMemoryProvider {
	return New(fsFileOpener{dirname})
}

func (p *TranslationMemoryProvider) Name() string { return "translation-memory" }

// TranslateBatch looks up every text in targetLocale's catalog, walking the
// fallback chain on a full-catalog miss. sourceLocale is unused: a PO
// catalog's msgid is already the agreed source text.
func (p *TranslationMemoryProvider) TranslateBatch(ctx context.Context, texts []string, sourceLocale, targetLocale string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cat, err := p.catalogFor(targetLocale)
	if err != nil {
		return nil, provider.NewError(provider.KindConfig, err, "loading translation memory for %q", targetLocale)
	}
	if cat == nil {
		return nil, &MissError{Locale: targetLocale, Missing: append([]string(nil), texts...)}
	}

	out := make([]string, len(texts))
	var missing []string
	for i, t := range texts {
		if v, ok := cat.translations[t]; ok {
			out[i] = v
		} else {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return nil, &MissError{Locale: targetLocale, Missing: missing}
	}
	return out, nil
}

func (p *TranslationMemoryProvider) catalogFor(locale string) (*catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.catalogs[locale]; ok {
		return c, nil
	}

	c, err := p.load(locale)
	if err != nil {
		return nil, err
	}
	if c == nil {
		tag, err := language.Parse(locale)
		if err != nil {
			p.catalogs[locale] = nil
			return nil, nil
		}
		for _, fb := range fallbacks(tag) {
			if c, ok := p.catalogs[fb.String()]; ok && c != nil {
				return c, nil
			}
			c, err = p.load(fb.String())
			if err != nil {
				return nil, err
			}
			if c != nil {
				break
			}
		}
	}
	p.catalogs[locale] = c
	return c, nil
}

func (p *TranslationMemoryProvider) load(locale string) (*catalog, error) {
	r, err := p.opener.Open(locale)
	if err != nil {
		return nil, fmt.Errorf("pomemory: opening %s.po: %w", locale, err)
	}
	if r == nil {
		return nil, nil
	}
	defer r.Close()
	return loadCatalog(r, locale)
}

// DirLocales lists the locales available under dirname, as inferred from
// its "<locale>.po" filenames.
func DirLocales(dirname string) ([]string, error) {
	entries, err := ioutil.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	var locales []string
	for _, fi := range entries {
		name := fi.Name()
		if !fi.IsDir() && strings.HasSuffix(name, ".po") {
			locales = append(locales, strings.TrimSuffix(name, ".po"))
		}
	}
	return locales, nil
}

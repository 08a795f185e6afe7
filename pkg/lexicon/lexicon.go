package lexicon

import (
	"context"
	"strings"
)

// Category classifies the kind of off-platform contact attempt an entry watches for
type Category string

const (
	CategoryMessaging Category = "messaging"
	CategoryPhone     Category = "phone"
	CategoryHandle    Category = "handle"
	CategoryMeeting   Category = "meeting"
)

// DefaultLanguage is the canonical fallback language
const DefaultLanguage = "en"

// DefaultSupportedLanguages lists the languages the app ships lexicons for
var DefaultSupportedLanguages = []string{"en", "es", "fr", "de", "pt"}

// Entry is one phrase or pattern the detector watches for.
// Entries are language scoped and immutable once loaded.
type Entry struct {
	Category Category `json:"category"`
	Language string   `json:"language"`
	Variant  string   `json:"variant"`
	Pattern  string   `json:"pattern"`
	FuzzyKey string   `json:"fuzzy_key,omitempty"`
	Severity int      `json:"severity"`
}

// EffectiveFuzzyKey returns the term used for edit-distance comparison,
// defaulting to the variant when no explicit key is set
func (e Entry) EffectiveFuzzyKey() string {
	if e.FuzzyKey != "" {
		return e.FuzzyKey
	}
	return e.Variant
}

// Fetcher loads lexicon entries from external persistence, keyed by language code
type Fetcher interface {
	FetchEntries(ctx context.Context, language string) ([]Entry, error)
}

// NormalizeLanguage maps an arbitrary language tag onto one of the supported
// languages. Exact matches win, then a 2-letter prefix match, then the default.
func NormalizeLanguage(tag string, supported []string, defaultLanguage string) string {
	if defaultLanguage == "" {
		defaultLanguage = DefaultLanguage
	}
	if len(supported) == 0 {
		supported = DefaultSupportedLanguages
	}

	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return defaultLanguage
	}

	for _, lang := range supported {
		if tag == lang {
			return lang
		}
	}

	if len(tag) >= 2 {
		prefix := tag[:2]
		for _, lang := range supported {
			if strings.HasPrefix(lang, prefix) {
				return lang
			}
		}
	}

	return defaultLanguage
}

// sanitize clamps entry fields to their documented ranges
func sanitize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Severity < 0 {
			e.Severity = 0
		}
		if e.Severity > 100 {
			e.Severity = 100
		}
		out = append(out, e)
	}
	return out
}

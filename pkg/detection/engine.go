package detection

import (
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/lexicon"
	"chatsafety-server/pkg/metrics"
)

// MatchType identifies which rule produced a keyword match
type MatchType string

const (
	MatchTypeRegex MatchType = "regex"
	MatchTypeFuzzy MatchType = "fuzzy"
)

// KeywordMatch is one hit produced by the engine for a single detection call
type KeywordMatch struct {
	Category    lexicon.Category `json:"category"`
	Variant     string           `json:"variant"`
	MatchedText string           `json:"matched_text"`
	Severity    int              `json:"severity"`
	MatchType   MatchType        `json:"match_type"`
}

// EngineConfig holds the tunable matching constants
type EngineConfig struct {
	// MaxEditDistance is the largest Levenshtein distance accepted as a fuzzy match
	MaxEditDistance int

	// MaxLengthDelta prunes fuzzy comparison for tokens whose length differs
	// from the key by more than this many runes
	MaxLengthDelta int
}

// DefaultEngineConfig returns the matching constants the app ships with
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MaxEditDistance: 2,
		MaxLengthDelta:  3,
	}
}

// Engine applies regex and fuzzy comparisons between message text and lexicon
// entries. Safe for concurrent use; compiled patterns are cached per pattern
// string and invalid patterns are reported once per process.
type Engine struct {
	logger *logrus.Logger
	config EngineConfig

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp // nil value marks an invalid pattern
}

// NewEngine creates a match engine
func NewEngine(logger *logrus.Logger, config *EngineConfig) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}

	return &Engine{
		logger:   logger,
		config:   *config,
		compiled: make(map[string]*regexp.Regexp),
	}
}

// Match scans the raw text against the primary entries followed by the
// fallback entries. An entry contributes at most one match; a regex hit is
// authoritative and suppresses the fuzzy comparison for that entry.
// Text that normalizes to zero tokens matches nothing.
func (e *Engine) Match(text string, primary, fallback []lexicon.Entry) []KeywordMatch {
	tokens := Normalize(text)
	if len(tokens) == 0 {
		return nil
	}

	var matches []KeywordMatch
	for _, entry := range primary {
		if m, ok := e.matchEntry(text, tokens, entry); ok {
			matches = append(matches, m)
		}
	}
	for _, entry := range fallback {
		if m, ok := e.matchEntry(text, tokens, entry); ok {
			matches = append(matches, m)
		}
	}

	for _, m := range matches {
		metrics.MatchRecorded(string(m.Category), string(m.MatchType))
	}

	return matches
}

// matchEntry applies the per-entry rules in order: regex first, then fuzzy
func (e *Engine) matchEntry(text string, tokens []string, entry lexicon.Entry) (KeywordMatch, bool) {
	if re := e.compile(entry.Pattern); re != nil {
		if loc := re.FindString(text); loc != "" {
			return KeywordMatch{
				Category:    entry.Category,
				Variant:     entry.Variant,
				MatchedText: loc,
				Severity:    entry.Severity,
				MatchType:   MatchTypeRegex,
			}, true
		}
	}

	key := Fold(entry.EffectiveFuzzyKey())
	if key == "" {
		return KeywordMatch{}, false
	}

	keyLen := len([]rune(key))
	for _, token := range tokens {
		tokenLen := len([]rune(token))
		delta := tokenLen - keyLen
		if delta < 0 {
			delta = -delta
		}
		if delta > e.config.MaxLengthDelta {
			continue
		}

		if Levenshtein(token, key) <= e.config.MaxEditDistance {
			return KeywordMatch{
				Category:    entry.Category,
				Variant:     entry.Variant,
				MatchedText: token,
				Severity:    entry.Severity,
				MatchType:   MatchTypeFuzzy,
			}, true
		}
	}

	return KeywordMatch{}, false
}

// compile returns the cached case-insensitive regexp for pattern, or nil when
// the pattern is empty or does not compile. A broken pattern is logged the
// first time it is seen and skipped afterwards.
func (e *Engine) compile(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if re, ok := e.compiled[pattern]; ok {
		return re
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"pattern": pattern,
			"error":   err,
		}).Warn("Skipping lexicon entry with invalid pattern for regex matching")
		re = nil
	}

	e.compiled[pattern] = re
	return re
}

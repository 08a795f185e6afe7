package detection

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatsafety-server/pkg/lexicon"
)

func newTestEngine() *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewEngine(logger, nil)
}

func TestEngine_RegexMatch(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryPhone, Language: "en", Variant: "call me", Pattern: `\bcall\s*me\b`, Severity: 80},
	}

	matches := engine.Match("Please CALL me tonight", entries, nil)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchTypeRegex, matches[0].MatchType)
	assert.Equal(t, lexicon.CategoryPhone, matches[0].Category)
	assert.Equal(t, "CALL me", matches[0].MatchedText)
	assert.Equal(t, 80, matches[0].Severity)
}

func TestEngine_RegexSuppressesFuzzyForSameEntry(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "telegram", Pattern: `\btelegram\b`, Severity: 85},
	}

	// Text matches the regex AND the token is within edit distance of the key.
	// The entry must still contribute only one match, of type regex.
	matches := engine.Match("message me on telegram", entries, nil)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchTypeRegex, matches[0].MatchType)
}

func TestEngine_FuzzyMatchMisspelling(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "telegram", Pattern: `\btelegram\b`, Severity: 85},
	}

	matches := engine.Match("hit me up on telegrem", entries, nil)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchTypeFuzzy, matches[0].MatchType)
	assert.Equal(t, "telegrem", matches[0].MatchedText)
	assert.Equal(t, lexicon.CategoryMessaging, matches[0].Category)
}

func TestEngine_FuzzyLengthPruning(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		// No usable pattern, fuzzy only
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "telegram", Severity: 85},
	}

	// "tele" is 4 runes shorter than "telegram"; pruned before any distance work
	matches := engine.Match("tele", entries, nil)
	assert.Empty(t, matches)
}

func TestEngine_FuzzyDistanceBound(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "telegram", Severity: 85},
	}

	// distance 2 accepted
	matches := engine.Match("talegrem", entries, nil)
	require.Len(t, matches, 1)

	// distance 3 rejected
	matches = engine.Match("talagrem zzz", []lexicon.Entry{
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "telegrams", Severity: 85},
	}, nil)
	assert.Empty(t, matches)
}

func TestEngine_ConfigurableThresholds(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	engine := NewEngine(logger, &EngineConfig{MaxEditDistance: 0, MaxLengthDelta: 0})

	entries := []lexicon.Entry{
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "telegram", Severity: 85},
	}

	assert.Empty(t, engine.Match("telegrem", entries, nil), "distance 1 rejected at MaxEditDistance 0")
	assert.Len(t, engine.Match("telegram", entries, nil), 1, "exact token still matches")
}

func TestEngine_InvalidPatternFallsBackToFuzzy(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryHandle, Language: "en", Variant: "snapchat", Pattern: `[unclosed`, Severity: 75},
	}

	// Regex is skipped, fuzzy still applies for the same entry
	matches := engine.Match("add me on snapchat", entries, nil)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchTypeFuzzy, matches[0].MatchType)
}

func TestEngine_InvalidPatternDoesNotAbortScan(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryHandle, Language: "en", Variant: "zzzz", Pattern: `[unclosed`, Severity: 10},
		{Category: lexicon.CategoryPhone, Language: "en", Variant: "call me", Pattern: `\bcall\s*me\b`, Severity: 80},
	}

	matches := engine.Match("call me", entries, nil)

	require.Len(t, matches, 1)
	assert.Equal(t, lexicon.CategoryPhone, matches[0].Category)
}

func TestEngine_EmptyTextShortCircuits(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryPhone, Language: "en", Variant: "call me", Pattern: `.*`, Severity: 80},
	}

	assert.Empty(t, engine.Match("", entries, nil))
	assert.Empty(t, engine.Match("   !!! ", entries, nil))
}

func TestEngine_FallbackEntriesScanned(t *testing.T) {
	engine := newTestEngine()
	primary := []lexicon.Entry{
		{Category: lexicon.CategoryPhone, Language: "es", Variant: "llamame", Pattern: `\bll[aá]mame\b`, Severity: 80},
	}
	fallback := []lexicon.Entry{
		{Category: lexicon.CategoryMessaging, Language: "en", Variant: "whatsapp", Pattern: `\bwhats\s*app\b`, Severity: 85},
	}

	matches := engine.Match("llámame por whatsapp", primary, fallback)

	require.Len(t, matches, 2)
	assert.Equal(t, lexicon.CategoryPhone, matches[0].Category)
	assert.Equal(t, lexicon.CategoryMessaging, matches[1].Category)
}

func TestEngine_OneMatchPerEntry(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryPhone, Language: "en", Variant: "call me", Pattern: `\bcall\s*me\b`, Severity: 80},
	}

	// Pattern present twice in the text still yields one match for the entry
	matches := engine.Match("call me, seriously call me", entries, nil)
	assert.Len(t, matches, 1)
}

func TestEngine_DiacriticInsensitiveFuzzyKey(t *testing.T) {
	engine := newTestEngine()
	entries := []lexicon.Entry{
		{Category: lexicon.CategoryPhone, Language: "es", Variant: "teléfono", Severity: 70},
	}

	matches := engine.Match("mi telefono", entries, nil)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchTypeFuzzy, matches[0].MatchType)
}

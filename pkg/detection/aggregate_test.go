package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatsafety-server/pkg/lexicon"
)

func TestAggregateEmpty(t *testing.T) {
	result := Aggregate(nil)

	assert.Empty(t, result.Flags)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Matches)
	assert.False(t, result.HasFlags())
}

func TestAggregateDeduplicatesFlags(t *testing.T) {
	matches := []KeywordMatch{
		{Category: lexicon.CategoryPhone, Variant: "call me", Severity: 80, MatchType: MatchTypeRegex},
		{Category: lexicon.CategoryPhone, Variant: "text me", Severity: 60, MatchType: MatchTypeFuzzy},
		{Category: lexicon.CategoryMessaging, Variant: "telegram", Severity: 85, MatchType: MatchTypeFuzzy},
	}

	result := Aggregate(matches)

	assert.ElementsMatch(t, []lexicon.Category{lexicon.CategoryPhone, lexicon.CategoryMessaging}, result.Flags)
	assert.Len(t, result.Flags, 2)
	assert.Equal(t, matches, result.Matches)
}

func TestAggregateConfidenceIsMaxSeverity(t *testing.T) {
	result := Aggregate([]KeywordMatch{
		{Category: lexicon.CategoryPhone, Severity: 40},
		{Category: lexicon.CategoryMeeting, Severity: 95},
		{Category: lexicon.CategoryHandle, Severity: 10},
	})

	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
}

func TestAggregateConfidenceClamped(t *testing.T) {
	// Severity is clamped at load, but the aggregator still bounds the score
	result := Aggregate([]KeywordMatch{{Category: lexicon.CategoryPhone, Severity: 130}})
	assert.Equal(t, 1.0, result.Confidence)
}

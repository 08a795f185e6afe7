package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain words",
			input:    "call me later",
			expected: []string{"call", "me", "later"},
		},
		{
			name:     "diacritics stripped",
			input:    "llámame por teléfono",
			expected: []string{"llamame", "por", "telefono"},
		},
		{
			name:     "apostrophes removed not split",
			input:    "don't it's",
			expected: []string{"dont", "its"},
		},
		{
			name:     "handles keep @ and +",
			input:    "add @jane.doe or +15551234",
			expected: []string{"add", "@jane", "doe", "or", "+15551234"},
		},
		{
			name:     "punctuation splits",
			input:    "tele-gram,me!now",
			expected: []string{"tele", "gram", "me", "now"},
		},
		{
			name:     "uppercase folded",
			input:    "WhatsApp ME",
			expected: []string{"whatsapp", "me"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   \t\n ",
			expected: nil,
		},
		{
			name:     "punctuation only",
			input:    "?!... --- ",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := Normalize(tc.input)
			if tc.expected == nil {
				assert.Empty(t, tokens)
				return
			}
			assert.Equal(t, tc.expected, tokens)
		})
	}
}

func TestNormalizeIsRestartable(t *testing.T) {
	// Same input yields the same tokens on every call; no state is retained
	first := Normalize("café @home")
	second := Normalize("café @home")
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"cafe", "@home"}, first)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "telefono", Fold("Teléfono"))
	assert.Equal(t, "dont", Fold("Don’t"))
	assert.Equal(t, "", Fold(""))
}

package detection

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFD, drops combining marks and recomposes,
// making comparisons diacritic-insensitive
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics and apostrophes and lower-cases the text.
// Used for both message tokens and entry fuzzy keys so the two sides of an
// edit-distance comparison are in the same form.
func Fold(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		// Transform failures leave the input usable as-is
		folded = text
	}

	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '’':
			return -1
		}
		return r
	}, folded)

	return folded
}

// isTokenRune reports whether r belongs inside a token
func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '@' || r == '+'
}

// Normalize tokenizes text into comparable units: diacritic-stripped,
// lower-cased, split on any run of characters outside [a-z0-9@+].
// Empty tokens are discarded; empty input yields no tokens.
func Normalize(text string) []string {
	folded := Fold(text)
	if folded == "" {
		return nil
	}

	return strings.FieldsFunc(folded, func(r rune) bool {
		return !isTokenRune(r)
	})
}

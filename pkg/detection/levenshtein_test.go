package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	testCases := []struct {
		a, b     string
		distance int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"telegram", "telegram", 0},
		{"telegrem", "telegram", 1},
		{"wattsapp", "whatsapp", 2},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.distance, Levenshtein(tc.a, tc.b), "distance(%q, %q)", tc.a, tc.b)
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"telegram", "telegrem"},
		{"snapchat", "snap"},
		{"kitten", "sitting"},
		{"", "abc"},
	}

	for _, p := range pairs {
		assert.Equal(t, Levenshtein(p[0], p[1]), Levenshtein(p[1], p[0]), "symmetry for %q/%q", p[0], p[1])
	}
}

func TestLevenshteinTriangleInequality(t *testing.T) {
	words := []string{"telegram", "telegrem", "instagram", "snap", "", "whatsapp"}

	for _, a := range words {
		for _, b := range words {
			for _, c := range words {
				ab := Levenshtein(a, b)
				bc := Levenshtein(b, c)
				ac := Levenshtein(a, c)
				assert.LessOrEqual(t, ac, ab+bc, "triangle inequality for %q %q %q", a, b, c)
			}
		}
	}
}

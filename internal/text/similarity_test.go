package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"price", "price", 0},
		{"price", "prices", 1},
		{"sku", "sko", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("price", "price"))
	assert.InDelta(t, 1-1.0/6, Similarity("price", "prices"), 0.001)
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestLevenshteinScorer(t *testing.T) {
	var s LevenshteinScorer
	assert.InDelta(t, Similarity("hoodie", "hoody"), s.Score("hoodie", "hoody"), 0.0001)
}

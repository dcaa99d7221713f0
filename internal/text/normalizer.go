// Package text provides tokenization and cleaning of free text for indexing
// and search.
package text

import (
	"strings"
	"unicode"
)

// Normalizer tokenizes free text: case-fold, strip punctuation, split on
// whitespace, drop stop words. Deterministic and side-effect free; empty or
// unparseable input yields an empty token list, never an error.
type Normalizer struct {
	stopWords map[string]struct{}
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStopWords replaces the default stop-word table. The table is
// configuration, not logic: locale or domain extension swaps it without
// touching tokenization.
func WithStopWords(words []string) Option {
	return func(n *Normalizer) {
		n.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			n.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// NewNormalizer creates a normalizer with the default English stop words.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{}
	WithStopWords(defaultStopWords)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the ordered token sequence for the given text.
func (n *Normalizer) Normalize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation is stripped, not replaced, so "don't" tokenizes
			// as "dont" rather than splitting.
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := n.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}

// Bigrams returns adjacent-pair strings for the token sequence, empty when
// fewer than two tokens are present.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		bigrams = append(bigrams, tokens[i]+" "+tokens[i+1])
	}
	return bigrams
}

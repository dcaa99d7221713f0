// Package search ranks catalog candidates against free-text queries, either
// lexically through the inverted index or semantically through embeddings
// with a deterministic fuzzy fallback.
package search

import (
	"sort"
	"strings"

	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
	"github.com/haggleworks/cartwheel/internal/text"
)

// Scoring weights. Bigram hits outweigh single tokens because a phrase match
// is a stronger signal than bag-of-words; a color-attribute hit is stronger
// still.
const (
	tokenWeight  = 1
	bigramWeight = 2
	colorBonus   = 3

	// colorFuzzyFloor is the similarity a query token needs against a color
	// key to earn the bonus.
	colorFuzzyFloor = 0.8

	// DefaultLimit caps how many lexical results are returned.
	DefaultLimit = 10
)

// Lexical scores and ranks products against a query using the lookup index.
type Lexical struct {
	normalizer *text.Normalizer
	scorer     service.Scorer
	limit      int
}

// NewLexical creates a lexical searcher with the default limit.
func NewLexical() *Lexical {
	return &Lexical{
		normalizer: text.NewNormalizer(),
		scorer:     text.LevenshteinScorer{},
		limit:      DefaultLimit,
	}
}

// Search returns up to the limit of products ranked by descending score.
// An empty result is a valid non-error outcome. Ties break by product id so
// ranking is deterministic across runs.
func (l *Lexical) Search(query string, index *model.LookupIndex, products []model.Product) []model.Product {
	if index == nil || len(products) == 0 {
		return nil
	}

	tokens := l.normalizer.Normalize(query)
	if len(tokens) == 0 {
		return nil
	}

	byID := make(map[string]*model.Product, len(products))
	variantOwner := make(map[string]string)
	for i := range products {
		p := &products[i]
		if !p.IsActive {
			continue
		}
		byID[p.ID] = p
		for _, v := range p.Variants {
			variantOwner[v.ID] = p.ID
		}
	}

	scores := make(map[string]int)

	for _, token := range tokens {
		for _, productID := range index.TokenMap[token] {
			if _, ok := byID[productID]; ok {
				scores[productID] += tokenWeight
			}
		}
	}

	for _, bigram := range text.Bigrams(tokens) {
		for _, productID := range index.BigramMap[bigram] {
			if _, ok := byID[productID]; ok {
				scores[productID] += bigramWeight
			}
		}
	}

	l.applyColorBonus(tokens, index, variantOwner, byID, scores)

	ranked := make([]string, 0, len(scores))
	for id := range scores {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > l.limit {
		ranked = ranked[:l.limit]
	}

	results := make([]model.Product, 0, len(ranked))
	for _, id := range ranked {
		results = append(results, *byID[id])
	}
	return results
}

// applyColorBonus awards the color bonus to candidates owning a variant
// whose color attribute fuzzy-matches a query token.
func (l *Lexical) applyColorBonus(tokens []string, index *model.LookupIndex, variantOwner map[string]string, byID map[string]*model.Product, scores map[string]int) {
	for key, variantIDs := range index.AttributeMap {
		value, ok := strings.CutPrefix(key, "color:")
		if !ok {
			continue
		}

		matched := false
		for _, token := range tokens {
			if l.scorer.Score(token, value) >= colorFuzzyFloor {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		for _, variantID := range variantIDs {
			owner := variantOwner[variantID]
			if _, inCandidates := byID[owner]; !inCandidates {
				continue
			}
			if _, alreadyScored := scores[owner]; alreadyScored {
				scores[owner] += colorBonus
			}
		}
	}
}

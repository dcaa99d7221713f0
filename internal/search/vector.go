package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
)

// DefaultVectorThreshold is the minimum cosine similarity a semantic result
// must score to qualify. Product decision carried as a named constant.
const DefaultVectorThreshold = 0.7

// Scored pairs a product with its similarity score.
type Scored struct {
	Product model.Product
	Score   float64
}

// Options configures a vector search call.
type Options struct {
	UseVector bool
	Threshold float64
	Limit     int
}

// Vector ranks products by embedding similarity, degrading to a
// deterministic token-overlap fuzzy score whenever embeddings are
// unavailable. Availability over precision: a provider outage must never
// surface as a search failure.
type Vector struct {
	embedder service.Embedder
	cache    *embedCache
	logger   *slog.Logger
}

// NewVector creates a vector searcher. A nil embedder is allowed and forces
// the fuzzy fallback path.
func NewVector(embedder service.Embedder, logger *slog.Logger) *Vector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Vector{
		embedder: embedder,
		cache:    newEmbedCache(defaultCacheSize),
		logger:   logger,
	}
}

// Search returns products scoring at or above the threshold, best first,
// capped at opts.Limit.
func (v *Vector) Search(ctx context.Context, products []model.Product, query string, opts Options) []Scored {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultVectorThreshold
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	query = strings.TrimSpace(query)
	if query == "" || len(products) == 0 {
		return nil
	}

	if opts.UseVector && v.embedder != nil {
		results, err := v.semanticSearch(ctx, products, query, opts)
		if err == nil {
			return results
		}
		v.logger.Warn("embedding search failed, falling back to fuzzy scoring", "error", err)
	}

	return v.fuzzySearch(products, query, opts.Limit)
}

// semanticSearch embeds the query and each product's search text, ranking by
// cosine similarity.
func (v *Vector) semanticSearch(ctx context.Context, products []model.Product, query string, opts Options) ([]Scored, error) {
	queryVec, err := v.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]Scored, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}

		productVec, embedErr := v.embed(ctx, p.SearchString)
		if embedErr != nil {
			return nil, embedErr
		}

		score, simErr := CosineSimilarity(queryVec, productVec)
		if simErr != nil {
			// Mismatched dimensions is a programming-contract violation,
			// not a recoverable provider hiccup.
			return nil, simErr
		}

		if score >= opts.Threshold {
			results = append(results, Scored{Product: p, Score: score})
		}
	}

	sortScored(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// fuzzySearch is the deterministic fallback: the fraction of query words (of
// at least two characters) present in the product's search text. Only
// strictly positive scores qualify.
func (v *Vector) fuzzySearch(products []model.Product, query string, limit int) []Scored {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	results := make([]Scored, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}

		hits := 0
		for _, word := range words {
			if len(word) < 2 {
				continue
			}
			if strings.Contains(p.SearchString, word) {
				hits++
			}
		}

		score := float64(hits) / float64(len(words))
		if score > 0 {
			results = append(results, Scored{Product: p, Score: score})
		}
	}

	sortScored(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// embed returns the vector for the text, consulting the bounded cache first.
func (v *Vector) embed(ctx context.Context, s string) ([]float32, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))

	if vec, ok := v.cache.get(key); ok {
		return vec, nil
	}

	vec, err := v.embedder.Embed(ctx, key)
	if err != nil {
		return nil, err
	}

	v.cache.set(key, vec)
	return vec, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Vectors of different dimensions are a caller bug and fail loudly.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty vectors")
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func sortScored(results []Scored) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Product.ID < results[j].Product.ID
	})
}

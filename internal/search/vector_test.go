package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func TestVector_SemanticPath(t *testing.T) {
	products := demoCatalog()

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"red hoodie": {1, 0, 0},
		products[0].SearchString: {0.95, 0.05, 0},
		products[1].SearchString: {0, 1, 0},
		products[2].SearchString: {0, 0, 1},
	}}

	v := NewVector(embedder, nil)
	results := v.Search(context.Background(), products, "red hoodie", Options{UseVector: true})

	require.Len(t, results, 1)
	assert.Equal(t, "p-hoodie", results[0].Product.ID)
	assert.GreaterOrEqual(t, results[0].Score, DefaultVectorThreshold)
}

func TestVector_FallbackOnEmbedderError(t *testing.T) {
	products := demoCatalog()
	embedder := &stubEmbedder{err: errors.New("provider down")}

	v := NewVector(embedder, nil)
	results := v.Search(context.Background(), products, "red hoodie", Options{UseVector: true})

	// Token-overlap fallback still finds the hoodie.
	require.NotEmpty(t, results)
	assert.Equal(t, "p-hoodie", results[0].Product.ID)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestVector_FallbackWhenVectorDisabled(t *testing.T) {
	products := demoCatalog()
	embedder := &stubEmbedder{}

	v := NewVector(embedder, nil)
	results := v.Search(context.Background(), products, "coffee mug", Options{UseVector: false})

	require.NotEmpty(t, results)
	assert.Equal(t, "p-mug", results[0].Product.ID)
	assert.Zero(t, embedder.calls)
}

func TestVector_NilEmbedderFallsBack(t *testing.T) {
	products := demoCatalog()

	v := NewVector(nil, nil)
	results := v.Search(context.Background(), products, "hat", Options{UseVector: true})

	require.NotEmpty(t, results)
	assert.Equal(t, "p-hat", results[0].Product.ID)
}

func TestVector_FuzzyScoreRules(t *testing.T) {
	products := demoCatalog()
	v := NewVector(nil, nil)

	t.Run("zero-overlap queries yield nothing", func(t *testing.T) {
		assert.Empty(t, v.Search(context.Background(), products, "xyzzy plugh", Options{}))
	})

	t.Run("single-char words do not count as hits", func(t *testing.T) {
		// "a" is under the 2-char floor; only "mug" can hit.
		results := v.Search(context.Background(), products, "a mug", Options{})
		require.NotEmpty(t, results)
		assert.InDelta(t, 0.5, results[0].Score, 0.001)
	})
}

func TestVector_EmbedsAreCached(t *testing.T) {
	products := demoCatalog()[:1]
	embedder := &stubEmbedder{vectors: map[string][]float32{}}

	v := NewVector(embedder, nil)
	v.Search(context.Background(), products, "hoodie", Options{UseVector: true})
	first := embedder.calls
	v.Search(context.Background(), products, "hoodie", Options{UseVector: true})

	assert.Equal(t, first, embedder.calls, "repeat searches must hit the cache")
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical direction", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 0.0001)
	})

	t.Run("orthogonal", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 0.0001)
	})

	t.Run("dimension mismatch fails fast", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
		assert.Error(t, err)
	})
}

func TestEmbedCacheLRU(t *testing.T) {
	c := newEmbedCache(2)

	c.set("a", []float32{1})
	c.set("b", []float32{2})
	c.set("c", []float32{3})

	assert.Equal(t, 2, c.size())
	_, ok := c.get("a")
	assert.False(t, ok, "oldest entry evicted at capacity")

	vec, ok := c.get("c")
	require.True(t, ok)
	assert.Equal(t, []float32{3}, vec)
}

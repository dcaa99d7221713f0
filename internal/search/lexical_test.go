package search

import (
	"testing"

	"github.com/haggleworks/cartwheel/internal/ingest"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoCatalog() []model.Product {
	products := []model.Product{
		{
			ID: "p-hoodie", Name: "Hoodie", SKU: "HD-1", IsActive: true,
			Variants: []model.Variant{
				{ID: "v-red-l", Title: "Red / Large"},
				{ID: "v-blue-m", Title: "Blue / Medium"},
			},
		},
		{
			ID: "p-hat", Name: "Canvas Hat", SKU: "HT-1", IsActive: true,
			Variants: []model.Variant{{ID: "v-hat", Title: "One Size"}},
		},
		{
			ID: "p-mug", Name: "Coffee Mug", SKU: "MG-1", IsActive: true,
			Variants: []model.Variant{{ID: "v-mug"}},
		},
	}
	for i := range products {
		products[i].RebuildSearchString()
	}
	return products
}

func demoIndex(t *testing.T, products []model.Product) *model.LookupIndex {
	t.Helper()
	return ingest.NewEngine(nil).BuildLookupIndex(products)
}

func TestLexical_Search(t *testing.T) {
	products := demoCatalog()
	index := demoIndex(t, products)
	l := NewLexical()

	t.Run("token match ranks the right product first", func(t *testing.T) {
		results := l.Search("hoodie", index, products)
		require.NotEmpty(t, results)
		assert.Equal(t, "p-hoodie", results[0].ID)
	})

	t.Run("bigram match outranks single-token match", func(t *testing.T) {
		results := l.Search("canvas hat", index, products)
		require.NotEmpty(t, results)
		assert.Equal(t, "p-hat", results[0].ID)
	})

	t.Run("color token boosts the owning product", func(t *testing.T) {
		results := l.Search("red hoodie", index, products)
		require.NotEmpty(t, results)
		assert.Equal(t, "p-hoodie", results[0].ID)
	})

	t.Run("no hits is an empty non-error result", func(t *testing.T) {
		results := l.Search("xyzzy plugh", index, products)
		assert.Empty(t, results)
	})

	t.Run("empty query yields nothing", func(t *testing.T) {
		assert.Empty(t, l.Search("", index, products))
	})

	t.Run("inactive products are never returned", func(t *testing.T) {
		inactive := demoCatalog()
		inactive[0].IsActive = false
		results := l.Search("hoodie", demoIndex(t, inactive), inactive)
		for _, r := range results {
			assert.NotEqual(t, "p-hoodie", r.ID)
		}
	})
}

func TestLexical_DeterministicTieBreak(t *testing.T) {
	products := []model.Product{
		{ID: "b", Name: "Widget", IsActive: true},
		{ID: "a", Name: "Widget", IsActive: true},
		{ID: "c", Name: "Widget", IsActive: true},
	}
	index := demoIndex(t, products)
	l := NewLexical()

	for i := 0; i < 5; i++ {
		results := l.Search("widget", index, products)
		require.Len(t, results, 3)
		assert.Equal(t, "a", results[0].ID)
		assert.Equal(t, "b", results[1].ID)
		assert.Equal(t, "c", results[2].ID)
	}
}

func TestLexical_LimitCap(t *testing.T) {
	products := make([]model.Product, 0, 15)
	for i := 0; i < 15; i++ {
		products = append(products, model.Product{
			ID:       string(rune('a' + i)),
			Name:     "Widget",
			IsActive: true,
		})
	}
	index := demoIndex(t, products)

	results := NewLexical().Search("widget", index, products)
	assert.Len(t, results, DefaultLimit)
}

package ingest

import (
	"context"
	"testing"

	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Ingest(t *testing.T) {
	e := NewEngine(nil)
	ctx := context.Background()

	raw := []model.Product{
		{Name: "Red Hoodie", SKU: "HD-1", Price: 29.99},
		{Name: "", SKU: "BAD-1"},
		{Name: "Canvas Hat", SKU: "HT-2", Price: 15},
	}

	result, err := e.Ingest(ctx, raw)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Products, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)

	for _, p := range result.Products {
		assert.NotEmpty(t, p.ID, "accepted records get defaulted ids")
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.SearchString)
		require.NotEmpty(t, p.Variants, "every product gets at least one variant")
		assert.NotEmpty(t, p.Variants[0].ID)
		assert.Equal(t, p.SKU, p.Variants[0].SKU)
	}

	// Distinct records must never share an id.
	assert.NotEqual(t, result.Products[0].ID, result.Products[1].ID)
}

func TestEngine_Ingest_CanceledContext(t *testing.T) {
	e := NewEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Ingest(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_BuildLookupIndex(t *testing.T) {
	e := NewEngine(nil)

	products := []model.Product{
		{
			ID:   "p1",
			Name: "Red Hoodie",
			Variants: []model.Variant{
				{ID: "v1", Title: "Red / Large"},
				{ID: "v2", Title: "Blue / Small"},
			},
		},
		{
			ID:   "p2",
			Name: "Hoodie Classic",
			Variants: []model.Variant{
				{ID: "v3", Options: []model.VariantOption{
					{Name: "Color", Value: "Green"},
					{Name: "Size", Value: "M"},
				}},
			},
		},
	}

	index := e.BuildLookupIndex(products)

	assert.Equal(t, 2, index.ProductCount)
	assert.Equal(t, 3, index.VariantCount)
	assert.False(t, index.LastIndexedAt.IsZero())

	// Every token of every product name maps back to that product.
	assert.ElementsMatch(t, []string{"p1", "p2"}, index.TokenMap["hoodie"])
	assert.Equal(t, []string{"p1"}, index.TokenMap["red"])
	assert.Equal(t, []string{"p2"}, index.TokenMap["classic"])

	assert.Equal(t, []string{"p1"}, index.BigramMap["red hoodie"])
	assert.Equal(t, []string{"p2"}, index.BigramMap["hoodie classic"])

	// Heuristic detection over variant titles.
	assert.Equal(t, []string{"v1"}, index.AttributeMap["color:red"])
	assert.Equal(t, []string{"v1"}, index.AttributeMap["size:large"])
	assert.Equal(t, []string{"v2"}, index.AttributeMap["color:blue"])
	// Explicit options.
	assert.Equal(t, []string{"v3"}, index.AttributeMap["color:green"])
	assert.Equal(t, []string{"v3"}, index.AttributeMap["size:m"])
}

func TestEngine_BuildLookupIndex_PureAndRebuildable(t *testing.T) {
	e := NewEngine(nil)

	products := []model.Product{
		{ID: "p1", Name: "Red Hoodie", Variants: []model.Variant{{ID: "v1"}}},
	}

	first := e.BuildLookupIndex(products)
	second := e.BuildLookupIndex(products)

	assert.Equal(t, first.TokenMap, second.TokenMap)
	assert.Equal(t, first.BigramMap, second.BigramMap)
	assert.Equal(t, first.AttributeMap, second.AttributeMap)
	assert.Equal(t, first.ProductCount, second.ProductCount)
}

func TestEngine_BuildLookupIndex_ProductCountProperty(t *testing.T) {
	e := NewEngine(nil)

	products := []model.Product{
		{ID: "a", Name: "Alpha Widget"},
		{ID: "b", Name: "Beta Widget"},
		{ID: "c", Name: "Gamma Gadget"},
	}

	index := e.BuildLookupIndex(products)
	assert.Equal(t, len(products), index.ProductCount)

	n := e.normalizer
	for _, p := range products {
		for _, token := range n.Normalize(p.Name) {
			assert.Contains(t, index.TokenMap[token], p.ID)
		}
	}
}

func TestEngine_CustomTables(t *testing.T) {
	e := NewEngineWithTables(nil, Tables{Colors: []string{"crimson"}, Sizes: []string{"venti"}})

	products := []model.Product{
		{ID: "p1", Name: "Tumbler", Variants: []model.Variant{{ID: "v1", Title: "Crimson Venti"}}},
	}

	index := e.BuildLookupIndex(products)
	assert.Equal(t, []string{"v1"}, index.AttributeMap["color:crimson"])
	assert.Equal(t, []string{"v1"}, index.AttributeMap["size:venti"])
}

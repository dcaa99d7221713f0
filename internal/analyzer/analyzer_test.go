package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haggleworks/cartwheel/internal/ingest"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
)

type stubClient struct {
	response string
	err      error
}

func (c *stubClient) Complete(_ context.Context, _ service.CompletionRequest) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func demoCatalog(t *testing.T) *model.CatalogSnapshot {
	t.Helper()

	products := []model.Product{
		{
			ID:       "p-hoodie",
			Name:     "Hoodie",
			SKU:      "HD-100",
			Price:    40,
			IsActive: true,
			Variants: []model.Variant{
				{
					ID:    "v-red-l",
					SKU:   "HD-100-RL",
					Title: "Red / Large",
					Options: []model.VariantOption{
						{Name: "Color", Value: "Red"},
						{Name: "Size", Value: "Large"},
					},
					Price:    45,
					IsActive: true,
				},
			},
		},
		{
			ID:       "p-hat",
			Name:     "Baseball Hat",
			SKU:      "HT-200",
			Price:    15,
			IsActive: true,
			Variants: []model.Variant{
				{ID: "v-hat", SKU: "HT-200-1", IsActive: true},
			},
		},
	}
	for i := range products {
		products[i].RebuildSearchString()
	}

	return &model.CatalogSnapshot{
		Index:    ingest.NewEngine(nil).BuildLookupIndex(products),
		Products: products,
	}
}

const hoodieDraft = `{
	"intent_detected": true,
	"confidence": 0.6,
	"product_title": "hoodie",
	"variant_title": "red large",
	"quantity": 2,
	"reasoning": "customer committed to buying"
}`

func TestAnalyzeBoostsConfidenceOnCatalogMatch(t *testing.T) {
	a := New(&stubClient{response: hoodieDraft}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"I'll take 2 of the red hoodie in large"}, demoCatalog(t))

	assert.True(t, result.IntentDetected)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Equal(t, "p-hoodie", result.ProductID)
	assert.Equal(t, "Hoodie", result.ProductTitle)
	assert.Equal(t, "v-red-l", result.VariantID)
	assert.Equal(t, 2, result.Quantity)
	assert.InDelta(t, 90, result.TotalValue, 1e-9)
}

func TestAnalyzePenalizesConfidenceOnMiss(t *testing.T) {
	draft := `{
		"intent_detected": true,
		"confidence": 0.6,
		"product_title": "antigravity skateboard",
		"variant_title": "",
		"quantity": 1,
		"reasoning": "customer committed to buying"
	}`
	a := New(&stubClient{response: draft}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"I'll buy the antigravity skateboard"}, demoCatalog(t))

	assert.True(t, result.IntentDetected)
	assert.InDelta(t, 0.4, result.Confidence, 1e-9)
	assert.Empty(t, result.ProductID)
	assert.Empty(t, result.VariantID)
	assert.Contains(t, result.Reasoning, "warning:")
}

func TestAnalyzeMissFloorsConfidence(t *testing.T) {
	draft := `{
		"intent_detected": true,
		"confidence": 0.35,
		"product_title": "antigravity skateboard",
		"quantity": 1
	}`
	a := New(&stubClient{response: draft}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"buy skateboard"}, demoCatalog(t))
	assert.InDelta(t, 0.3, result.Confidence, 1e-9)
}

func TestAnalyzeMatchBoostIsCapped(t *testing.T) {
	draft := `{
		"intent_detected": true,
		"confidence": 0.97,
		"product_title": "hoodie",
		"quantity": 1
	}`
	a := New(&stubClient{response: draft}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"I'll take the hoodie"}, demoCatalog(t))
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestAnalyzeNoIntentZeroesProductFields(t *testing.T) {
	draft := `{
		"intent_detected": false,
		"confidence": 0.9,
		"product_title": "hoodie",
		"quantity": 3,
		"reasoning": "just browsing"
	}`
	a := New(&stubClient{response: draft}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"nice hoodie"}, demoCatalog(t))

	assert.False(t, result.IntentDetected)
	assert.Empty(t, result.ProductID)
	assert.Empty(t, result.ProductTitle)
	assert.Zero(t, result.Quantity)
	assert.Zero(t, result.TotalValue)
}

func TestAnalyzeLLMFailureFallsBackToLocalParser(t *testing.T) {
	a := New(&stubClient{err: errors.New("provider down")}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"I'll take 2 of the red hoodie in large"}, demoCatalog(t))

	require.True(t, result.IntentDetected)
	assert.Equal(t, "p-hoodie", result.ProductID)
	assert.Equal(t, "v-red-l", result.VariantID)
	assert.Equal(t, 2, result.Quantity)
	// Fallback confidence 0.75 plus the 0.1 match boost.
	assert.InDelta(t, 0.85, result.Confidence, 1e-9)
	assert.Contains(t, result.Reasoning, "local parser")
}

func TestAnalyzeNilClientUsesLocalParser(t *testing.T) {
	a := New(nil, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"how much for the hat"}, demoCatalog(t))
	assert.False(t, result.IntentDetected, "an inquiry is not a purchase commitment")
}

func TestAnalyzeEmptyCatalog(t *testing.T) {
	a := New(&stubClient{response: hoodieDraft}, nil, DefaultConfig(), nil)

	result := a.Analyze(context.Background(), []string{"I'll take the hoodie"}, &model.CatalogSnapshot{})

	assert.True(t, result.IntentDetected)
	assert.InDelta(t, 0.4, result.Confidence, 1e-9)
	assert.Contains(t, result.Reasoning, "catalog is empty")
}

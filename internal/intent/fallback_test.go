package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haggleworks/cartwheel/internal/model"
)

func TestParseLocalPurchaseMessage(t *testing.T) {
	result := parseLocal("I'll take 2 of the red hoodie in large")

	assert.Equal(t, model.IntentPurchase, result.CustomerIntent)
	assert.True(t, result.FromFallback)
	require.Len(t, result.Orders, 1)

	order := result.Orders[0]
	assert.Equal(t, "hoodie", order.ProductName)
	assert.Equal(t, 2, order.Quantity)
	assert.Contains(t, order.Variant, "red")
	assert.Contains(t, order.Variant, "large")
	assert.InDelta(t, FallbackConfidenceWithProduct, order.ConfidenceScore, 1e-9)
}

func TestParseLocalInquiry(t *testing.T) {
	result := parseLocal("how much for the hat")

	assert.Equal(t, model.IntentInquiry, result.CustomerIntent)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "hat", result.Orders[0].ProductName)
	assert.InDelta(t, FallbackConfidenceWithProduct, result.Orders[0].ConfidenceScore, 1e-9)
}

func TestParseLocalInquiryBeatsPurchaseVerbs(t *testing.T) {
	// "how much" wins even though "get" is a commitment verb.
	result := parseLocal("how much is it if I get the mug?")
	assert.Equal(t, model.IntentInquiry, result.CustomerIntent)
}

func TestParseLocalShipping(t *testing.T) {
	result := parseLocal("has my package shipped yet?")

	assert.Equal(t, model.IntentShippingUpdate, result.CustomerIntent)
	require.Len(t, result.Orders, 1)
	assert.Empty(t, result.Orders[0].ProductName)
	assert.InDelta(t, FallbackConfidenceBare, result.Orders[0].ConfidenceScore, 1e-9)
}

func TestParseLocalUnknown(t *testing.T) {
	result := parseLocal("hello there, nice weather today")

	assert.Equal(t, model.IntentUnknown, result.CustomerIntent)
	assert.Empty(t, result.Orders)
}

func TestParseLocalPriceAndQuantity(t *testing.T) {
	result := parseLocal("I want three blue mugs, $45 each")

	require.Len(t, result.Orders, 1)
	order := result.Orders[0]
	assert.Equal(t, "mugs", order.ProductName)
	assert.Equal(t, 3, order.Quantity)
	assert.InDelta(t, 45.0, order.PriceMentioned, 1e-9)
	assert.Equal(t, "blue", order.Variant)
}

func TestParseLocalPriceNotReadAsQuantity(t *testing.T) {
	result := parseLocal("I'll buy the hat, $12.50 works for me")

	require.Len(t, result.Orders, 1)
	assert.Equal(t, 1, result.Orders[0].Quantity)
	assert.InDelta(t, 12.50, result.Orders[0].PriceMentioned, 1e-9)
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		message  string
		expected int
	}{
		{"give me 4 of those", 4},
		{"I'll take two hoodies", 2},
		{"I'll take the hoodie", 1},
		{"ten please", 10},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractQuantity(tt.message))
		})
	}
}

func TestExtractVariantOrdersColorsFirst(t *testing.T) {
	assert.Equal(t, "red large", extractVariant("the large red one"))
	assert.Equal(t, "navy xl", extractVariant("xl in navy"))
	assert.Empty(t, extractVariant("just the mug"))
}

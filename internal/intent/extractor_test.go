package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
)

// stubClient returns a canned completion or error.
type stubClient struct {
	response string
	err      error
	calls    int
}

func (c *stubClient) Complete(_ context.Context, _ service.CompletionRequest) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func TestParseUsesLLMResponse(t *testing.T) {
	client := &stubClient{response: `{
		"customer_intent": "purchase",
		"orders": [
			{"product_name": "Hoodie", "variant": "Red / Large", "quantity": 2, "price_mentioned": 0, "confidence_score": 0.92}
		]
	}`}
	extractor := NewExtractor(client, nil)

	result := extractor.Parse(context.Background(), "I'll take 2 red hoodies in large")

	assert.False(t, result.FromFallback)
	assert.Equal(t, model.IntentPurchase, result.CustomerIntent)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "Hoodie", result.Orders[0].ProductName)
	assert.Equal(t, 2, result.Orders[0].Quantity)
	assert.InDelta(t, 0.92, result.Orders[0].ConfidenceScore, 1e-9)
}

func TestParseAcceptsFencedJSON(t *testing.T) {
	client := &stubClient{response: "```json\n{\"customer_intent\": \"inquiry\", \"orders\": []}\n```"}
	extractor := NewExtractor(client, nil)

	result := extractor.Parse(context.Background(), "how much for the hat")

	assert.False(t, result.FromFallback)
	assert.Equal(t, model.IntentInquiry, result.CustomerIntent)
	assert.Empty(t, result.Orders)
}

func TestParseFallsBackOnClientError(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	extractor := NewExtractor(client, nil)

	result := extractor.Parse(context.Background(), "I'll take 2 of the red hoodie in large")

	assert.True(t, result.FromFallback)
	assert.Equal(t, model.IntentPurchase, result.CustomerIntent)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "hoodie", result.Orders[0].ProductName)
}

func TestParseFallsBackOnMissingOrders(t *testing.T) {
	// A response without the orders array is rejected even though it is
	// valid JSON.
	client := &stubClient{response: `{"customer_intent": "purchase"}`}
	extractor := NewExtractor(client, nil)

	result := extractor.Parse(context.Background(), "I want the hat")

	assert.True(t, result.FromFallback)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "hat", result.Orders[0].ProductName)
}

func TestParseFallsBackOnMalformedJSON(t *testing.T) {
	client := &stubClient{response: "sure! here's what I found:"}
	extractor := NewExtractor(client, nil)

	result := extractor.Parse(context.Background(), "I want the hat")
	assert.True(t, result.FromFallback)
}

func TestParseNilClientUsesLocalParser(t *testing.T) {
	extractor := NewExtractor(nil, nil)

	result := extractor.Parse(context.Background(), "I'll take the mug")
	assert.True(t, result.FromFallback)
}

func TestParseEmptyMessage(t *testing.T) {
	extractor := NewExtractor(&stubClient{}, nil)

	result := extractor.Parse(context.Background(), "   ")
	assert.Equal(t, model.IntentUnknown, result.CustomerIntent)
	assert.Empty(t, result.Orders)
}

func TestParseResponseRejectsPartialOrders(t *testing.T) {
	_, err := parseResponse(`{
		"customer_intent": "purchase",
		"orders": [{"variant": "large", "quantity": 2}]
	}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partially shaped")
}

func TestParseResponseDefaultsAndClamps(t *testing.T) {
	result, err := parseResponse(`{
		"customer_intent": "PURCHASE",
		"orders": [{"product_name": "Mug", "confidence_score": 1.4}]
	}`)
	require.NoError(t, err)
	assert.Equal(t, model.IntentPurchase, result.CustomerIntent)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, 1, result.Orders[0].Quantity)
	assert.InDelta(t, 1.0, result.Orders[0].ConfidenceScore, 1e-9)
}

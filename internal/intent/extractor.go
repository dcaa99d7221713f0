// Package intent turns raw customer messages into structured order drafts.
//
// The primary path is a single LLM completion with a strict JSON contract.
// Any failure there, network, timeout, or a malformed response, degrades to
// a local deterministic parser. The extractor always returns something
// usable; availability beats precision at this boundary.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/llm"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
)

const extractionSystemPrompt = `You extract purchase intent from customer chat messages for a seller.

Respond with ONLY valid JSON, no markdown, no explanations:
{
  "customer_intent": "purchase" | "inquiry" | "shipping_update" | "unknown",
  "orders": [
    {
      "product_name": "name of the product mentioned",
      "variant": "size/color/style mentioned, empty string if none",
      "quantity": 1,
      "price_mentioned": 0,
      "confidence_score": 0.95
    }
  ]
}

Rules:
- "orders" must always be present, as an empty array when no product is mentioned
- quantity defaults to 1 when not stated
- price_mentioned is 0 unless the customer names a price
- confidence_score is your certainty from 0 to 1`

// Extractor parses customer messages into IntentResults.
type Extractor struct {
	client service.CompletionClient
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil client disables the LLM path
// and every message goes through the local parser.
func NewExtractor(client service.CompletionClient, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// Parse extracts intent from a single customer message.
func (e *Extractor) Parse(ctx context.Context, message string) model.IntentResult {
	if strings.TrimSpace(message) == "" {
		return model.IntentResult{CustomerIntent: model.IntentUnknown, FromFallback: true}
	}

	if e.client == nil {
		return parseLocal(message)
	}

	result, err := e.parseLLM(ctx, message)
	if err != nil {
		e.logger.Warn("LLM intent extraction failed, using local parser", "error", err)
		return parseLocal(message)
	}
	return result
}

// parseLLM runs the completion path with bounded retry and strict
// response validation.
func (e *Extractor) parseLLM(ctx context.Context, message string) (model.IntentResult, error) {
	var completion string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		completion, callErr = e.client.Complete(ctx, service.CompletionRequest{
			System: extractionSystemPrompt,
			Prompt: fmt.Sprintf("Customer message: %q", message),
		})
		return callErr
	}, service.RetryOptions{MaxAttempts: 2})
	if err != nil {
		return model.IntentResult{}, fmt.Errorf("completion failed: %w", err)
	}

	return parseResponse(completion)
}

// llmOrder mirrors one order object in the response contract.
type llmOrder struct {
	ProductName     *string  `json:"product_name"`
	Variant         string   `json:"variant"`
	Quantity        int      `json:"quantity"`
	PriceMentioned  float64  `json:"price_mentioned"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// llmIntentResponse mirrors the full response contract. Orders is a
// pointer so a response missing the key entirely is distinguishable from
// an empty array and rejected.
type llmIntentResponse struct {
	CustomerIntent string      `json:"customer_intent"`
	Orders         *[]llmOrder `json:"orders"`
}

// parseResponse validates the completion against the contract. A response
// missing the orders array, or containing a partially shaped order, is
// rejected outright rather than patched up.
func parseResponse(completion string) (model.IntentResult, error) {
	cleaned := llm.CleanMarkdownWrapper(completion)

	var resp llmIntentResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return model.IntentResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}
	if resp.Orders == nil {
		return model.IntentResult{}, fmt.Errorf("%w: response missing orders array", common.ErrExtractionFailed)
	}

	result := model.IntentResult{
		CustomerIntent: normalizeIntent(resp.CustomerIntent),
		Orders:         make([]model.ParsedOrder, 0, len(*resp.Orders)),
	}

	for i, order := range *resp.Orders {
		if order.ProductName == nil || order.ConfidenceScore == nil {
			return model.IntentResult{}, fmt.Errorf("%w: order %d is partially shaped", common.ErrExtractionFailed, i)
		}
		quantity := order.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		result.Orders = append(result.Orders, model.ParsedOrder{
			ProductName:     strings.TrimSpace(*order.ProductName),
			Variant:         strings.TrimSpace(order.Variant),
			Quantity:        quantity,
			PriceMentioned:  order.PriceMentioned,
			ConfidenceScore: clampConfidence(*order.ConfidenceScore),
		})
	}
	return result, nil
}

func normalizeIntent(raw string) model.CustomerIntent {
	switch model.CustomerIntent(strings.ToLower(strings.TrimSpace(raw))) {
	case model.IntentPurchase:
		return model.IntentPurchase
	case model.IntentInquiry:
		return model.IntentInquiry
	case model.IntentShippingUpdate:
		return model.IntentShippingUpdate
	default:
		return model.IntentUnknown
	}
}

func clampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

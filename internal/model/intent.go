package model

// CustomerIntent classifies what a customer message is trying to accomplish.
type CustomerIntent string

// Customer intent classes.
const (
	IntentPurchase       CustomerIntent = "purchase"
	IntentInquiry        CustomerIntent = "inquiry"
	IntentShippingUpdate CustomerIntent = "shipping_update"
	IntentUnknown        CustomerIntent = "unknown"
)

// ParsedOrder is one order candidate extracted from a customer message.
// Transient: produced per message and carried only into the session's
// AnalysisResult, never persisted on its own.
type ParsedOrder struct {
	ProductName     string  `json:"product_name"`
	Variant         string  `json:"variant,omitempty"`
	Quantity        int     `json:"quantity"`
	PriceMentioned  float64 `json:"price_mentioned,omitempty"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// IntentResult is the full extraction output for a single message.
type IntentResult struct {
	CustomerIntent CustomerIntent `json:"customer_intent"`
	Orders         []ParsedOrder  `json:"orders"`
	// FromFallback marks results produced by the local parser rather than
	// the LLM path.
	FromFallback bool `json:"-"`
}

// TopOrder returns the highest-confidence extracted order, or nil when the
// message contained none.
func (r IntentResult) TopOrder() *ParsedOrder {
	if len(r.Orders) == 0 {
		return nil
	}
	best := 0
	for i := range r.Orders {
		if r.Orders[i].ConfidenceScore > r.Orders[best].ConfidenceScore {
			best = i
		}
	}
	return &r.Orders[best]
}

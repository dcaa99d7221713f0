package model

// AnalysisResult is the stable contract consumed by every UI surface.
// When IntentDetected is false, all product and variant fields are empty and
// Quantity is zero. When ProductID is set it references a product that exists
// in the catalog the analyzer was called with.
type AnalysisResult struct {
	IntentDetected bool    `json:"intent_detected"`
	Confidence     float64 `json:"confidence"`
	ProductID      string  `json:"product_id,omitempty"`
	VariantID      string  `json:"variant_id,omitempty"`
	ProductTitle   string  `json:"product_title,omitempty"`
	VariantTitle   string  `json:"variant_title,omitempty"`
	Quantity       int     `json:"quantity"`
	TotalValue     float64 `json:"total_value"`
	TriggerMessage string  `json:"trigger_message,omitempty"`
	Reasoning      string  `json:"reasoning,omitempty"`
}

// ProductMatch is a confirmed catalog match for an extracted order.
type ProductMatch struct {
	Product      *Product
	Variant      *Variant
	VariantLabel string
	Quantity     int
	Score        float64
}

// Platform identifies the checkout platform a cart link targets.
type Platform string

// Supported checkout platforms.
const (
	PlatformShopify Platform = "shopify"
	PlatformStripe  Platform = "stripe"
	PlatformGeneric Platform = "generic"
)

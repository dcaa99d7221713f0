package model

import "time"

// LookupIndex is the inverted index over the active catalog. It is a pure
// derived structure: rebuildable in full from the product set at any time.
// Consistency model is rebuild-and-replace, never patch-in-place.
type LookupIndex struct {
	LastIndexedAt time.Time           `json:"last_indexed_at"`
	TokenMap      map[string][]string `json:"token_map"`
	BigramMap     map[string][]string `json:"bigram_map"`
	// AttributeMap is keyed "attrType:value" (e.g. "color:red") and maps to
	// variant ids.
	AttributeMap map[string][]string `json:"attribute_map"`
	ProductCount int                 `json:"product_count"`
	VariantCount int                 `json:"variant_count"`
}

// NewLookupIndex returns an empty index with all maps initialized.
func NewLookupIndex() *LookupIndex {
	return &LookupIndex{
		TokenMap:     make(map[string][]string),
		BigramMap:    make(map[string][]string),
		AttributeMap: make(map[string][]string),
	}
}

// CatalogSnapshot is the full document persisted at the key-value boundary.
type CatalogSnapshot struct {
	LastUpdated time.Time    `json:"last_updated"`
	Index       *LookupIndex `json:"index"`
	Products    []Product    `json:"products,omitempty"`
}

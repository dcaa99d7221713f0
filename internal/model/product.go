// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"
)

// SourceKind identifies where a catalog record originated.
type SourceKind string

// Known catalog sources.
const (
	SourceManual  SourceKind = "manual"
	SourceCSV     SourceKind = "csv"
	SourceShopify SourceKind = "shopify"
)

// Valid reports whether the source kind is one of the known enumeration values.
func (s SourceKind) Valid() bool {
	switch s {
	case SourceManual, SourceCSV, SourceShopify:
		return true
	}
	return false
}

// VariantOption is a single name/value attribute on a variant (e.g. Color: Red).
type VariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CanonicalVariant is the source-agnostic variant shape produced by the mapper.
type CanonicalVariant struct {
	ID      string          `json:"id"`
	SKU     string          `json:"sku"`
	Options []VariantOption `json:"options,omitempty"`
	Price   float64         `json:"price"`
}

// CanonicalProduct is the single import target every catalog source maps into.
// It is immutable once constructed: mappers build it, ToProduct consumes it.
// Every canonical product carries at least one variant; the first variant is
// the primary one used for flat price/sku projection.
type CanonicalProduct struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Source   SourceKind         `json:"source"`
	Variants []CanonicalVariant `json:"variants"`
}

// Primary returns the primary variant used for flat projection.
func (c CanonicalProduct) Primary() CanonicalVariant {
	if len(c.Variants) == 0 {
		return CanonicalVariant{}
	}
	return c.Variants[0]
}

// Variant is a sellable variation of a product.
type Variant struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Title     string          `json:"title,omitempty"`
	Options   []VariantOption `json:"options,omitempty"`
	Price     float64         `json:"price"`
	Inventory int             `json:"inventory"`
	IsActive  bool            `json:"is_active"`
}

// Product is the flat catalog record held in storage and searched against.
type Product struct {
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	LastSyncedAt *time.Time        `json:"last_synced_at,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	ID           string            `json:"id"`
	SellerID     string            `json:"seller_id,omitempty"`
	Source       SourceKind        `json:"source"`
	ExternalID   string            `json:"external_id,omitempty"`
	Name         string            `json:"name"`
	SKU          string            `json:"sku"`
	SearchString string            `json:"search_string"`
	ImageURL     string            `json:"image_url,omitempty"`
	Variants     []Variant         `json:"variants,omitempty"`
	Price        float64           `json:"price"`
	IsActive     bool              `json:"is_active"`
}

// RebuildSearchString regenerates the lowercase search projection from the
// product's name, skus and variant option values. It must be called whenever
// name or sku changes.
func (p *Product) RebuildSearchString() {
	parts := []string{p.Name, p.SKU}
	for _, v := range p.Variants {
		if v.SKU != "" && v.SKU != p.SKU {
			parts = append(parts, v.SKU)
		}
		if v.Title != "" {
			parts = append(parts, v.Title)
		}
		for _, opt := range v.Options {
			parts = append(parts, opt.Value)
		}
	}
	joined := strings.Join(parts, " ")
	p.SearchString = strings.ToLower(strings.Join(strings.Fields(joined), " "))
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// Package canonical converts heterogeneous catalog source records into the
// single canonical product shape the ingestion pipeline consumes.
package canonical

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/model"
)

// Header aliases recognized when pulling fields out of a CSV row. Resolution
// is case-insensitive; earlier aliases win.
var (
	titleAliases = []string{"title", "product title", "product name", "name", "product", "item", "item name"}
	skuAliases   = []string{"sku", "sku code", "product code", "code", "item number", "upc", "barcode"}
	priceAliases = []string{"price", "cost", "unit price", "amount", "msrp", "retail price"}
)

// ManualEntry is a single-variant product entered by hand.
type ManualEntry struct {
	ID    string
	Title string
	SKU   string
	Size  string
	Color string
	Price float64
}

// ShopifyVariant mirrors the variant shape of a Shopify-style catalog payload.
type ShopifyVariant struct {
	ID      string  `json:"id"`
	SKU     string  `json:"sku"`
	Title   string  `json:"title"`
	Option1 string  `json:"option1,omitempty"`
	Option2 string  `json:"option2,omitempty"`
	Price   string  `json:"price"`
	Grams   float64 `json:"grams,omitempty"`
}

// ShopifyProduct mirrors the product shape of a Shopify-style catalog payload.
type ShopifyProduct struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Variants []ShopifyVariant `json:"variants"`
}

// MapProduct converts a raw source record into a CanonicalProduct, dispatched
// by source kind. An unrecognized source is rejected rather than guessed at.
func MapProduct(raw any, source model.SourceKind) (model.CanonicalProduct, error) {
	switch source {
	case model.SourceCSV:
		row, ok := raw.(map[string]string)
		if !ok {
			return model.CanonicalProduct{}, fmt.Errorf("csv source expects a header-keyed row, got %T", raw)
		}
		return MapCSVRow(row)
	case model.SourceShopify:
		payload, ok := raw.(ShopifyProduct)
		if !ok {
			return model.CanonicalProduct{}, fmt.Errorf("shopify source expects a ShopifyProduct payload, got %T", raw)
		}
		return MapShopifyProduct(payload)
	case model.SourceManual:
		entry, ok := raw.(ManualEntry)
		if !ok {
			return model.CanonicalProduct{}, fmt.Errorf("manual source expects a ManualEntry, got %T", raw)
		}
		return MapManualEntry(entry)
	default:
		return model.CanonicalProduct{}, fmt.Errorf("%w: %q", common.ErrUnsupportedSource, source)
	}
}

// MapCSVRow builds a canonical product from a header-keyed CSV row. Title,
// sku and price are resolved through the alias tables; the price string is
// cleaned of currency symbols before parsing and defaults to 0 on failure.
func MapCSVRow(row map[string]string) (model.CanonicalProduct, error) {
	title := strings.TrimSpace(resolveAlias(row, titleAliases))
	if title == "" {
		return model.CanonicalProduct{}, fmt.Errorf("csv row has no title")
	}

	sku := strings.TrimSpace(resolveAlias(row, skuAliases))
	price := ParsePrice(resolveAlias(row, priceAliases))

	return model.CanonicalProduct{
		Title:  title,
		Source: model.SourceCSV,
		Variants: []model.CanonicalVariant{
			{SKU: sku, Price: price},
		},
	}, nil
}

// MapShopifyProduct maps a Shopify-shaped payload, carrying nested variants
// across. A payload without variants gets a single placeholder variant so the
// one-variant-minimum invariant holds.
func MapShopifyProduct(p ShopifyProduct) (model.CanonicalProduct, error) {
	if strings.TrimSpace(p.Title) == "" {
		return model.CanonicalProduct{}, fmt.Errorf("shopify product %q has no title", p.ID)
	}

	variants := make([]model.CanonicalVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		cv := model.CanonicalVariant{
			ID:    v.ID,
			SKU:   v.SKU,
			Price: ParsePrice(v.Price),
		}
		if v.Option1 != "" {
			cv.Options = append(cv.Options, model.VariantOption{Name: "option1", Value: v.Option1})
		}
		if v.Option2 != "" {
			cv.Options = append(cv.Options, model.VariantOption{Name: "option2", Value: v.Option2})
		}
		if len(cv.Options) == 0 && v.Title != "" && !strings.EqualFold(v.Title, "default title") {
			cv.Options = append(cv.Options, model.VariantOption{Name: "title", Value: v.Title})
		}
		variants = append(variants, cv)
	}

	if len(variants) == 0 {
		variants = []model.CanonicalVariant{{SKU: "", Price: 0}}
	}

	return model.CanonicalProduct{
		ID:       p.ID,
		Title:    p.Title,
		Source:   model.SourceShopify,
		Variants: variants,
	}, nil
}

// MapManualEntry is a single-variant passthrough for hand-entered products.
func MapManualEntry(e ManualEntry) (model.CanonicalProduct, error) {
	if strings.TrimSpace(e.Title) == "" {
		return model.CanonicalProduct{}, fmt.Errorf("manual entry has no title")
	}

	variant := model.CanonicalVariant{
		SKU:   e.SKU,
		Price: e.Price,
	}
	if e.Size != "" {
		variant.Options = append(variant.Options, model.VariantOption{Name: "size", Value: e.Size})
	}
	if e.Color != "" {
		variant.Options = append(variant.Options, model.VariantOption{Name: "color", Value: e.Color})
	}

	return model.CanonicalProduct{
		ID:       e.ID,
		Title:    e.Title,
		Source:   model.SourceManual,
		Variants: []model.CanonicalVariant{variant},
	}, nil
}

// ToProduct flattens a canonical product onto the primary variant and builds
// the search projection. The result is partial: ids may be empty until the
// ingestion engine assigns them.
func ToProduct(c model.CanonicalProduct, sellerID string) model.Product {
	now := time.Now()
	primary := c.Primary()

	p := model.Product{
		ID:        c.ID,
		SellerID:  sellerID,
		Source:    c.Source,
		Name:      c.Title,
		SKU:       primary.SKU,
		Price:     primary.Price,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, cv := range c.Variants {
		p.Variants = append(p.Variants, model.Variant{
			ID:       cv.ID,
			SKU:      cv.SKU,
			Options:  cv.Options,
			Price:    cv.Price,
			IsActive: true,
		})
	}

	p.RebuildSearchString()

	return p
}

// MergeDuplicates unifies canonical products that share a primary-variant
// sku. The union is append-only: the first-seen product keeps its position
// and identity, later duplicates contribute only their variants. Products
// without a primary sku are never merged.
func MergeDuplicates(products []model.CanonicalProduct) []model.CanonicalProduct {
	merged := make([]model.CanonicalProduct, 0, len(products))
	bySKU := make(map[string]int)

	for _, p := range products {
		key := strings.ToLower(strings.TrimSpace(p.Primary().SKU))
		if key == "" {
			merged = append(merged, p)
			continue
		}

		if idx, seen := bySKU[key]; seen {
			merged[idx].Variants = append(merged[idx].Variants, p.Variants...)
			continue
		}

		bySKU[key] = len(merged)
		merged = append(merged, p)
	}

	return merged
}

// resolveAlias returns the value of the first alias present in the row,
// matching header names case-insensitively.
func resolveAlias(row map[string]string, aliases []string) string {
	lowered := make(map[string]string, len(row))
	for k, v := range row {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for _, alias := range aliases {
		if v, ok := lowered[alias]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ParsePrice cleans a price string of currency symbols and grouping commas,
// then parses it. Unparseable input yields 0 rather than an error: a missing
// price must not reject an otherwise valid record.
func ParsePrice(s string) float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, cleaned)

	if cleaned == "" {
		return 0
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

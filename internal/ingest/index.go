package ingest

import (
	"strings"
	"time"

	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/text"
)

// BuildLookupIndex constructs the inverted index for a product set. It is a
// pure function of its input: rebuilding from the same products always
// yields the same index. Consistency comes from rebuild-and-replace, never
// from patching an existing index in place.
func (e *Engine) BuildLookupIndex(products []model.Product) *model.LookupIndex {
	index := model.NewLookupIndex()
	index.LastIndexedAt = time.Now()
	index.ProductCount = len(products)

	for i := range products {
		p := &products[i]

		tokens := e.normalizer.Normalize(p.Name)
		for _, token := range tokens {
			appendUnique(index.TokenMap, token, p.ID)
		}
		for _, bigram := range text.Bigrams(tokens) {
			appendUnique(index.BigramMap, bigram, p.ID)
		}

		for j := range p.Variants {
			v := &p.Variants[j]
			index.VariantCount++

			for attr, value := range e.variantAttributes(v) {
				appendUnique(index.AttributeMap, attr+":"+value, v.ID)
			}
		}
	}

	return index
}

// variantAttributes extracts attribute values for a variant: explicit
// options first, then heuristic keyword detection over the normalized
// variant title for colors and sizes the options did not declare.
func (e *Engine) variantAttributes(v *model.Variant) map[string]string {
	attrs := make(map[string]string)

	for _, opt := range v.Options {
		name := strings.ToLower(strings.TrimSpace(opt.Name))
		value := strings.ToLower(strings.TrimSpace(opt.Value))
		if value == "" {
			continue
		}
		switch {
		case name == "color" || name == "colour":
			attrs["color"] = value
		case name == "size":
			attrs["size"] = value
		default:
			// Unnamed option slots (Shopify option1/option2) are classified
			// by value against the keyword tables.
			if e.isColor(value) {
				attrs["color"] = value
			} else if e.isSize(value) {
				attrs["size"] = value
			}
		}
	}

	for _, token := range e.normalizer.Normalize(v.Title) {
		if _, ok := attrs["color"]; !ok && e.isColor(token) {
			attrs["color"] = token
		}
		if _, ok := attrs["size"]; !ok && e.isSize(token) {
			attrs["size"] = token
		}
	}

	return attrs
}

func (e *Engine) isColor(s string) bool {
	_, ok := e.colors[s]
	return ok
}

func (e *Engine) isSize(s string) bool {
	_, ok := e.sizes[s]
	return ok
}

func appendUnique(m map[string][]string, key, id string) {
	for _, existing := range m[key] {
		if existing == id {
			return
		}
	}
	m[key] = append(m[key], id)
}

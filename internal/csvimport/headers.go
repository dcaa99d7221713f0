// Package csvimport parses delimited catalog files and maps arbitrary
// spreadsheet headers onto the canonical product fields.
package csvimport

import (
	"strings"

	"github.com/haggleworks/cartwheel/internal/text"
)

// Canonical fields a CSV column can map to.
const (
	FieldTitle = "title"
	FieldSKU   = "sku"
	FieldPrice = "price"
	FieldLink  = "link"
)

// DefaultThreshold is the minimum similarity a header must score against a
// field's synonym list to be claimed. Product decision, not a computed
// optimum; override via AutoMapHeadersWithThreshold.
const DefaultThreshold = 0.6

// containmentScore is awarded when a header contains (or is contained by) a
// synonym without matching it exactly.
const containmentScore = 0.8

// fieldSynonyms is the synonym table per canonical field. Kept as data so
// domain extension does not touch the matching logic.
var fieldSynonyms = map[string][]string{
	FieldTitle: {"title", "product title", "product name", "name", "product", "item", "item name", "description"},
	FieldSKU:   {"sku", "sku code", "product code", "code", "item number", "part number", "upc", "barcode"},
	FieldPrice: {"price", "cost", "unit price", "amount", "msrp", "retail price", "sale price"},
	FieldLink:  {"link", "url", "product url", "product link", "checkout link", "web address"},
}

// AutoMapHeaders fuzzy-matches CSV headers to canonical fields using the
// default threshold. The result maps each canonical field to the best-scoring
// header, or "" when nothing clears the threshold.
func AutoMapHeaders(headers []string) map[string]string {
	return AutoMapHeadersWithThreshold(headers, DefaultThreshold)
}

// AutoMapHeadersWithThreshold is AutoMapHeaders with an explicit threshold.
// Fields are matched independently: the same header may win several fields.
func AutoMapHeadersWithThreshold(headers []string, threshold float64) map[string]string {
	mapping := make(map[string]string, len(fieldSynonyms))

	for field, synonyms := range fieldSynonyms {
		bestHeader := ""
		bestScore := 0.0

		for _, header := range headers {
			score := headerScore(header, synonyms)
			if score > bestScore {
				bestScore = score
				bestHeader = header
			}
		}

		if bestScore >= threshold {
			mapping[field] = bestHeader
		} else {
			mapping[field] = ""
		}
	}

	return mapping
}

// headerScore scores one header against a field's synonym list. An exact
// case-insensitive synonym hit short-circuits at 1; substring containment
// short-circuits at 0.8; otherwise the best normalized Levenshtein
// similarity across the synonyms is used.
func headerScore(header string, synonyms []string) float64 {
	normalized := normalizeHeader(header)
	if normalized == "" {
		return 0
	}

	best := 0.0
	for _, syn := range synonyms {
		if normalized == syn {
			return 1
		}
		if strings.Contains(normalized, syn) || strings.Contains(syn, normalized) {
			if containmentScore > best {
				best = containmentScore
			}
			continue
		}
		if sim := text.Similarity(normalized, syn); sim > best {
			best = sim
		}
	}

	return best
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}

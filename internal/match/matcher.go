// Package match implements the fast-path fuzzy product matcher used by the
// channel-assist flow, plus cart-link generation for confirmed matches.
package match

import (
	"log/slog"
	"strings"

	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
	"github.com/haggleworks/cartwheel/internal/text"
)

// Field weights and the acceptance floor. A wrong product match is worse
// than no match here, because a match becomes a checkout link; the hard
// floor trades recall for precision.
const (
	NameWeight  = 0.60
	SKUWeight   = 0.30
	SizeWeight  = 0.05
	ColorWeight = 0.05

	// DefaultMinSimilarity is the floor below which FindBestMatch returns
	// no match at all.
	DefaultMinSimilarity = 0.7
)

// Matcher scores extracted orders against a product set.
type Matcher struct {
	scorer        service.Scorer
	normalizer    *text.Normalizer
	logger        *slog.Logger
	minSimilarity float64
}

// NewMatcher creates a matcher with the default Levenshtein scorer and
// similarity floor.
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		scorer:        text.LevenshteinScorer{},
		normalizer:    text.NewNormalizer(),
		logger:        logger,
		minSimilarity: DefaultMinSimilarity,
	}
}

// WithScorer swaps the similarity algorithm.
func (m *Matcher) WithScorer(s service.Scorer) *Matcher {
	m.scorer = s
	return m
}

// WithMinSimilarity overrides the acceptance floor.
func (m *Matcher) WithMinSimilarity(floor float64) *Matcher {
	m.minSimilarity = floor
	return m
}

// FindBestMatch returns the best catalog match for an extracted order, or
// nil when nothing clears the similarity floor. A nil result is not an
// error; the caller decides how to present "no confident match".
func (m *Matcher) FindBestMatch(order model.ParsedOrder, products []model.Product) *model.ProductMatch {
	query := strings.TrimSpace(order.ProductName)
	if query == "" || len(products) == 0 {
		return nil
	}

	var best *model.ProductMatch
	for i := range products {
		p := &products[i]
		if !p.IsActive {
			continue
		}

		score := m.scoreProduct(order, p)
		if best == nil || score > best.Score {
			variant, label := m.confirmVariant(p, order.Variant)
			best = &model.ProductMatch{
				Product:      p,
				Variant:      variant,
				VariantLabel: label,
				Quantity:     order.Quantity,
				Score:        score,
			}
		}
	}

	if best == nil || best.Score < m.minSimilarity {
		if best != nil {
			m.logger.Debug("best candidate below similarity floor",
				"query", query,
				"score", best.Score,
				"floor", m.minSimilarity)
		}
		return nil
	}

	if best.Quantity <= 0 {
		best.Quantity = 1
	}

	return best
}

// scoreProduct computes the weighted field similarity for one candidate.
// Fields with nothing to compare against (no sku on the product, no variant
// text on the order) drop out and the remaining weights renormalize, so a
// sparse record competes on the evidence it actually has.
func (m *Matcher) scoreProduct(order model.ParsedOrder, p *model.Product) float64 {
	query := strings.ToLower(strings.TrimSpace(order.ProductName))

	// An exact sku mention is authoritative.
	if strings.EqualFold(query, p.SKU) {
		return 1
	}
	for _, v := range p.Variants {
		if v.SKU != "" && strings.EqualFold(query, v.SKU) {
			return 1
		}
	}

	totalWeight := NameWeight
	score := NameWeight * m.nameSimilarity(query, p.Name)

	if p.SKU != "" {
		totalWeight += SKUWeight
		score += SKUWeight * m.scorer.Score(query, strings.ToLower(p.SKU))
	}

	variantText := strings.ToLower(strings.TrimSpace(order.Variant))
	if variantText != "" {
		sizes, colors := declaredOptions(p)

		totalWeight += SizeWeight
		score += SizeWeight * optionHit(variantText, sizes)

		totalWeight += ColorWeight
		score += ColorWeight * optionHit(variantText, colors)
	}

	return score / totalWeight
}

// nameSimilarity blends whole-string edit distance with token containment so
// "hoodie" scores well against both "Hoodie" and "Zip Hoodie".
func (m *Matcher) nameSimilarity(query, name string) float64 {
	name = strings.ToLower(name)

	sim := m.scorer.Score(query, name)

	queryTokens := m.normalizer.Normalize(query)
	if len(queryTokens) > 0 {
		nameTokens := make(map[string]struct{})
		for _, tok := range m.normalizer.Normalize(name) {
			nameTokens[tok] = struct{}{}
		}
		hits := 0
		for _, tok := range queryTokens {
			if _, ok := nameTokens[tok]; ok {
				hits++
			}
		}
		if overlap := float64(hits) / float64(len(queryTokens)); overlap > sim {
			sim = overlap
		}
	}

	return sim
}

// sizeAbbreviations is the naive S/M/L normalization applied on both sides
// of variant confirmation.
var sizeAbbreviations = map[string]string{
	"s":  "small",
	"m":  "medium",
	"l":  "large",
	"xs": "extra small",
	"xl": "extra large",
}

// confirmVariant tries to pin the extracted variant text onto one of the
// product's declared variants by loose substring containment over size and
// color option values. Returns the variant and a human-readable label, or
// nil when the text confirms nothing.
func (m *Matcher) confirmVariant(p *model.Product, variantText string) (*model.Variant, string) {
	variantText = normalizeSizes(strings.ToLower(strings.TrimSpace(variantText)))
	if variantText == "" {
		return nil, ""
	}

	var bestVariant *model.Variant
	bestHits := 0
	bestLabel := ""

	for i := range p.Variants {
		v := &p.Variants[i]

		hits := 0
		var labelParts []string
		for _, opt := range v.Options {
			value := normalizeSizes(strings.ToLower(opt.Value))
			if value != "" && strings.Contains(variantText, value) {
				hits++
				labelParts = append(labelParts, opt.Value)
			}
		}
		if v.Title != "" && len(v.Options) == 0 {
			for _, tok := range m.normalizer.Normalize(v.Title) {
				if strings.Contains(variantText, normalizeSizes(tok)) {
					hits++
					labelParts = append(labelParts, tok)
				}
			}
			if hits > 0 {
				labelParts = []string{v.Title}
			}
		}

		if hits > bestHits {
			bestHits = hits
			bestVariant = v
			bestLabel = strings.Join(labelParts, " / ")
		}
	}

	return bestVariant, bestLabel
}

// declaredOptions collects the product's size and color option values,
// lowercased and size-normalized.
func declaredOptions(p *model.Product) (sizes, colors []string) {
	for _, v := range p.Variants {
		for _, opt := range v.Options {
			value := normalizeSizes(strings.ToLower(opt.Value))
			if value == "" {
				continue
			}
			switch strings.ToLower(opt.Name) {
			case "size":
				sizes = append(sizes, value)
			case "color", "colour":
				colors = append(colors, value)
			}
		}
		if v.Title != "" {
			for _, part := range strings.Split(strings.ToLower(v.Title), "/") {
				part = normalizeSizes(strings.TrimSpace(part))
				if part == "" {
					continue
				}
				if _, isSize := sizeAbbreviations[part]; isSize || isKnownSizeWord(part) {
					sizes = append(sizes, part)
				} else {
					colors = append(colors, part)
				}
			}
		}
	}
	return sizes, colors
}

func isKnownSizeWord(s string) bool {
	switch s {
	case "small", "medium", "large", "extra small", "extra large", "one size":
		return true
	}
	return false
}

// optionHit returns 1 when the variant text contains any declared value.
func optionHit(variantText string, values []string) float64 {
	for _, v := range values {
		if strings.Contains(variantText, v) {
			return 1
		}
	}
	return 0
}

// normalizeSizes expands bare S/M/L abbreviations inside the text.
func normalizeSizes(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if full, ok := sizeAbbreviations[f]; ok {
			fields[i] = full
		}
	}
	return strings.Join(fields, " ")
}

package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/haggleworks/cartwheel/internal/model"
)

// Fallback confidence is a fixed heuristic, deliberately lower fidelity
// than the LLM path.
const (
	// FallbackConfidenceWithProduct applies when a product phrase was
	// isolated from the message.
	FallbackConfidenceWithProduct = 0.75
	// FallbackConfidenceBare applies when intent was classified but no
	// product phrase could be isolated.
	FallbackConfidenceBare = 0.5
)

var (
	priceRe    = regexp.MustCompile(`\$\s?(\d+(?:\.\d{1,2})?)`)
	quantityRe = regexp.MustCompile(`\b(\d+)\b`)
	wordRe     = regexp.MustCompile(`[a-z0-9']+`)

	// Verb-anchored object phrases for purchase-style messages.
	productRe = regexp.MustCompile(`\b(?:take|want|need|buy|order|get|purchase)\b\s+([a-z0-9' ]+)`)
	// Question-anchored object phrases for inquiries.
	inquiryProductRe = regexp.MustCompile(`\b(?:how much (?:for|is)|price of|cost of|do you have|about)\b\s+([a-z0-9' ]+)`)
)

// parseLocal is the deterministic fallback parser. It never fails; a
// message it cannot read yields an unknown intent with no orders.
func parseLocal(message string) model.IntentResult {
	lower := strings.ToLower(message)
	customerIntent := classifyIntent(lower)

	price := extractPrice(lower)
	// Prices are removed before the quantity scan so "$45" is never read
	// as 45 units.
	stripped := priceRe.ReplaceAllString(lower, " ")
	quantity := extractQuantity(stripped)

	phrase := extractProductPhrase(stripped)
	productName := cleanProductPhrase(phrase)
	variant := extractVariant(lower)

	result := model.IntentResult{
		CustomerIntent: customerIntent,
		FromFallback:   true,
	}

	if productName == "" && customerIntent == model.IntentUnknown {
		return result
	}

	confidence := FallbackConfidenceBare
	if productName != "" {
		confidence = FallbackConfidenceWithProduct
	}

	result.Orders = []model.ParsedOrder{{
		ProductName:     productName,
		Variant:         variant,
		Quantity:        quantity,
		PriceMentioned:  price,
		ConfidenceScore: confidence,
	}}
	return result
}

// classifyIntent is a three-way keyword classifier. Price questions win
// over commitment verbs so "how much for..." is never read as a purchase.
func classifyIntent(lower string) model.CustomerIntent {
	for _, phrase := range inquiryPhrases {
		if strings.Contains(lower, phrase) {
			return model.IntentInquiry
		}
	}
	for _, phrase := range purchasePhrases {
		if strings.Contains(lower, phrase) {
			return model.IntentPurchase
		}
	}
	for _, phrase := range shippingPhrases {
		if strings.Contains(lower, phrase) {
			return model.IntentShippingUpdate
		}
	}
	return model.IntentUnknown
}

func extractPrice(lower string) float64 {
	m := priceRe.FindStringSubmatch(lower)
	if m == nil {
		return 0
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return price
}

// extractQuantity finds the first digit run, then the first spelled-out
// number word, defaulting to one.
func extractQuantity(lower string) int {
	if m := quantityRe.FindStringSubmatch(lower); m != nil {
		if qty, err := strconv.Atoi(m[1]); err == nil && qty > 0 {
			return qty
		}
	}
	for _, word := range wordRe.FindAllString(lower, -1) {
		if qty, ok := numberWords[word]; ok {
			return qty
		}
	}
	return 1
}

func extractProductPhrase(lower string) string {
	if m := productRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	if m := inquiryProductRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	return ""
}

// cleanProductPhrase strips quantities, articles, and variant keywords so
// the remainder names the product itself.
func cleanProductPhrase(phrase string) string {
	var kept []string
	for _, word := range wordRe.FindAllString(phrase, -1) {
		if _, err := strconv.Atoi(word); err == nil {
			continue
		}
		if _, ok := numberWords[word]; ok {
			continue
		}
		if fillerWords[word] || sizeKeywords[word] || colorKeywords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// extractVariant collects color and size keywords from the whole message,
// colors first.
func extractVariant(lower string) string {
	var colors, sizes []string
	seen := make(map[string]bool)
	for _, word := range wordRe.FindAllString(lower, -1) {
		if seen[word] {
			continue
		}
		switch {
		case colorKeywords[word]:
			colors = append(colors, word)
			seen[word] = true
		case sizeKeywords[word]:
			sizes = append(sizes, word)
			seen[word] = true
		}
	}
	return strings.TrimSpace(strings.Join(append(colors, sizes...), " "))
}

// Package analyzer is the server-side orchestration boundary: it turns a
// conversation plus a catalog snapshot into a final AnalysisResult.
//
// An LLM drafts the analysis; the catalog is the store of record. A catalog
// hit overwrites the draft's identifiers and boosts confidence, a miss
// penalizes confidence but keeps the intent signal alive, and an LLM
// failure degrades to the local intent parser. The caller always gets a
// result, never an error.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/intent"
	"github.com/haggleworks/cartwheel/internal/llm"
	"github.com/haggleworks/cartwheel/internal/match"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/search"
	"github.com/haggleworks/cartwheel/internal/service"
)

// Config holds the confidence adjustment knobs. All three are exposed
// through viper so operators can retune without a rebuild.
type Config struct {
	// MatchBoost is added to confidence when the catalog confirms the
	// draft's product.
	MatchBoost float64
	// MissPenalty is subtracted when no catalog record corroborates the
	// draft. A miss is ambiguous (possibly a catalog gap), so it dents
	// confidence rather than zeroing it.
	MissPenalty float64
	// ConfidenceFloor bounds how far a miss can drag confidence down.
	ConfidenceFloor float64
}

// DefaultConfig returns the standard adjustment values.
func DefaultConfig() Config {
	return Config{
		MatchBoost:      0.1,
		MissPenalty:     0.2,
		ConfidenceFloor: 0.3,
	}
}

const analysisSystemPrompt = `You analyze customer chat conversations for a seller and decide whether the customer wants to buy something.

Respond with ONLY valid JSON, no markdown, no explanations:
{
  "intent_detected": true,
  "confidence": 0.85,
  "product_title": "product the customer wants, empty if none",
  "variant_title": "size/color/style mentioned, empty if none",
  "quantity": 1,
  "reasoning": "one sentence on why"
}

Rules:
- intent_detected is true only for a concrete purchase commitment
- quantity defaults to 1 when unstated
- confidence is your certainty from 0 to 1`

// Analyzer orchestrates intent extraction, catalog matching and
// confidence adjustment.
type Analyzer struct {
	client        service.CompletionClient
	extractor     *intent.Extractor
	lexical       *search.Lexical
	vector        *search.Vector
	matcher       *match.Matcher
	vectorMatcher *match.Matcher
	logger        *slog.Logger
	cfg           Config
}

// New creates an Analyzer. The completion client and embedder may be nil;
// analysis then runs entirely on the local parser and lexical matching.
func New(client service.CompletionClient, embedder service.Embedder, cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		client:    client,
		extractor: intent.NewExtractor(client, logger),
		lexical:   search.NewLexical(),
		vector:    search.NewVector(embedder, logger),
		matcher:   match.NewMatcher(logger),
		// Tier 2 candidates were already admitted by the vector threshold;
		// the second matcher only confirms the variant.
		vectorMatcher: match.NewMatcher(logger).WithMinSimilarity(0),
		logger:        logger,
		cfg:           cfg,
	}
}

// Analyze produces the final result for a conversation against a catalog
// snapshot. The last message is treated as the trigger.
func (a *Analyzer) Analyze(ctx context.Context, messages []string, catalog *model.CatalogSnapshot) model.AnalysisResult {
	result := a.draft(ctx, messages)

	if !result.IntentDetected || result.ProductTitle == "" {
		return sanitize(result)
	}
	if catalog == nil || len(catalog.Products) == 0 {
		return a.applyMiss(result, "catalog is empty")
	}

	m := a.matchCatalog(ctx, result, catalog)
	if m == nil {
		return a.applyMiss(result, fmt.Sprintf("no catalog match for %q", result.ProductTitle))
	}
	return a.applyMatch(result, m)
}

// draft produces the pre-adjustment result, via the LLM when available and
// the local parser otherwise.
func (a *Analyzer) draft(ctx context.Context, messages []string) model.AnalysisResult {
	trigger := ""
	if len(messages) > 0 {
		trigger = messages[len(messages)-1]
	}

	if a.client != nil {
		result, err := a.draftLLM(ctx, messages)
		if err == nil {
			result.TriggerMessage = trigger
			return result
		}
		a.logger.Warn("LLM analysis failed, using local parser", "error", err)
	}

	return a.draftLocal(ctx, trigger)
}

func (a *Analyzer) draftLLM(ctx context.Context, messages []string) (model.AnalysisResult, error) {
	var completion string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		completion, callErr = a.client.Complete(ctx, service.CompletionRequest{
			System: analysisSystemPrompt,
			Prompt: "Conversation:\n" + strings.Join(messages, "\n"),
		})
		return callErr
	}, service.RetryOptions{MaxAttempts: 2})
	if err != nil {
		return model.AnalysisResult{}, err
	}

	var draft struct {
		IntentDetected *bool   `json:"intent_detected"`
		Confidence     float64 `json:"confidence"`
		ProductTitle   string  `json:"product_title"`
		VariantTitle   string  `json:"variant_title"`
		Quantity       int     `json:"quantity"`
		Reasoning      string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownWrapper(completion)), &draft); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}
	if draft.IntentDetected == nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: response missing intent_detected", common.ErrExtractionFailed)
	}

	quantity := draft.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return model.AnalysisResult{
		IntentDetected: *draft.IntentDetected,
		Confidence:     clamp(draft.Confidence, 0, 1),
		ProductTitle:   strings.TrimSpace(draft.ProductTitle),
		VariantTitle:   strings.TrimSpace(draft.VariantTitle),
		Quantity:       quantity,
		Reasoning:      draft.Reasoning,
	}, nil
}

// draftLocal builds the draft from the deterministic fallback parser.
func (a *Analyzer) draftLocal(ctx context.Context, trigger string) model.AnalysisResult {
	parsed := a.extractor.Parse(ctx, trigger)
	order := parsed.TopOrder()

	detected := parsed.CustomerIntent == model.IntentPurchase && order != nil && order.ProductName != ""
	result := model.AnalysisResult{
		IntentDetected: detected,
		TriggerMessage: trigger,
		Reasoning:      "local parser: " + string(parsed.CustomerIntent),
	}
	if detected {
		result.Confidence = order.ConfidenceScore
		result.ProductTitle = order.ProductName
		result.VariantTitle = order.Variant
		result.Quantity = order.Quantity
	}
	return result
}

// matchCatalog runs the two-tier strategy: lexical/fuzzy first, vector
// only when the first tier comes up empty.
func (a *Analyzer) matchCatalog(ctx context.Context, draft model.AnalysisResult, catalog *model.CatalogSnapshot) *model.ProductMatch {
	order := model.ParsedOrder{
		ProductName: draft.ProductTitle,
		Variant:     draft.VariantTitle,
		Quantity:    draft.Quantity,
	}

	candidates := a.lexical.Search(draft.ProductTitle, catalog.Index, catalog.Products)
	if len(candidates) == 0 {
		candidates = catalog.Products
	}
	if m := a.matcher.FindBestMatch(order, candidates); m != nil {
		return m
	}

	scored := a.vector.Search(ctx, catalog.Products, draft.ProductTitle, search.Options{UseVector: true})
	if len(scored) == 0 {
		return nil
	}
	return a.vectorMatcher.FindBestMatch(order, []model.Product{scored[0].Product})
}

// applyMatch overwrites the draft's identifiers with the catalog record
// and boosts confidence.
func (a *Analyzer) applyMatch(result model.AnalysisResult, m *model.ProductMatch) model.AnalysisResult {
	result.ProductID = m.Product.ID
	result.ProductTitle = m.Product.Name
	price := m.Product.Price
	if m.Variant != nil {
		result.VariantID = m.Variant.ID
		if m.VariantLabel != "" {
			result.VariantTitle = m.VariantLabel
		}
		if m.Variant.Price > 0 {
			price = m.Variant.Price
		}
	}
	if result.Quantity <= 0 {
		result.Quantity = 1
	}
	result.TotalValue = price * float64(result.Quantity)
	result.Confidence = clamp(result.Confidence+a.cfg.MatchBoost, 0, 1)
	return result
}

// applyMiss penalizes confidence and appends a warning instead of
// discarding the intent signal.
func (a *Analyzer) applyMiss(result model.AnalysisResult, warning string) model.AnalysisResult {
	result.ProductID = ""
	result.VariantID = ""
	result.Confidence = clamp(result.Confidence-a.cfg.MissPenalty, a.cfg.ConfidenceFloor, 1)
	if result.Reasoning != "" {
		result.Reasoning += "; "
	}
	result.Reasoning += "warning: " + warning
	return result
}

// sanitize enforces the no-intent shape: no product fields, zero quantity.
func sanitize(result model.AnalysisResult) model.AnalysisResult {
	if result.IntentDetected && result.ProductTitle != "" {
		return result
	}
	result.IntentDetected = false
	result.ProductID = ""
	result.VariantID = ""
	result.ProductTitle = ""
	result.VariantTitle = ""
	result.Quantity = 0
	result.TotalValue = 0
	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

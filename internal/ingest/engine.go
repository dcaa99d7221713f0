// Package ingest validates raw catalog records and builds the inverted
// lookup index the search tier runs against.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/text"
)

// Engine is the catalog ingestion engine. Safe for reuse across runs; each
// Ingest call is independent.
type Engine struct {
	normalizer *text.Normalizer
	logger     *slog.Logger
	colors     map[string]struct{}
	sizes      map[string]struct{}
}

// Result is the outcome of one full ingestion run.
type Result struct {
	ProcessedAt time.Time
	Index       *model.LookupIndex
	Products    []model.Product
	Errors      []model.ImportError
	Success     bool
}

// NewEngine creates an ingestion engine with the default keyword tables.
func NewEngine(logger *slog.Logger) *Engine {
	return NewEngineWithTables(logger, DefaultTables())
}

// NewEngineWithTables creates an ingestion engine with custom color/size
// keyword tables.
func NewEngineWithTables(logger *slog.Logger, tables Tables) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		normalizer: text.NewNormalizer(),
		logger:     logger,
		colors:     make(map[string]struct{}, len(tables.Colors)),
		sizes:      make(map[string]struct{}, len(tables.Sizes)),
	}
	for _, c := range tables.Colors {
		e.colors[strings.ToLower(c)] = struct{}{}
	}
	for _, s := range tables.Sizes {
		e.sizes[strings.ToLower(s)] = struct{}{}
	}
	return e
}

// Ingest validates and normalizes raw products, then builds a fresh lookup
// index over the accepted set. Invalid records are collected per-record and
// never abort the batch.
func (e *Engine) Ingest(ctx context.Context, rawProducts []model.Product) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{ProcessedAt: time.Now()}
	accepted := make([]model.Product, 0, len(rawProducts))

	for i, raw := range rawProducts {
		if strings.TrimSpace(raw.Name) == "" {
			result.Errors = append(result.Errors, model.ImportError{
				Row:     i,
				Message: "product has no name",
			})
			continue
		}

		accepted = append(accepted, e.normalizeProduct(raw))
	}

	result.Products = accepted
	result.Index = e.BuildLookupIndex(accepted)
	result.Success = len(result.Errors) == 0

	e.logger.Info("catalog ingested",
		"total", len(rawProducts),
		"accepted", len(accepted),
		"rejected", len(result.Errors),
		"tokens", len(result.Index.TokenMap))

	return result, nil
}

// normalizeProduct fills defaults on an accepted record: collision-resistant
// ids, at least one variant, and a freshly computed search string.
func (e *Engine) normalizeProduct(p model.Product) model.Product {
	now := time.Now()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Source == "" {
		p.Source = model.SourceManual
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if len(p.Variants) == 0 {
		p.Variants = []model.Variant{{
			SKU:   p.SKU,
			Price: p.Price,
		}}
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if v.SKU == "" {
			v.SKU = p.SKU
		}
		if v.Price == 0 {
			v.Price = p.Price
		}
		v.IsActive = true
	}

	p.IsActive = true

	p.RebuildSearchString()

	return p
}

// String implements fmt.Stringer for concise log output.
func (r Result) String() string {
	return fmt.Sprintf("ingested %d products (%d rejected), %d tokens indexed",
		len(r.Products), len(r.Errors), len(r.Index.TokenMap))
}

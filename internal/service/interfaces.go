// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/haggleworks/cartwheel/internal/model"
)

// ProductFilter defines filtering options for catalog queries.
type ProductFilter struct {
	SellerID        string
	Source          model.SourceKind
	IncludeInactive bool
	Limit           int
	Offset          int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Product operations. Soft-deleted products are excluded from listing
	// and search unless the filter asks for them.
	SaveProducts(ctx context.Context, products []model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	GetProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeactivateProduct(ctx context.Context, id string) error

	// Index snapshot operations. The snapshot is a full-document read/write
	// at a single key; there is no partial update API.
	SaveSnapshot(ctx context.Context, snapshot *model.CatalogSnapshot) error
	LoadSnapshot(ctx context.Context) (*model.CatalogSnapshot, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// CompletionRequest is the request shape at the LLM boundary.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// CompletionClient is the LLM completion boundary. The response is a single
// completion string expected to be JSON, possibly fenced in markdown code
// blocks. Non-2xx responses and malformed payloads are call errors.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Embedder is the embedding boundary. Vector dimension is model-fixed;
// comparing vectors of different dimensions is a caller bug.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Scorer computes a similarity in [0, 1] between a query and a candidate
// string. It wraps whatever algorithm backs fuzzy matching so the
// implementation (Levenshtein, BM25, embeddings) is swappable without
// touching callers.
type Scorer interface {
	Score(query, candidate string) float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

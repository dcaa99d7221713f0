package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/haggleworks/cartwheel/internal/service"
)

// NewClient creates an LLM client based on the provided configuration,
// wrapped with rate limiting and completion caching.
func NewClient(cfg Config) (service.CompletionClient, error) {
	var (
		client service.CompletionClient
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &limitedClient{
		inner:   client,
		limiter: newRateLimiter(cfg.RateLimit),
		cache:   newCompletionCache(cfg.CacheTTL),
	}, nil
}

// limitedClient decorates a provider client with a token-bucket rate
// limiter and a TTL completion cache.
type limitedClient struct {
	inner   service.CompletionClient
	limiter *rateLimiter
	cache   *completionCache
}

// Complete serves from the cache when possible, otherwise waits for a rate
// token and forwards to the provider.
func (c *limitedClient) Complete(ctx context.Context, req service.CompletionRequest) (string, error) {
	key := cacheKey(req.System, req.Prompt)
	if completion, found := c.cache.get(key); found {
		return completion, nil
	}

	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}

	completion, err := c.inner.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	c.cache.set(key, completion)
	return completion, nil
}

// Close releases the limiter and cache goroutines.
func (c *limitedClient) Close() {
	c.limiter.Close()
	c.cache.Close()
}

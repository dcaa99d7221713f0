package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/haggleworks/cartwheel/internal/analyzer"
	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/embedding"
	"github.com/haggleworks/cartwheel/internal/llm"
	"github.com/haggleworks/cartwheel/internal/service"
)

// createCompletionClient builds the LLM client from configuration. Returns
// nil when no API key is configured; callers treat that as "local parser
// only", not an error.
func createCompletionClient() (service.CompletionClient, error) {
	provider := viper.GetString("llm.provider")

	apiKey := providerAPIKey(provider)
	if apiKey == "" {
		// An explicitly configured provider with no key is a config
		// mistake rather than a request for local-only mode.
		if provider != "" {
			return nil, fmt.Errorf("%w: no API key for llm provider %q", common.ErrMissingConfig, provider)
		}
		return nil, nil
	}
	if provider == "" {
		provider = "openai"
	}

	cfg := llm.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Timeout:     viper.GetDuration("llm.timeout"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// createEmbedder builds the embedding client, nil when unconfigured.
func createEmbedder() (service.Embedder, error) {
	apiKey := providerAPIKey("openai")
	if apiKey == "" {
		return nil, nil
	}

	return embedding.NewOpenAIEmbedder(embedding.Config{
		APIKey:  apiKey,
		Model:   viper.GetString("embedding.model"),
		Timeout: viper.GetDuration("embedding.timeout"),
	})
}

func providerAPIKey(provider string) string {
	switch provider {
	case "anthropic":
		if key := viper.GetString("llm.anthropic_api_key"); key != "" {
			return key
		}
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		if key := viper.GetString("llm.openai_api_key"); key != "" {
			return key
		}
		return os.Getenv("OPENAI_API_KEY")
	}
}

// analyzerConfig reads the confidence adjustment knobs, falling back to
// the standard values.
func analyzerConfig() analyzer.Config {
	cfg := analyzer.DefaultConfig()
	if viper.IsSet("analyzer.match_boost") {
		cfg.MatchBoost = viper.GetFloat64("analyzer.match_boost")
	}
	if viper.IsSet("analyzer.miss_penalty") {
		cfg.MissPenalty = viper.GetFloat64("analyzer.miss_penalty")
	}
	if viper.IsSet("analyzer.confidence_floor") {
		cfg.ConfidenceFloor = viper.GetFloat64("analyzer.confidence_floor")
	}
	return cfg
}

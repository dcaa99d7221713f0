// Package llm provides clients for LLM completion providers.
//
// Clients implement service.CompletionClient: one prompt in, one completion
// string out. Response bodies are expected to be strict JSON (possibly
// fenced in markdown, see CleanMarkdownWrapper); interpreting that JSON is
// the caller's business.
package llm

import (
	"time"
)

// Config holds configuration for an LLM client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	RateLimit   int
	CacheTTL    time.Duration
}

// defaultTimeout bounds each provider call so a slow provider cannot stall
// the matching pipeline; callers fall back to the local parser on expiry.
const defaultTimeout = 10 * time.Second

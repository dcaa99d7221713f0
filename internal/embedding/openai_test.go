package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedderRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewOpenAIEmbedderDefaults(t *testing.T) {
	e, err := NewOpenAIEmbedder(Config{APIKey: "test-key"})
	require.NoError(t, err)

	impl, ok := e.(*openAIEmbedder)
	require.True(t, ok)
	assert.Equal(t, "text-embedding-3-small", impl.model)
	assert.Equal(t, defaultTimeout, impl.httpClient.Timeout)
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	e, err := NewOpenAIEmbedder(Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}

package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionCacheSetGet(t *testing.T) {
	cache := newCompletionCache(time.Minute)
	defer cache.Close()

	key := cacheKey("system", "prompt")

	_, found := cache.get(key)
	assert.False(t, found)

	cache.set(key, `{"intent":"purchase"}`)

	got, found := cache.get(key)
	assert.True(t, found)
	assert.Equal(t, `{"intent":"purchase"}`, got)
	assert.Equal(t, 1, cache.size())
}

func TestCompletionCacheExpiry(t *testing.T) {
	cache := newCompletionCache(10 * time.Millisecond)
	defer cache.Close()

	key := cacheKey("system", "prompt")
	cache.set(key, "completion")

	time.Sleep(20 * time.Millisecond)

	_, found := cache.get(key)
	assert.False(t, found)
}

func TestCacheKeyDistinguishesSystemAndPrompt(t *testing.T) {
	// The separator keeps ("ab", "c") and ("a", "bc") from colliding.
	assert.NotEqual(t, cacheKey("ab", "c"), cacheKey("a", "bc"))
	assert.Equal(t, cacheKey("s", "p"), cacheKey("s", "p"))
}

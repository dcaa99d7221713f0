package search

import (
	"container/list"
	"sync"
)

// defaultCacheSize bounds the embedding cache. Long-lived processes would
// otherwise grow it without limit, one entry per distinct query or product
// text ever embedded.
const defaultCacheSize = 512

// embedCache is a thread-safe LRU cache of embedding vectors keyed by
// normalized text.
type embedCache struct {
	entries map[string]*list.Element
	order   *list.List
	cap     int
	mu      sync.Mutex
}

type embedEntry struct {
	key    string
	vector []float32
}

func newEmbedCache(capacity int) *embedCache {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}
	return &embedCache{
		entries: make(map[string]*list.Element, capacity),
		order:   list.New(),
		cap:     capacity,
	}
}

func (c *embedCache) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*embedEntry).vector, true
}

func (c *embedCache) set(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*embedEntry).vector = vector
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&embedEntry{key: key, vector: vector})

	for c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*embedEntry).key)
	}
}

func (c *embedCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

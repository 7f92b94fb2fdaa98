package math32

import (
	"container/list"
	"sync"
)

// Cache is a generic LRU cache, safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	ll       *list.List
	cache    map[K]*list.Element
	mu       sync.Mutex
	hits     int64
	misses   int64
	onEvict  func(key K, value V)
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewCache creates a new LRU cache, capacity must be greater than 0.
func NewCache[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		panic("lru: capacity must be greater than 0")
	}
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		cache:    make(map[K]*list.Element),
	}
}

// OnEvict registers a callback invoked (under the cache lock) when an entry
// is pushed out by capacity or removed explicitly.
func (c *Cache[K, V]) OnEvict(fn func(key K, value V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the cached value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.cache[key]
	if !ok {
		c.misses++
		return
	}

	c.ll.MoveToFront(el)
	c.hits++
	return el.Value.(*entry[K, V]).value, true
}

// Put inserts or replaces a value.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.cache[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.ll.MoveToFront(el)
		return
	}

	c.cache[key] = c.ll.PushFront(&entry[K, V]{key, value})
	if c.ll.Len() > c.capacity {
		c.removeElement(c.ll.Back())
	}
}

// Remove drops key from the cache and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.cache[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

func (c *Cache[K, V]) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.ll.Remove(el)
	kv := el.Value.(*entry[K, V])
	delete(c.cache, kv.key)
	if c.onEvict != nil {
		c.onEvict(kv.key, kv.value)
	}
}

// Keys returns the keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

// Len returns the number of elements in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Capacity returns the capacity of the cache.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
	Capacity int     `json:"capacity"`
	Size     int     `json:"size"`
}

// GetStats returns a snapshot of the hit counters.
func (c *Cache[K, V]) GetStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Capacity: c.capacity,
		Size:     c.ll.Len(),
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

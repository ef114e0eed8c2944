// Package cache provides a small bounded in-memory cache with strict
// insertion-order eviction: when the cache is full, the entry that was
// inserted first is dropped, regardless of how recently it was read.
// There is no time-based expiry; entries live until evicted or purged.
package cache

import "sync"

type FIFO[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]V
	order    []K
}

func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &FIFO[K, V]{
		capacity: capacity,
		entries:  map[K]V{},
		order:    []K{},
	}
}

func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, found := c.entries[key]
	return value, found
}

// Add inserts or overwrites an entry. Overwriting does not refresh the
// entry's position in the eviction order.
func (c *FIFO[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.entries[key]; found {
		c.entries[key] = value
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

func (c *FIFO[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found := c.entries[key]
	return found
}

func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *FIFO[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[K]V{}
	c.order = []K{}
}

// Package cache provides a small in-memory TTL cache used to track
// short-lived per-session state.
package cache

import (
	"sync"
	"time"
)

// Cache stores values with a fixed time-to-live. Expired entries are
// evicted on access, so memory use is bounded by the set of keys
// touched within one TTL window.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	value  any
	stored time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Set stores value under key, resetting its expiry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, stored: time.Now()}
}

// Get returns the value under key if it has not expired. Expired
// entries are removed on the way out.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.stored) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

package cache

import (
	"strings"
	"sync"
	"time"
)

// Stats describes the cache population at a point in time. Expired entries stay
// in storage until SweepExpired reclaims them.
type Stats struct {
	TotalEntries   int
	ValidEntries   int
	ExpiredEntries int
}

type entry struct {
	value      interface{}
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.insertedAt) >= e.ttl
}

// Cache is a read-through TTL cache for expensive aggregate reads.
// Expiry is evaluated lazily on read; nothing expires proactively.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewCache creates a cache with the given default TTL.
func NewCache(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// GetOrCompute returns the cached value when present and not expired; otherwise
// it invokes compute, stores the result with the given (or default) TTL and
// returns it. Compute errors pass through uncached.
func (c *Cache) GetOrCompute(key string, compute func() (interface{}, error), ttl ...time.Duration) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.expired(c.now()) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	return c.ComputeAndCache(key, compute, ttl...)
}

// ComputeAndCache unconditionally invokes compute and overwrites the entry
// (forced refresh).
func (c *Cache) ComputeAndCache(key string, compute func() (interface{}, error), ttl ...time.Duration) (interface{}, error) {
	value, err := compute()
	if err != nil {
		return nil, err
	}

	effective := c.defaultTTL
	if len(ttl) > 0 {
		effective = ttl[0]
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, insertedAt: c.now(), ttl: effective}
	c.mu.Unlock()

	return value, nil
}

// Evict removes a single entry.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// EvictPattern removes entries matching the pattern: a trailing "*" matches by
// prefix, anything else is an exact match.
func (c *Cache) EvictPattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.HasSuffix(pattern, "*") {
		delete(c.entries, pattern)
		return
	}

	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats counts total, valid and expired-but-present entries.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{TotalEntries: len(c.entries)}
	now := c.now()
	for _, e := range c.entries {
		if e.expired(now) {
			stats.ExpiredEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

// SweepExpired physically removes all expired entries and returns how many were
// reclaimed. Entries refreshed concurrently are re-checked under the lock and
// kept.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

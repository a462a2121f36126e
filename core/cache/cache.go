package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 30 * time.Second

// Cache memoizes expensive walker results under a fixed time-to-live.
// Every operation is mutually exclusive with every other operation on the
// same instance; one coarse lock is enough because entries are opaque blobs
// and operations are fast. Independent caches never share a lock, so
// contention on one cannot stall another. The lock must never be held
// across a remote call; callers do the slow work outside and only touch
// the cache for the brief get/set bookkeeping around it.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value  any
	expiry time.Time
}

// Stats is a snapshot of entry counts per expiry state.
type Stats struct {
	Total   int           `json:"total_entries"`
	Active  int           `json:"active_entries"`
	Expired int           `json:"expired_entries"`
	TTL     time.Duration `json:"ttl"`
}

// New creates a cache with the given TTL, or DefaultTTL when zero or negative.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value if present and not expired. A read past
// expiry is treated identically to absence and purges the stale entry.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value with expiry now + TTL, overwriting any existing entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiry: c.now().Add(c.ttl)}
}

// Invalidate removes one entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// GetStats returns a snapshot of entry counts. It does not purge expired
// entries; observing the cache must not mutate it.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Total: len(c.entries), TTL: c.ttl}
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiry) {
			stats.Active++
		} else {
			stats.Expired++
		}
	}
	return stats
}

package prediction

import (
	"sync"
	"time"
)

// Clock abstracts time for cache-expiry testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used outside tests.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

type cacheEntry struct {
	value  *Result
	expiry time.Time
}

// resultCache memoizes prediction results for a fixed window. Concurrent
// access is safe; last writer wins on a racing insert, and staleness is
// bounded by the TTL.
type resultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	entries map[string]cacheEntry
}

func newResultCache(ttl time.Duration, clock Clock) *resultCache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &resultCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached value for key if it has not expired.
func (c *resultCache) get(key string) (*Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.clock.Now().After(e.expiry) {
		return nil, false
	}
	return e.value, true
}

// put stores value under key with an expiry of now+TTL.
func (c *resultCache) put(key string, value *Result) {
	expiry := c.clock.Now().Add(c.ttl)
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiry: expiry}
	c.mu.Unlock()
}

// purge drops expired entries. Called opportunistically on writes so the
// map does not grow without bound during long sweeps.
func (c *resultCache) purge() {
	now := c.clock.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// len reports the number of live entries, expired or not.
func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

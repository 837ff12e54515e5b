// SPDX-License-Identifier: MIT

// Package cache provides a TTL cache for derived responses (quotes,
// testimonial statistics) with in-memory, Redis and no-op backends.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rishabh7g/rrishmusic/internal/metrics"
)

// Cache provides thread-safe caching with expiration support.
type Cache interface {
	// Get retrieves a value from the cache. Returns false if not found or expired.
	Get(key string) (any, bool)
	// Set stores a value in the cache with the specified TTL.
	Set(key string, value any, ttl time.Duration)
	// Delete removes a value from the cache.
	Delete(key string)
	// Clear removes all values from the cache.
	Clear()
	// Stats returns cache statistics.
	Stats() CacheStats
}

// CacheStats holds cache performance counters.
type CacheStats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Sets        int64 `json:"sets"`
	Evictions   int64 `json:"evictions"`
	CurrentSize int   `json:"currentSize"`
}

// entry is a cached value with its expiration time.
type entry struct {
	value      any
	expiration time.Time
}

func (e *entry) isExpired() bool {
	return time.Now().After(e.expiration)
}

// memoryCache is the in-memory implementation of Cache.
type memoryCache struct {
	name    string
	mu      sync.RWMutex
	entries map[string]*entry
	janitor *janitor

	stats struct {
		hits      atomic.Int64
		misses    atomic.Int64
		sets      atomic.Int64
		evictions atomic.Int64
	}
}

// NewMemoryCache creates an in-memory cache. The name labels its metrics.
// A positive cleanupInterval starts a janitor goroutine that sweeps
// expired entries; Stop shuts it down.
func NewMemoryCache(name string, cleanupInterval time.Duration) Cache {
	c := &memoryCache{
		name:    name,
		entries: make(map[string]*entry),
	}

	if cleanupInterval > 0 {
		c.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
		}
		go c.janitor.run(c)
	}

	return c
}

// Get retrieves a value. Expired entries count as misses; the janitor
// removes them later.
func (c *memoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.isExpired() {
		c.stats.misses.Add(1)
		metrics.IncCacheRequest(c.name, "miss")
		return nil, false
	}

	c.stats.hits.Add(1)
	metrics.IncCacheRequest(c.name, "hit")
	return e.value, true
}

// Set stores a value.
func (c *memoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = &entry{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.stats.sets.Add(1)
	metrics.SetCacheEntries(c.name, size)
}

// Delete removes a value.
func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.stats.evictions.Add(1)
		metrics.IncCacheEviction(c.name, "invalidated")
	}
	metrics.SetCacheEntries(c.name, size)
}

// Clear removes all values.
func (c *memoryCache) Clear() {
	c.mu.Lock()
	dropped := len(c.entries)
	c.entries = make(map[string]*entry)
	c.mu.Unlock()

	if dropped > 0 {
		c.stats.evictions.Add(int64(dropped))
		metrics.AddCacheEvictions(c.name, "invalidated", dropped)
	}
	metrics.SetCacheEntries(c.name, 0)
}

// Stats returns cache statistics.
func (c *memoryCache) Stats() CacheStats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Hits:        c.stats.hits.Load(),
		Misses:      c.stats.misses.Load(),
		Sets:        c.stats.sets.Load(),
		Evictions:   c.stats.evictions.Load(),
		CurrentSize: size,
	}
}

// deleteExpired sweeps expired entries and returns how many were removed.
func (c *memoryCache) deleteExpired() int {
	c.mu.Lock()
	count := 0
	for key, e := range c.entries {
		if e.isExpired() {
			delete(c.entries, key)
			count++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if count > 0 {
		c.stats.evictions.Add(int64(count))
		metrics.AddCacheEvictions(c.name, "expired", count)
	}
	metrics.SetCacheEntries(c.name, size)
	return count
}

// Stop stops the janitor goroutine.
func (c *memoryCache) Stop() {
	if c.janitor != nil {
		c.janitor.stop <- struct{}{}
	}
}

// janitor periodically sweeps expired entries.
type janitor struct {
	interval time.Duration
	stop     chan struct{}
}

func (j *janitor) run(c *memoryCache) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}

// noOpCache disables caching.
type noOpCache struct{}

// NewNoOpCache creates a cache that never stores anything.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (c *noOpCache) Get(key string) (any, bool)                   { return nil, false }
func (c *noOpCache) Set(key string, value any, ttl time.Duration) {}
func (c *noOpCache) Delete(key string)                            {}
func (c *noOpCache) Clear()                                       {}
func (c *noOpCache) Stats() CacheStats                            { return CacheStats{} }

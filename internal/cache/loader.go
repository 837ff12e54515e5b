// SPDX-License-Identifier: MIT

package cache

import (
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader wraps a Cache so that concurrent misses for the same key run the
// compute function once and share the result.
type Loader struct {
	cache Cache
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader creates a Loader storing computed values with the given TTL.
func NewLoader(c Cache, ttl time.Duration) *Loader {
	return &Loader{cache: c, ttl: ttl}
}

// Get returns the cached value for key, or computes, stores and returns
// it. The compute error is returned as-is and nothing is cached on error.
func (l *Loader) Get(key string, compute func() (any, error)) (any, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the cache while this one
		// waited on the group.
		if v, ok := l.cache.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		l.cache.Set(key, v, l.ttl)
		return v, nil
	})
	return v, err
}

// Invalidate drops a single key.
func (l *Loader) Invalidate(key string) {
	l.cache.Delete(key)
}

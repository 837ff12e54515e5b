// SPDX-License-Identifier: MIT

package cache

import (
	"time"

	"github.com/rs/zerolog"
)

// New constructs the cache for a configured backend ("memory", "redis",
// "none"). An unreachable Redis degrades to the in-memory cache with a
// warning; the service stays up either way.
func New(backend, name string, redisCfg RedisConfig, cleanupInterval time.Duration, logger zerolog.Logger) Cache {
	switch backend {
	case "redis":
		c, err := NewRedisCache(name, redisCfg, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("addr", redisCfg.Addr).
				Msg("redis unavailable, falling back to in-memory cache")
			return NewMemoryCache(name, cleanupInterval)
		}
		return c
	case "none":
		return NewNoOpCache()
	default:
		return NewMemoryCache(name, cleanupInterval)
	}
}

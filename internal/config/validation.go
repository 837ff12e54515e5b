// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"github.com/rishabh7g/rrishmusic/internal/metrics"
	"github.com/rishabh7g/rrishmusic/internal/validate"
)

// Cache backends accepted by Validate.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Contact store backends accepted by Validate.
const (
	ContactStoreMemory = "memory"
	ContactStoreSQLite = "sqlite"
	ContactStoreBadger = "badger"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.ListenAddr("APIListenAddr", cfg.APIListenAddr)
	if cfg.MetricsEnabled {
		v.ListenAddr("MetricsListenAddr", cfg.MetricsListenAddr)
		if cfg.MetricsListenAddr == cfg.APIListenAddr {
			v.AddError("MetricsListenAddr", "must differ from APIListenAddr", cfg.MetricsListenAddr)
		}
	}

	v.NotEmpty("DataDir", cfg.DataDir)

	if cfg.LogLevel != "" {
		if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
			v.AddError("LogLevel", err.Error(), cfg.LogLevel)
		}
	}

	// CORS origins must be absolute http(s) URLs or the wildcard.
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			v.AddError("AllowedOrigins", "origin must start with http:// or https://", origin)
			continue
		}
		if strings.HasSuffix(origin, "/") {
			v.AddError("AllowedOrigins", "origin must not have a trailing slash", origin)
		}
	}

	v.CIDRList("TrustedProxies", cfg.TrustedProxies)

	v.OneOf("Cache.Backend", cfg.Cache.Backend, []string{CacheBackendMemory, CacheBackendRedis, CacheBackendNone})
	if cfg.Cache.Backend != CacheBackendNone && cfg.Cache.TTL <= 0 {
		v.AddError("Cache.TTL", "must be positive", cfg.Cache.TTL)
	}
	if cfg.Cache.Backend == CacheBackendRedis {
		v.NotEmpty("Cache.Redis.Addr", cfg.Cache.Redis.Addr)
		v.NonNegative("Cache.Redis.DB", cfg.Cache.Redis.DB)
	}

	v.OneOf("Contact.Store", cfg.Contact.Store, []string{ContactStoreMemory, ContactStoreSQLite, ContactStoreBadger})
	if cfg.Contact.Store != ContactStoreMemory {
		v.NotEmpty("Contact.Path", cfg.Contact.Path)
	}
	v.NonNegative("Contact.RatePerMinute", cfg.Contact.RatePerMinute)
	if cfg.Contact.MaxBodyBytes <= 0 {
		v.AddError("Contact.MaxBodyBytes", "must be positive", cfg.Contact.MaxBodyBytes)
	}
	if cfg.Contact.IdempotencyTTL <= 0 {
		v.AddError("Contact.IdempotencyTTL", "must be positive", cfg.Contact.IdempotencyTTL)
	}

	if cfg.RateLimit.Enabled {
		v.Positive("RateLimit.RequestsPerMinute", cfg.RateLimit.RequestsPerMinute)
		v.Positive("RateLimit.Burst", cfg.RateLimit.Burst)
	}

	if cfg.Tracing.Enabled {
		v.OneOf("Tracing.Exporter", cfg.Tracing.Exporter, []string{"grpc", "http"})
		v.NotEmpty("Tracing.Endpoint", cfg.Tracing.Endpoint)
		if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
			v.AddError("Tracing.SampleRate",
				fmt.Sprintf("must be between 0.0 and 1.0, got %g", cfg.Tracing.SampleRate),
				cfg.Tracing.SampleRate)
		}
	}

	if !v.IsValid() {
		metrics.IncConfigValidationError()
		return v.Err()
	}

	return nil
}

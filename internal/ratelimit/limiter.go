// SPDX-License-Identifier: MIT

// Package ratelimit provides a token-bucket limiter keyed per client IP.
// The router-wide sliding-window limit lives in api/middleware; this
// limiter guards individual expensive endpoints (contact intake).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rishabh7g/rrishmusic/internal/metrics"
)

// Config holds per-IP rate limiting configuration.
type Config struct {
	// PerIPRate is the sustained rate in requests per second.
	PerIPRate rate.Limit

	// PerIPBurst is the maximum burst size per IP.
	PerIPBurst int

	// CleanupInterval bounds how long idle per-IP limiters are kept.
	CleanupInterval time.Duration
}

// PerMinute builds a Config allowing n requests per minute per IP with a
// small burst allowance.
func PerMinute(n int) Config {
	burst := n
	if burst < 1 {
		burst = 1
	}
	return Config{
		PerIPRate:       rate.Limit(float64(n) / 60.0),
		PerIPBurst:      burst,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter tracks one token bucket per client IP.
type Limiter struct {
	config Config
	name   string

	mu    sync.Mutex
	perIP map[string]*rate.Limiter

	lastCleanup time.Time
}

// New creates a limiter. name labels rejections in metrics.
func New(name string, config Config) *Limiter {
	return &Limiter{
		config:      config,
		name:        name,
		perIP:       make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether a request from clientIP is within its budget.
func (l *Limiter) Allow(clientIP string) bool {
	if !l.getIPLimiter(clientIP).Allow() {
		metrics.IncRateLimitRejection(l.name)
		return false
	}
	l.maybeCleanup()
	return true
}

func (l *Limiter) getIPLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.perIP[ip]
	if !exists {
		limiter = rate.NewLimiter(l.config.PerIPRate, l.config.PerIPBurst)
		l.perIP[ip] = limiter
	}
	return limiter
}

// maybeCleanup drops all per-IP limiters once per cleanup interval. A
// dropped limiter refills to a full burst, which is acceptable slack for
// the traffic volumes involved.
func (l *Limiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	l.perIP = make(map[string]*rate.Limiter)
	l.lastCleanup = time.Now()
}

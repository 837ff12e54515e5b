// SPDX-License-Identifier: MIT

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPerMinuteConfig(t *testing.T) {
	cfg := PerMinute(5)
	assert.InDelta(t, float64(5)/60.0, float64(cfg.PerIPRate), 0.0001)
	assert.Equal(t, 5, cfg.PerIPBurst)

	cfg = PerMinute(0)
	assert.Equal(t, 1, cfg.PerIPBurst, "burst floor must be 1")
}

func TestLimiterAllowsWithinBurst(t *testing.T) {
	l := New("test", PerMinute(5))

	for i := 0; i < 5; i++ {
		require.True(t, l.Allow("203.0.113.1"), "request %d should be within burst", i+1)
	}
	assert.False(t, l.Allow("203.0.113.1"), "burst exhausted, must reject")

	// A different IP has its own bucket.
	assert.True(t, l.Allow("203.0.113.2"))
}

func TestLimiterRefills(t *testing.T) {
	l := New("test", Config{
		PerIPRate:       rate.Every(20 * time.Millisecond),
		PerIPBurst:      1,
		CleanupInterval: time.Hour,
	})

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	time.Sleep(40 * time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1"), "bucket should refill over time")
}

func TestLimiterCleanupResetsBuckets(t *testing.T) {
	l := New("test", Config{
		PerIPRate:       rate.Limit(0.001),
		PerIPBurst:      1,
		CleanupInterval: 10 * time.Millisecond,
	})

	require.True(t, l.Allow("10.0.0.9"))
	require.False(t, l.Allow("10.0.0.9"))

	time.Sleep(20 * time.Millisecond)
	// Cleanup runs on the next Allow and hands out a fresh bucket.
	assert.True(t, l.Allow("10.0.0.9"))
}

// SPDX-License-Identifier: MIT

package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache("test", 0) // no janitor for this test

	cache.Set("key1", "value1", 5*time.Minute)

	val, ok := cache.Get("key1")
	require.True(t, ok, "expected to find key1")
	assert.Equal(t, "value1", val)

	_, ok = cache.Get("nonexistent")
	assert.False(t, ok, "expected not to find nonexistent key")
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache("test", 0)

	cache.Set("shortlived", "value", 50*time.Millisecond)

	val, ok := cache.Get("shortlived")
	require.True(t, ok)
	assert.Equal(t, "value", val)

	time.Sleep(100 * time.Millisecond)

	_, ok = cache.Get("shortlived")
	assert.False(t, ok, "expected key to be expired")
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache("test", 0)

	cache.Set("key1", "value1", 5*time.Minute)

	_, ok := cache.Get("key1")
	require.True(t, ok)

	cache.Delete("key1")

	_, ok = cache.Get("key1")
	assert.False(t, ok)
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache("test", 0)

	cache.Set("key1", "value1", 5*time.Minute)
	cache.Set("key2", "value2", 5*time.Minute)
	cache.Set("key3", "value3", 5*time.Minute)

	stats := cache.Stats()
	assert.Equal(t, 3, stats.CurrentSize)

	cache.Clear()

	stats = cache.Stats()
	assert.Equal(t, 0, stats.CurrentSize)
	assert.Equal(t, int64(3), stats.Evictions, "cleared entries count as evictions")

	_, ok := cache.Get("key1")
	assert.False(t, ok)
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache("test", 0)

	cache.Set("key1", "value1", 5*time.Minute)
	cache.Set("key2", "value2", 5*time.Minute)

	cache.Get("key1")        // hit
	cache.Get("key1")        // hit
	cache.Get("nonexistent") // miss

	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.Sets)
	assert.Equal(t, 2, stats.CurrentSize)
}

func TestMemoryCache_Janitor(t *testing.T) {
	cache := NewMemoryCache("test", 50*time.Millisecond)
	defer cache.(*memoryCache).Stop()

	cache.Set("key1", "value1", 30*time.Millisecond)
	cache.Set("key2", "value2", 30*time.Millisecond)
	cache.Set("longLived", "value3", 10*time.Second)

	// Give the janitor a few sweep cycles.
	time.Sleep(150 * time.Millisecond)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.CurrentSize, "janitor should have removed expired entries")
	assert.Greater(t, stats.Evictions, int64(0), "evictions should have occurred")

	_, ok := cache.Get("longLived")
	assert.True(t, ok, "long-lived entry should still exist")
}

func TestMemoryCache_ConcurrentAccess(_ *testing.T) {
	cache := NewMemoryCache("test", 1*time.Minute)
	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			cache.Set("key", i, 5*time.Minute)
			time.Sleep(1 * time.Millisecond)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			cache.Get("key")
			time.Sleep(1 * time.Millisecond)
		}
		done <- true
	}()

	<-done
	<-done
}

func TestNoOpCache(t *testing.T) {
	cache := NewNoOpCache()

	cache.Set("key", "value", 5*time.Minute)

	_, ok := cache.Get("key")
	assert.False(t, ok, "noop cache should never return values")

	cache.Delete("key")
	cache.Clear()

	stats := cache.Stats()
	assert.Equal(t, CacheStats{}, stats, "noop cache stats should be empty")
}

func TestLoader_ComputesOnceAndCaches(t *testing.T) {
	cache := NewMemoryCache("test", 0)
	loader := NewLoader(cache, 5*time.Minute)

	var computed atomic.Int32
	compute := func() (any, error) {
		computed.Add(1)
		return "result", nil
	}

	v, err := loader.Get("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "result", v)

	v, err = loader.Get("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "result", v)

	assert.Equal(t, int32(1), computed.Load(), "second call must be served from cache")
}

func TestLoader_CollapsesConcurrentComputes(t *testing.T) {
	cache := NewMemoryCache("test", 0)
	loader := NewLoader(cache, 5*time.Minute)

	var computed atomic.Int32
	compute := func() (any, error) {
		computed.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "shared", nil
	}

	const callers = 20
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := loader.Get("k", compute)
			assert.NoError(t, err)
			assert.Equal(t, "shared", v)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), computed.Load(), "concurrent misses must share one computation")
}

func TestLoader_ErrorNotCached(t *testing.T) {
	cache := NewMemoryCache("test", 0)
	loader := NewLoader(cache, 5*time.Minute)

	calls := 0
	_, err := loader.Get("k", func() (any, error) {
		calls++
		return nil, assert.AnError
	})
	require.Error(t, err)

	v, err := loader.Get("k", func() (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls, "a failed compute must not poison the cache")
}

func TestLoader_Invalidate(t *testing.T) {
	cache := NewMemoryCache("test", 0)
	loader := NewLoader(cache, 5*time.Minute)

	calls := 0
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	v, _ := loader.Get("k", compute)
	assert.Equal(t, 1, v)

	loader.Invalidate("k")

	v, _ = loader.Get("k", compute)
	assert.Equal(t, 2, v, "invalidated key must be recomputed")
}

func TestNew_BackendSelection(t *testing.T) {
	logger := zerolog.Nop()

	c := New("memory", "test", RedisConfig{}, 0, logger)
	if _, ok := c.(*memoryCache); !ok {
		t.Errorf("memory backend gave %T", c)
	}

	c = New("none", "test", RedisConfig{}, 0, logger)
	if _, ok := c.(*noOpCache); !ok {
		t.Errorf("none backend gave %T", c)
	}

	// Nothing listens here; construction must degrade to memory.
	c = New("redis", "test", RedisConfig{Addr: "127.0.0.1:1"}, 0, logger)
	if _, ok := c.(*memoryCache); !ok {
		t.Errorf("unreachable redis should fall back to memory, gave %T", c)
	}
}

func BenchmarkMemoryCache_Set(b *testing.B) {
	cache := NewMemoryCache("bench", 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Set("key", "value", 5*time.Minute)
	}
}

func BenchmarkMemoryCache_Get(b *testing.B) {
	cache := NewMemoryCache("bench", 0)
	cache.Set("key", "value", 5*time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get("key")
	}
}

func BenchmarkMemoryCache_GetMiss(b *testing.B) {
	cache := NewMemoryCache("bench", 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get("nonexistent")
	}
}

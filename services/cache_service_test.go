package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheServiceGetSet(t *testing.T) {
	cache := NewCacheServiceWithConfig(time.Minute, 10)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("key", 42)
	value, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, 42, value)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestCacheServiceExpiry(t *testing.T) {
	cache := NewCacheServiceWithConfig(time.Minute, 10)
	cache.SetWithTTL("short", "v", -time.Second)
	cache.Set("long", "v")

	_, ok := cache.Get("short")
	assert.False(t, ok)

	assert.Equal(t, 1, cache.CleanupExpired())
	assert.Equal(t, 1, cache.Size())
}

func TestCacheServiceEvictsEntryClosestToExpiry(t *testing.T) {
	cache := NewCacheServiceWithConfig(time.Minute, 2)
	cache.SetWithTTL("first", 1, time.Second)
	cache.SetWithTTL("second", 2, time.Hour)
	cache.SetWithTTL("third", 3, time.Hour)

	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Get("first")
	assert.False(t, ok)
	_, ok = cache.Get("third")
	assert.True(t, ok)
	assert.Equal(t, int64(1), cache.GetStats()["evictions"])
}

func TestCacheServiceDeleteAndClear(t *testing.T) {
	cache := NewCacheServiceWithConfig(0, 0)
	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Delete("a")
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	assert.Zero(t, cache.Size())
}

func TestCacheServiceDeletePrefix(t *testing.T) {
	cache := NewCacheServiceWithConfig(time.Minute, 10)
	cache.Set("suggestions:1", "a")
	cache.Set("suggestions:2", "b")
	cache.Set("stats", "c")

	assert.Equal(t, 2, cache.DeletePrefix("suggestions:"))
	assert.Equal(t, 1, cache.Size())
	assert.Equal(t, 0, cache.DeletePrefix("suggestions:"))
}

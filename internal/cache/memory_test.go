package cache

import (
	"context"
	"testing"
	"time"
)

func newTestMemoryCache(t *testing.T, cfg ProviderConfig) Cache {
	t.Helper()
	c, err := New("memory", cfg)
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, ProviderConfig{Size: 10, TTL: time.Hour})

	val, ok := c.Get(ctx, "key1")
	if ok {
		t.Fatal("Expected miss for key1")
	}
	if val != nil {
		t.Fatalf("Expected nil value on miss, got %v", val)
	}

	c.Set(ctx, "key1", []byte("value1"))
	val, ok = c.Get(ctx, "key1")
	if !ok {
		t.Fatal("Expected hit for key1")
	}
	if string(val) != "value1" {
		t.Fatalf("Expected value1, got %s", string(val))
	}
}

func TestMemoryCache_Len(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, ProviderConfig{Size: 10, TTL: time.Hour})

	if c.Len() != 0 {
		t.Fatalf("Expected Len 0, got %d", c.Len())
	}

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	if c.Len() != 2 {
		t.Fatalf("Expected Len 2, got %d", c.Len())
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	ctx := context.Background()
	evictedKeys := make([]string, 0)
	c := newTestMemoryCache(t, ProviderConfig{Size: 2, TTL: time.Hour, OnEvict: func(key string) {
		evictedKeys = append(evictedKeys, key)
	}})

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3")) // evicts "a"

	if len(evictedKeys) != 1 || evictedKeys[0] != "a" {
		t.Fatalf("Expected eviction of 'a', got %v", evictedKeys)
	}
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("Evicted key 'a' should not be present")
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Fatal("Key 'c' should still be present")
	}
}

func TestMemoryCache_GetRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, ProviderConfig{Size: 2, TTL: time.Hour})

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3")) // evicts "b"

	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("Expected 'b' to be evicted after 'a' was read")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("Expected 'a' to survive")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, ProviderConfig{Size: 10, TTL: 50 * time.Millisecond})

	c.Set(ctx, "short", []byte("lived"))
	time.Sleep(120 * time.Millisecond)

	if _, ok := c.Get(ctx, "short"); ok {
		t.Fatal("Expected entry to expire after TTL")
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, ProviderConfig{Size: 10, TTL: time.Hour})

	c.Set(ctx, "key", []byte("v1"))
	c.Set(ctx, "key", []byte("v2"))

	val, ok := c.Get(ctx, "key")
	if !ok || string(val) != "v2" {
		t.Fatalf("Expected v2, got %q (ok=%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Expected Len 1 after overwrite, got %d", c.Len())
	}
}

func TestMemoryCache_DefaultSize(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, ProviderConfig{TTL: time.Hour})

	c.Set(ctx, "k", []byte("v"))
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("Expected cache with default size to store entries")
	}
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis tests need a live Redis/Valkey server and are skipped unless REDIS_ADDRESS is set.

func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("Skipping Redis tests: set REDIS_ADDRESS to enable")
	}
	return addr
}

// flushTestRedisDB clears DB 15 so tests start with a clean slate.
func flushTestRedisDB(t *testing.T, addr string) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush Redis test DB: %v", err)
	}
}

func newTestRedisCache(t *testing.T, size int, ttl time.Duration, onEvict EvictCallback) Cache {
	t.Helper()
	addr := skipIfNoRedis(t)
	flushTestRedisDB(t, addr)
	c, err := New("redis", ProviderConfig{
		Size:         size,
		TTL:          ttl,
		RedisAddress: addr,
		RedisDB:      15,
		OnEvict:      onEvict,
	})
	if err != nil {
		t.Fatalf("New redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 100, 10*time.Second, nil)

	if val, ok := c.Get(ctx, "redis-test-key"); ok || val != nil {
		t.Fatalf("Expected miss for new key, got %q", val)
	}

	c.Set(ctx, "redis-test-key", []byte("hello"))
	val, ok := c.Get(ctx, "redis-test-key")
	if !ok || string(val) != "hello" {
		t.Fatalf("Expected 'hello', got %q (ok=%v)", val, ok)
	}
}

func TestRedisCache_Len(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 100, 10*time.Second, nil)

	if n := c.Len(); n != 0 {
		t.Fatalf("Expected Len 0 on clean DB, got %d", n)
	}

	c.Set(ctx, "redis-len-a", []byte("1"))
	c.Set(ctx, "redis-len-b", []byte("2"))
	c.Set(ctx, "redis-len-a", []byte("3"))

	if n := c.Len(); n != 2 {
		t.Fatalf("Expected Len 2, got %d", n)
	}
}

func TestRedisCache_LRU_Eviction(t *testing.T) {
	ctx := context.Background()
	evicted := make([]string, 0)
	c := newTestRedisCache(t, 2, 10*time.Second, func(key string) {
		evicted = append(evicted, key)
	})

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3")) // evicts "a"

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("Evicted key 'a' should not be present")
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("Expected eviction of 'a', got %v", evicted)
	}
}

func TestRedisCache_LRU_TouchPromotesEntry(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 2, 10*time.Second, nil)

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3")) // evicts "b"

	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("Expected 'b' to be evicted after 'a' was touched")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("Key 'a' should still be present")
	}
}

func TestRedisCache_ExpiryIsAbsolute(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 10, 300*time.Millisecond, nil)

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("Expected entry to be live before TTL")
	}
	time.Sleep(250 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Expected read not to extend TTL")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Expected expired entry to be purged from Len, got %d", n)
	}
}

package cache

import "context"

// EvictCallback is called when an entry leaves the cache because it expired or
// was pushed out to make room for a new one.
type EvictCallback func(key string)

// Cache is a bounded key-value store with absolute per-entry expiry.
// Entries expire TTL after they were written; reads refresh recency but never extend the TTL,
// so a cached descriptor never outlives the CDN links it carries.
type Cache interface {
	// Get returns the value stored under key, or false on a miss or expired entry.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value and restarting its TTL.
	Set(ctx context.Context, key string, value []byte)

	// Len returns the number of live entries.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}

// Logger receives errors from backends whose operations cannot fail loudly.
type Logger interface {
	Error(msg string, err error)
}

package cache

import (
	"context"
	"encoding/json"
)

// JSON stores values of type T in a Cache as JSON documents under a fixed key namespace.
type JSON[T any] struct {
	inner     Cache
	namespace string
	logger    Logger
}

// NewJSON wraps inner. Keys are prefixed with namespace and ":".
func NewJSON[T any](inner Cache, namespace string, logger Logger) *JSON[T] {
	return &JSON[T]{inner: inner, namespace: namespace, logger: logger}
}

func (j *JSON[T]) key(k string) string {
	return j.namespace + ":" + k
}

// Get decodes the value stored under k. Undecodable entries are reported and treated as a miss.
func (j *JSON[T]) Get(ctx context.Context, k string) (T, bool) {
	var value T
	raw, ok := j.inner.Get(ctx, j.key(k))
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		if j.logger != nil {
			j.logger.Error("cache entry could not be decoded", err)
		}
		var zero T
		return zero, false
	}
	return value, true
}

// Set encodes value and stores it under k.
func (j *JSON[T]) Set(ctx context.Context, k string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("cache entry could not be encoded", err)
		}
		return
	}
	j.inner.Set(ctx, j.key(k), raw)
}

// Close closes the underlying cache.
func (j *JSON[T]) Close() error {
	return j.inner.Close()
}

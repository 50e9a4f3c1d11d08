// Package cache provides the verdict cache used by the check drivers.
//
// Model checking the same model file with the same formula always yields the
// same satisfaction set, so results are safe to memoize indefinitely; the TTL
// exists only to bound storage. Keys combine the content hash of the model
// record with the formula's canonical string form, so any edit to either
// invalidates the entry naturally.
//
// Backends: file (default for the CLI), Redis and MongoDB (for the HTTP
// server), and null (caching disabled). All backends store opaque bytes.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second result is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// CheckKey builds the cache key for a check result: the model record's
// content hash combined with the formula's canonical string form, hashed so
// arbitrarily large formulas produce fixed-size keys.
func CheckKey(modelHash, formula string) string {
	return fmt.Sprintf("check:%s:%s", modelHash, Hash([]byte(formula)))
}

// ScopedCache prefixes every key with a namespace, so multiple tools or
// tenants can share one backend without collisions.
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps a cache with a key prefix.
func NewScopedCache(inner Cache, prefix string) Cache {
	return &ScopedCache{inner: inner, prefix: prefix}
}

func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

func (c *ScopedCache) Close() error { return c.inner.Close() }

var _ Cache = (*ScopedCache)(nil)

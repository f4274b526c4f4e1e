// Package cache provides the TTL key-value cache used for read-through
// caching of upstream results.
//
// Caching is a performance optimization, not a source of truth: every
// backend failure is absorbed here, logged, and surfaced to callers as a
// miss or an unacknowledged write. The gateway functions correctly, if
// slower, with the cache absent or unreachable.
package cache

import (
	"context"
	"time"
)

// Cache is the key-value cache port.
type Cache interface {
	// Get returns the stored payload for key, or false on a miss.
	// Backend failures are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the given TTL. Returns false when
	// the write was not durably acknowledged.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// ClearAll purges every entry in the cache namespace.
	ClearAll(ctx context.Context) bool

	// Health reports backend liveness, independent of Get/Set.
	Health(ctx context.Context) Health
}

// Health is the result of a cache liveness probe.
type Health struct {
	Status string `json:"status"` // "healthy", "unhealthy", or "disabled"
	Error  string `json:"error,omitempty"`
}

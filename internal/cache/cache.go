// Package cache provides the key-value cache contract used by the
// repositories and the rate limiter, plus its Redis implementation.
//
// Every implementation must fail open: an operation that cannot complete
// reports a miss or no-op instead of an error, so callers stay usable with
// the cache effectively disabled.
package cache

import (
	"context"
	"time"
)

// Cache is the namespaced key-value contract. Keys follow the
// "entity-type:id" convention; DeletePattern takes a glob such as
// "rate_limit:*".
type Cache interface {
	// Get returns the raw value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with a bounded TTL. Reports success.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes a single key. Reports whether a key was removed.
	Delete(ctx context.Context, key string) bool

	// DeletePattern removes all keys matching a glob pattern and returns
	// the number removed.
	DeletePattern(ctx context.Context, pattern string) int

	// Increment atomically bumps a counter and anchors its expiry to the
	// counter's creation. Returns the post-increment value, or 0 when the
	// backend is unavailable.
	Increment(ctx context.Context, key string, ttl time.Duration) int64
}

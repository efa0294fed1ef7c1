// Package ratelimit provides fixed-window per-client admission control
// backed by the shared cache's atomic increment-with-expiry.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"officebook/internal/cache"
)

const keyPrefix = "rate_limit:"

// Limiter rejects clients that exceed MaxRequests within a fixed window
// anchored to their first request. When the counter store is unavailable it
// fails open: availability wins over strict enforcement.
type Limiter struct {
	cache  cache.Cache
	max    int64
	window time.Duration
	logger *zerolog.Logger
}

// New constructs a limiter. Non-positive arguments fall back to 100 requests
// per 60 seconds.
func New(c cache.Cache, maxRequests int, window time.Duration, logger *zerolog.Logger) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{cache: c, max: int64(maxRequests), window: window, logger: logger}
}

// Allow admits or rejects a single request for clientID. The counter is
// incremented even for rejected calls, so a client hammering past the limit
// stays rejected until the window expires.
func (l *Limiter) Allow(ctx context.Context, clientID string) bool {
	count := l.cache.Increment(ctx, keyPrefix+clientID, l.window)
	if count == 0 {
		// Backend unavailable; fail open.
		return true
	}
	if count > l.max {
		l.logger.Warn().Str("client", clientID).Int64("count", count).Msg("rate limit exceeded")
		return false
	}
	return true
}

// Remaining returns the best-effort remaining quota for clientID. It never
// mutates state and is not authoritative.
func (l *Limiter) Remaining(ctx context.Context, clientID string) int64 {
	raw, ok := l.cache.Get(ctx, keyPrefix+clientID)
	if !ok {
		return l.max
	}
	count, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return l.max
	}
	if count >= l.max {
		return 0
	}
	return l.max - count
}

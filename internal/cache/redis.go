package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const opTimeout = 2 * time.Second

// Redis implements Cache on top of go-redis. All faults are logged and
// swallowed; the caller sees a miss.
type Redis struct {
	client *redis.Client
	logger *zerolog.Logger
}

// NewRedis wraps an existing client. A failed initial ping only degrades the
// cache, it never prevents startup.
func NewRedis(client *redis.Client, logger *zerolog.Logger) *Redis {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, caching degraded")
	} else {
		logger.Info().Msg("redis connection established")
	}
	return &Redis{client: client, logger: logger}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug().Str("key", key).Msg("cache miss")
		return nil, false
	}
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("cache get error")
		return nil, false
	}
	c.logger.Debug().Str("key", key).Msg("cache hit")
	return val, true
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("cache set error")
		return false
	}
	c.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")
	return true
}

func (c *Redis) Delete(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("cache delete error")
		return false
	}
	return n > 0
}

func (c *Redis) DeletePattern(ctx context.Context, pattern string) int {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var deleted int
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Error().Err(err).Str("key", iter.Val()).Msg("cache delete error")
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		c.logger.Error().Err(err).Str("pattern", pattern).Msg("cache scan error")
	}
	if deleted > 0 {
		c.logger.Debug().Str("pattern", pattern).Int("deleted", deleted).Msg("cache delete pattern")
	}
	return deleted
}

func (c *Redis) Increment(ctx context.Context, key string, ttl time.Duration) int64 {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// INCR and EXPIRE NX travel in one pipeline so the window is anchored
	// to the first request; later hits never push the expiry forward.
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("cache increment error")
		return 0
	}
	return incr.Val()
}

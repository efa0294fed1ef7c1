package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.Nop()
	return NewRedis(client, &logger), mr
}

func TestRedisGetSet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		_, ok := c.Get(ctx, "office:1")
		assert.False(t, ok)

		assert.True(t, c.Set(ctx, "office:1", []byte(`{"id":1}`), time.Minute))

		val, ok := c.Get(ctx, "office:1")
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"id":1}`), val)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		require.True(t, c.Set(ctx, "office:2", []byte("x"), time.Second))

		_, ok := c.Get(ctx, "office:2")
		assert.True(t, ok)

		mr.FastForward(1100 * time.Millisecond)

		_, ok = c.Get(ctx, "office:2")
		assert.False(t, ok)
	})

	t.Run("Delete", func(t *testing.T) {
		require.True(t, c.Set(ctx, "office:3", []byte("x"), time.Minute))
		assert.True(t, c.Delete(ctx, "office:3"))
		assert.False(t, c.Delete(ctx, "office:3"))
	})
}

func TestRedisDeletePattern(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "rate_limit:10.0.0.1", []byte("3"), time.Minute)
	c.Set(ctx, "rate_limit:10.0.0.2", []byte("7"), time.Minute)
	c.Set(ctx, "office:1", []byte("x"), time.Minute)

	deleted := c.DeletePattern(ctx, "rate_limit:*")
	assert.Equal(t, 2, deleted)

	_, ok := c.Get(ctx, "office:1")
	assert.True(t, ok, "unrelated keys survive")
}

func TestRedisIncrement(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	t.Run("CountsUp", func(t *testing.T) {
		assert.Equal(t, int64(1), c.Increment(ctx, "rate_limit:a", time.Minute))
		assert.Equal(t, int64(2), c.Increment(ctx, "rate_limit:a", time.Minute))
		assert.Equal(t, int64(3), c.Increment(ctx, "rate_limit:a", time.Minute))
	})

	t.Run("WindowAnchoredToFirstHit", func(t *testing.T) {
		c.Increment(ctx, "rate_limit:b", time.Minute)
		mr.FastForward(40 * time.Second)

		// A later hit must not extend the window.
		c.Increment(ctx, "rate_limit:b", time.Minute)
		mr.FastForward(21 * time.Second)

		assert.Equal(t, int64(1), c.Increment(ctx, "rate_limit:b", time.Minute),
			"counter restarts after the original window")
	})
}

func TestRedisFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.Nop()
	c := NewRedis(client, &logger)
	ctx := context.Background()

	mr.Close()

	_, ok := c.Get(ctx, "office:1")
	assert.False(t, ok)
	assert.False(t, c.Set(ctx, "office:1", []byte("x"), time.Minute))
	assert.False(t, c.Delete(ctx, "office:1"))
	assert.Equal(t, 0, c.DeletePattern(ctx, "office:*"))
	assert.Equal(t, int64(0), c.Increment(ctx, "rate_limit:a", time.Minute))
}

package repository

import (
	"context"
	"testing"
	"time"

	"sportclub/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr(), PoolSize: 2})
	defer client.Close()

	repo := NewRedisRateLimitStore(client)
	ctx := context.Background()

	t.Run("RateLimit", func(t *testing.T) {
		key := "user:789"
		limit := 2
		window := time.Second

		// First request
		allowed, err := repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Second request
		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Third request (exceeds limit)
		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.True(t, s.Exists(rateLimitPrefix+key))
		assert.Equal(t, window, s.TTL(rateLimitPrefix+key))

		// Wait for window to expire
		s.FastForward(window + time.Millisecond)

		// Should be allowed again
		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Reset", func(t *testing.T) {
		key := "user:1"
		for i := 0; i < 3; i++ {
			_, err := repo.CheckRateLimit(ctx, key, 1, time.Hour)
			require.NoError(t, err)
		}
		require.NoError(t, repo.ResetRateLimit(ctx, key))

		allowed, err := repo.CheckRateLimit(ctx, key, 1, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisRateLimitStore(nil)
		_, err := repo.CheckRateLimit(ctx, "x", 1, time.Second)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
		assert.Error(t, Ping(ctx, nil))
	})

	t.Run("ServerDown", func(t *testing.T) {
		down, err := miniredis.Run()
		require.NoError(t, err)
		downClient := NewRedisClient(config.RedisConfig{Address: down.Addr()})
		defer downClient.Close()
		down.Close()

		_, err = NewRedisRateLimitStore(downClient).CheckRateLimit(ctx, "x", 1, time.Second)
		assert.Error(t, err)
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}

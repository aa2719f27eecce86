package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-openapi/strfmt"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/auth"
	"notarycalc/internal/usecase"
)

const userID = strfmt.UUID("60601fee-2bf1-4721-ae6f-7636e79a0cba")

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewWithClient(client)
}

func TestCache_Sessions(t *testing.T) {
	ctx := context.Background()
	mr, c := setupTestRedis(t)

	token, err := c.CreateSession(ctx, userID, time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 43)
	assert.False(t, mr.Exists(sessionPrefix+token), "raw token must not be a key")
	assert.True(t, mr.Exists(sessionPrefix+auth.TokenDigest(token)))

	got, err := c.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = c.ResolveSession(ctx, "unknown")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	_, err = c.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	require.NoError(t, c.DeleteSession(ctx, token))
	_, err = c.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	t.Run("expires", func(t *testing.T) {
		token, err := c.CreateSession(ctx, userID, time.Minute)
		require.NoError(t, err)
		mr.FastForward(2 * time.Minute)
		_, err = c.ResolveSession(ctx, token)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		_, err := c.CreateSession(ctx, userID, 0)
		assert.Error(t, err)
	})
}

func TestCache_ResetTokens(t *testing.T) {
	ctx := context.Background()
	mr, c := setupTestRedis(t)

	token, err := c.CreateResetToken(ctx, userID, time.Hour)
	require.NoError(t, err)

	_, err = c.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized, "reset token is not a session")

	got, err := c.ConsumeResetToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = c.ConsumeResetToken(ctx, token)
	assert.ErrorIs(t, err, usecase.ErrInvalidResetToken)

	token, err = c.CreateResetToken(ctx, userID, time.Hour)
	require.NoError(t, err)
	mr.FastForward(61 * time.Minute)
	_, err = c.ConsumeResetToken(ctx, token)
	assert.ErrorIs(t, err, usecase.ErrInvalidResetToken)
}

func TestCache_Allow(t *testing.T) {
	ctx := context.Background()
	_, c := setupTestRedis(t)

	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := c.Allow(ctx, "login:dana@example.com", 6, 3)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d within burst", i+1)
	}
	ok, err := c.Allow(ctx, "login:dana@example.com", 6, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Allow(ctx, "login:avi@example.com", 6, 3)
	require.NoError(t, err)
	assert.True(t, ok, "buckets are per key")

	now = now.Add(10 * time.Second)
	ok, err = c.Allow(ctx, "login:dana@example.com", 6, 3)
	require.NoError(t, err)
	assert.True(t, ok, "one token refilled after 10s at 6/min")

	ok, err = c.Allow(ctx, "anything", 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_Allow_redisDown(t *testing.T) {
	mr, c := setupTestRedis(t)
	mr.Close()

	_, err := c.Allow(context.Background(), "login:x", 10, 5)
	assert.Error(t, err)
}

func TestCache_Dedupe(t *testing.T) {
	ctx := context.Background()
	mr, c := setupTestRedis(t)

	first, err := c.FirstSeen(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = c.FirstSeen(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, first)

	require.NoError(t, c.Forget(ctx, "evt_1"))
	first, err = c.FirstSeen(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	mr.FastForward(2 * time.Hour)
	first, err = c.FirstSeen(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/redis/go-redis/v9"

	"notarycalc/internal/auth"
	"notarycalc/internal/usecase"
)

const (
	sessionPrefix = "session:"
	resetPrefix   = "reset:"
)

// Raw tokens never reach Redis, only their digests.

func (c *Cache) CreateSession(ctx context.Context, userID strfmt.UUID, ttl time.Duration) (string, error) {
	return c.issue(ctx, sessionPrefix, userID, ttl)
}

func (c *Cache) ResolveSession(ctx context.Context, token string) (strfmt.UUID, error) {
	if token == "" {
		return "", usecase.ErrUnauthorized
	}
	id, err := c.client.Get(ctx, sessionPrefix+auth.TokenDigest(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", usecase.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return strfmt.UUID(id), nil
}

func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := c.client.Del(ctx, sessionPrefix+auth.TokenDigest(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *Cache) CreateResetToken(ctx context.Context, userID strfmt.UUID, ttl time.Duration) (string, error) {
	return c.issue(ctx, resetPrefix, userID, ttl)
}

// ConsumeResetToken reads and deletes the token atomically so it works once.
func (c *Cache) ConsumeResetToken(ctx context.Context, token string) (strfmt.UUID, error) {
	if token == "" {
		return "", usecase.ErrInvalidResetToken
	}
	id, err := c.client.GetDel(ctx, resetPrefix+auth.TokenDigest(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", usecase.ErrInvalidResetToken
	}
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return strfmt.UUID(id), nil
}

func (c *Cache) issue(ctx context.Context, prefix string, userID strfmt.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: non-positive ttl %s", ttl)
	}
	token, err := auth.NewToken()
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := c.client.Set(ctx, prefix+auth.TokenDigest(token), userID.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

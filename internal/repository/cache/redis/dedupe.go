package redis

import (
	"context"
	"fmt"
	"time"
)

const eventPrefix = "webhook:event:"

func (c *Cache) FirstSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, eventPrefix+eventID, c.now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe event %s: %w", eventID, err)
	}
	return ok, nil
}

func (c *Cache) Forget(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, eventPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("forget event %s: %w", eventID, err)
	}
	return nil
}

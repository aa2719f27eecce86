package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"notarycalc/internal/auth"
)

const (
	rateLimitPrefix = "ratelimit:"
	rateLimitTTL    = 120
)

// tokenBucketScript refills and takes one token atomically.
// Returns {allowed, tokens_left}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'last_update', tostring(now))
	redis.call('EXPIRE', key, ttl)

	return {allowed, math.floor(tokens)}
`)

// Allow takes one token from the bucket for key. perMinute <= 0 disables the limit.
// Keys are hashed so emails are not stored in clear.
func (c *Cache) Allow(ctx context.Context, key string, perMinute, burst int) (bool, error) {
	if perMinute <= 0 {
		return true, nil
	}
	if burst <= 0 {
		burst = 1
	}
	rate := float64(perMinute) / 60.0
	now := float64(c.now().UnixMilli()) / 1000.0

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{rateLimitPrefix + auth.TokenDigest(key)[:32]},
		rate, burst, now, rateLimitTTL,
	).Int64Slice()
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return res[0] == 1, nil
}

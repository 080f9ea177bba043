package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"warehouse/internal/ratelimit/models"
)

const redisKeyPrefix = "warehouse:ratelimit:"

// slidingWindow trims the sorted set to the window, then admits the request
// when there is room. Returns {allowed, count, oldest score in ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
local oldest = now
if count > 0 then
	oldest = tonumber(redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')[2])
end
if count >= limit then
	return {0, count, oldest}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1, oldest}
`)

// Redis shares sliding windows between instances.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Allow(ctx context.Context, key string, policy models.Policy) (models.Result, error) {
	now := time.Now()
	res, err := slidingWindow.Run(ctx, s.client, []string{redisKeyPrefix + key},
		now.UnixMilli(), policy.Window.Milliseconds(), policy.Limit, uuid.NewString()).Int64Slice()
	if err != nil {
		return models.Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return models.Result{}, fmt.Errorf("rate limit script: unexpected reply of %d values", len(res))
	}

	resetAt := time.UnixMilli(res[2]).Add(policy.Window)
	if res[0] == 0 {
		return models.Result{
			Limit:      policy.Limit,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}
	return models.Result{
		Allowed:   true,
		Limit:     policy.Limit,
		Remaining: policy.Limit - int(res[1]),
		ResetAt:   resetAt,
	}, nil
}

func (s *Redis) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}

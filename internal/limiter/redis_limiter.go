package limiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the window counter and sets its expiry on first use
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter counts requests per client in fixed windows shared by every server instance
// Keys look like "ratelimit:{client}:{window}"
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	limit  int64
	now    func() time.Time
}

// NewRedisLimiter connects to Redis and creates a limiter allowing requestsPerSecond per client
func NewRedisLimiter(ctx context.Context, addr, password string, db int, requestsPerSecond float64) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	return newRedisLimiter(client, requestsPerSecond), nil
}

func newRedisLimiter(client *redis.Client, requestsPerSecond float64) *RedisLimiter {
	// Rates below one per second get a window long enough to hold a single request
	window := time.Second
	if requestsPerSecond > 0 && requestsPerSecond < 1 {
		window = time.Duration(math.Ceil(1/requestsPerSecond)) * time.Second
	}

	return &RedisLimiter{
		client: client,
		window: window,
		limit:  int64(math.Ceil(requestsPerSecond * window.Seconds())),
		now:    time.Now,
	}
}

// Allow increments the client's counter for the current window
// Redis errors fail open so an outage does not take the API down with it
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	windowSeconds := int64(l.window / time.Second)
	bucket := l.now().Unix() / windowSeconds
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowSeconds*2).Int64()
	if err != nil {
		return true
	}

	return count <= l.limit
}

// Close closes the Redis connection
func (l *RedisLimiter) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}

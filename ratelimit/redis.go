package ratelimit

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the shared-state limiter backend.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Max      int
	Window   time.Duration
}

// RedisLimiter is a sliding window limiter over a per-client sorted set.
// Members are nanosecond timestamps scored by themselves, so one window
// state is shared by every instance pointing at the same Redis.
type RedisLimiter struct {
	client  *redis.Client
	scripts redis.Scripter
	max     int
	window  time.Duration
}

// slidingWindow prunes expired members, refuses when the window is full,
// and records the new request, all inside one script so two concurrent
// callers can never both claim the last remaining slot.
//
// KEYS[1] window set, ARGV[1] cutoff, ARGV[2] max, ARGV[3] now, ARGV[4] ttl.
var slidingWindow = redis.NewScript(`
redis.call("ZREMRANGEBYSCORE", KEYS[1], "0", ARGV[1])
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call("ZADD", KEYS[1], ARGV[3], ARGV[3])
redis.call("EXPIRE", KEYS[1], ARGV[4])
return 1
`)

// NewRedisLimiterFromEnv creates a RedisLimiter from REDIS_ADDR, REDIS_PASS
// and REDIS_DB.
func NewRedisLimiterFromEnv(max int, window time.Duration) (*RedisLimiter, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	return NewRedisLimiter(RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
		Max:      max,
		Window:   window,
	})
}

// NewRedisLimiter creates a RedisLimiter and verifies connectivity.
func NewRedisLimiter(cfg RedisConfig) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping to verify
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisLimiter{client: client, scripts: client, max: cfg.Max, window: cfg.Window}, nil
}

// Close closes the underlying Redis client.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// Allow runs prune, count and add as a single atomic script evaluation, so
// the admitted count stays at or below max even under concurrent calls for
// the same key. The TTL keeps the set from outliving an idle client.
func (l *RedisLimiter) Allow(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now().UnixNano()
	cutoff := now - l.window.Nanoseconds()
	ttl := int64(l.window.Seconds())
	if ttl < 1 {
		ttl = 1
	}

	admitted, err := slidingWindow.Run(ctx, l.scripts, []string{"ratelimit:" + key},
		cutoff, l.max, now, ttl).Int()
	if err != nil {
		return false, err
	}
	return admitted == 1, nil
}

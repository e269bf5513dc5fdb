// Package ratelimit wraps ulule/limiter with a keyed fixed-window counter
// backed either by process memory or by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Decision is the outcome of one counted attempt.
type Decision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// Limiter counts attempts per key within a fixed window.
type Limiter struct {
	lim *limiter.Limiter
}

// NewMemory returns a limiter whose counters live in this process.
func NewMemory(rate limiter.Rate, prefix string) *Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	return &Limiter{lim: limiter.New(store, rate)}
}

// NewRedis returns a limiter whose counters are shared through Redis, so
// every replica sees the same window.
func NewRedis(client *redis.Client, rate limiter.Rate, prefix string) (*Limiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: limiter.DefaultMaxRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	return &Limiter{lim: limiter.New(store, rate)}, nil
}

// NewRedisClient parses a redis:// URL and checks connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// New picks the Redis store when client is non-nil and the memory store otherwise.
func New(client *redis.Client, rate limiter.Rate, prefix string) (*Limiter, error) {
	if client == nil {
		return NewMemory(rate, prefix), nil
	}
	return NewRedis(client, rate, prefix)
}

// ParseRate accepts the limiter formatted notation, e.g. "5-H" or "20-M".
func ParseRate(formatted string) (limiter.Rate, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	return rate, nil
}

// Allow counts one attempt for key. The attempt is counted even when it is
// refused; a refused attempt does not move the window.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := l.lim.Get(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     res.Limit,
		Remaining: res.Remaining,
		Reset:     time.Unix(res.Reset, 0),
	}, nil
}

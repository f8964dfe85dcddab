package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown rate limits a command per key. Allow returns false and the time
// left when the key was used within the window.
type Cooldown interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type MemoryCooldown struct {
	store *TTLStore[struct{}]
}

func NewMemoryCooldown(window time.Duration) *MemoryCooldown {
	return &MemoryCooldown{store: NewTTLStore[struct{}](window)}
}

func (c *MemoryCooldown) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	if c.store.TryPut(key, struct{}{}) {
		return true, 0, nil
	}
	return false, c.store.Remaining(key), nil
}

func (c *MemoryCooldown) Sweep() int {
	return c.store.Sweep()
}

// RedisCooldown shares cooldowns between bot processes.
type RedisCooldown struct {
	client *redis.Client
	prefix string
	window time.Duration
}

func NewRedisCooldown(client *redis.Client, prefix string, window time.Duration) *RedisCooldown {
	return &RedisCooldown{client: client, prefix: prefix, window: window}
}

func (c *RedisCooldown) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	fullKey := c.prefix + key
	ok, err := c.client.SetNX(ctx, fullKey, 1, c.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("error setting cooldown: %w", err)
	}
	if ok {
		return true, 0, nil
	}
	ttl, err := c.client.PTTL(ctx, fullKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("error reading cooldown: %w", err)
	}
	return false, ttl, nil
}

// NewCooldown picks Redis when redisURL is set and the memory store otherwise.
func NewCooldown(redisURL string, prefix string, window time.Duration) (Cooldown, error) {
	if redisURL == "" {
		return NewMemoryCooldown(window), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCooldown(client, prefix, window), nil
}

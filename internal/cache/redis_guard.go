package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix  = "idempotency:sale:"
	DefaultIdempotencyTTL = 24 * time.Hour
)

// RedisGuard claims idempotency keys with SETNX so a retried sale request is not applied twice.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

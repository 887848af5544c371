package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisCache stores msgpack-encoded values under "{prefix}:{key}".
type RedisCache[T any] struct {
	client    *redis.Client
	prefix    string
	baseTTL   time.Duration
	maxJitter time.Duration
}

func NewRedisCache[T any](client *redis.Client, prefix string, baseTTL time.Duration) *RedisCache[T] {
	return &RedisCache[T]{
		client:    client,
		prefix:    prefix,
		baseTTL:   baseTTL,
		maxJitter: baseTTL / 6,
	}
}

func (r *RedisCache[T]) Get(ctx context.Context, key string) (T, error) {
	var value T
	data, err := r.client.Get(ctx, r.cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, ErrCacheMiss
	}
	if err != nil {
		return value, fmt.Errorf("redis get failed: %w", err)
	}

	if err := msgpack.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("unmarshal %s failed: %w", r.prefix, err)
	}
	return value, nil
}

// Set refreshes the TTL on every write so active values stay alive.
func (r *RedisCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", r.prefix, err)
	}

	if err := r.client.Set(ctx, r.cacheKey(key), data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache[T]) ttl() time.Duration {
	if r.maxJitter <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int63n(int64(r.maxJitter)))
}

func (r *RedisCache[T]) cacheKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

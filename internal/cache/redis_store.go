package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the cache with Redis, using native key TTLs so no separate
// cleanup pass is needed.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (float64, bool, error) {
	value, err := s.client.Get(ctx, namespace+":"+key).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, namespace, key string, value float64, ttl time.Duration) error {
	return s.client.Set(ctx, namespace+":"+key, value, ttl).Err()
}

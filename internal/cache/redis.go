// Package cache provides the key/value accelerator in front of the sales
// store. Keys are opaque here; window semantics live in the report layer.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a TTL'd key/value store. Get returns (nil, nil) on a missing key;
// connection failures come back as errors and callers are expected to treat
// them as a miss (reads) or a no-op (writes).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteMatching(ctx context.Context, pattern string) (int64, error)
}

// RedisStore implements Store over a shared Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get fetches a raw value. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		OpErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return data, nil
}

// SetEx stores a value with a per-key TTL.
func (s *RedisStore) SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		OpErrors.WithLabelValues("setex").Inc()
		return fmt.Errorf("cache setex %q: %w", key, err)
	}
	return nil
}

// DeleteMatching removes every key matching pattern via SCAN and returns the
// number of keys removed. Unrelated keys are untouched.
func (s *RedisStore) DeleteMatching(ctx context.Context, pattern string) (int64, error) {
	var removed int64

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			OpErrors.WithLabelValues("delete").Inc()
			return removed, fmt.Errorf("cache delete %q: %w", iter.Val(), err)
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		OpErrors.WithLabelValues("delete").Inc()
		return removed, fmt.Errorf("cache scan %q: %w", pattern, err)
	}

	return removed, nil
}

// Ping reports whether the cache backend is reachable. Used by the health
// endpoint only; request paths never depend on it.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jkessling/reachview/pkg/observability"
)

// RedisCache implements Cache backed by a Redis server. The local file
// cache is right for a single workstation; Redis is for serve deployments
// where several instances should share one artifact cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to a Redis server and verifies the connection.
func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a value from Redis. Expiry is Redis-native, so a missing
// key covers both never-set and expired.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	observability.Cache().OnCacheHit(ctx, keyType(key))
	return data, true, nil
}

// Set stores a value with the given TTL. A zero TTL stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close releases the client's connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)

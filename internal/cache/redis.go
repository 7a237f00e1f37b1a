package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache stores JSON encoded analytics results. Every stored key is also
// pushed onto an index list so Invalidate can drop them all at once.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configures NewRedisCache.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisCacheWithClient(client, opts.Prefix, opts.TTL), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "leadsathi"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(name string) string {
	return c.prefix + "|analytics|" + name
}

func (c *RedisCache) indexKey() string {
	return c.prefix + "|analytics|keys"
}

func (c *RedisCache) generationKey() string {
	return c.prefix + "|analytics|generation"
}

// Generation returns the invalidation counter; zero before the first Invalidate.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return generation, nil
}

// Get decodes the cached value for key into dest. A miss returns false and no error.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	str, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(str), dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	fullKey := c.key(key)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fullKey, payload, c.ttl)
		pipe.RPush(ctx, c.indexKey(), fullKey)
		pipe.Expire(ctx, c.indexKey(), c.ttl)
		return nil
	})
	return err
}

// Invalidate advances the generation, then deletes every key stored since the
// last invalidation. Keys written later under an older generation are never
// read and expire with the TTL.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("failed to advance cache generation: %w", err)
	}

	keys, err := c.client.LRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys = append(keys, c.indexKey())
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Package cache is a small typed JSON cache over Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultExpire is used when Set is called without an expiry.
const DefaultExpire = 10 * time.Minute

// ICache is the typed cache contract repositories depend on.
type ICache[T any] interface {
	Get(context.Context, string) (*T, error)
	Set(context.Context, string, *T, ...time.Duration) error
	Delete(context.Context, ...string) error
}

// Cache stores values of T as JSON under "<key>:<field>".
// A Cache without a Redis client misses on every Get and ignores writes.
type Cache[T any] struct {
	rc  *redis.Client
	key string
}

// NewCache returns a cache namespaced by key. rc may be nil.
func NewCache[T any](rc *redis.Client, key string) *Cache[T] {
	return &Cache[T]{rc: rc, key: key}
}

// Enabled reports whether a Redis client backs the cache.
func (c *Cache[T]) Enabled() bool { return c != nil && c.rc != nil }

// Key returns the Redis key for field.
func (c *Cache[T]) Key(field string) string {
	if c.key != "" {
		return fmt.Sprintf("%s:%s", c.key, field)
	}
	return field
}

// Get returns nil, nil on a miss.
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	if !c.Enabled() {
		return nil, nil
	}

	result, err := c.rc.Get(ctx, c.Key(field)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var row T
	if err = json.Unmarshal([]byte(result), &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set stores data with the given expiry, DefaultExpire when omitted.
func (c *Cache[T]) Set(ctx context.Context, field string, data *T, expire ...time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	exp := DefaultExpire
	if len(expire) > 0 {
		exp = expire[0]
	}
	if err := c.rc.Set(ctx, c.Key(field), bytes, exp).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes every given field.
func (c *Cache[T]) Delete(ctx context.Context, fields ...string) error {
	if !c.Enabled() || len(fields) == 0 {
		return nil
	}
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = c.Key(f)
	}
	if err := c.rc.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

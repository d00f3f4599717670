package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values in Redis. A Cache built from a nil client
// is a no-op: every Get misses and every Set succeeds without storing.
type Cache struct {
	client *redis.Client
	prefix string
}

// New creates a Cache whose keys are namespaced by prefix
func New(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// Enabled reports whether a Redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Get decodes the value stored under key into result. It returns false on a
// miss; a non-nil error means Redis itself failed or the entry is corrupt.
func (c *Cache) Get(ctx context.Context, key string, result interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores data under key for ttl
func (c *Cache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), jsonData, ttl).Err()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSONCache stores read models as JSON under a string key
type JSONCache interface {
	// Get decodes the cached value into dest; false on a miss
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisJSONCache implements JSONCache on Redis
type RedisJSONCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisJSONCache creates a cache whose keys live under namespace
func NewRedisJSONCache(client *redis.Client, namespace string) *RedisJSONCache {
	return &RedisJSONCache{client: client, keyPrefix: namespace + ":"}
}

// Get implements JSONCache
func (c *RedisJSONCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements JSONCache
func (c *RedisJSONCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err()
}

// DeletePrefix implements JSONCache with SCAN so large keyspaces are not blocked
func (c *RedisJSONCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// InMemoryJSONCache implements JSONCache in process memory
type InMemoryJSONCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// NewInMemoryJSONCache creates an empty in-process cache
func NewInMemoryJSONCache() *InMemoryJSONCache {
	return &InMemoryJSONCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements JSONCache
func (c *InMemoryJSONCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return false, nil
	}
	return true, json.Unmarshal(e.raw, dest)
}

// Set implements JSONCache
func (c *InMemoryJSONCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{raw: raw, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// DeletePrefix implements JSONCache
func (c *InMemoryJSONCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

var (
	_ JSONCache = (*RedisJSONCache)(nil)
	_ JSONCache = (*InMemoryJSONCache)(nil)
)

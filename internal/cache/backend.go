// Package cache provides the pool cache: a TTL key/value backend (Redis or in-process)
// and a ranking store decorator that caches the expensive pool listings.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend is a byte-oriented key/value store with per-entry TTL.
type Backend interface {
	// Get returns ok=false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// -----------------------------------------------------------------------------
// Redis
// -----------------------------------------------------------------------------

// scanBatch is the SCAN page size used by DeletePrefix.
const scanBatch = 100

// RedisBackend stores entries in Redis with native expiry.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend connects to the Redis server at redisURL and verifies it responds.
func NewRedisBackend(ctx context.Context, redisURL string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisBackend{rdb: rdb}, nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

// Close closes the Redis client.
func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// DeletePrefix implements Backend using SCAN so large keyspaces are not blocked.
func (b *RedisBackend) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := b.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := b.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// -----------------------------------------------------------------------------
// Memory
// -----------------------------------------------------------------------------

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryBackend is an in-process Backend. Expired entries are dropped lazily.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(entry.expiresAt) {
		delete(b.entries, key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set implements Backend. A non-positive ttl stores nothing.
func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{
		data:      append([]byte(nil), value...),
		expiresAt: b.now().Add(ttl),
	}
	return nil
}

// DeletePrefix implements Backend.
func (b *MemoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key := range b.entries {
		if strings.HasPrefix(key, prefix) {
			delete(b.entries, key)
		}
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

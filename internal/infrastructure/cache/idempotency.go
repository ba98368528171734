package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

// RedisIdempotencyStore remembers processed webhook event keys in Redis.
// SetNX gives the first caller the claim; redeliveries see the existing
// key and back off.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a Redis client from configuration and verifies
// the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, prefix: "idempotency:"}
}

// MarkProcessed records the key if unseen. Returns false when the key
// was already claimed by an earlier delivery.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return claimed, nil
}

// Release drops a claimed key so the provider's retry can be processed
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Ensure RedisIdempotencyStore implements IdempotencyStore
var _ appbilling.IdempotencyStore = (*RedisIdempotencyStore)(nil)

type memoryEntry struct {
	expiresAt time.Time
}

// MemoryIdempotencyStore is an in-process store for development and
// tests. Not safe across replicas.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryIdempotencyStore creates an empty in-memory store
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// MarkProcessed records the key if unseen or expired
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}
	s.entries[key] = memoryEntry{expiresAt: now.Add(ttl)}
	return true, nil
}

// Release drops a claimed key
func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Ensure MemoryIdempotencyStore implements IdempotencyStore
var _ appbilling.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

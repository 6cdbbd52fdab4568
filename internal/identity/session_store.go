package identity

import (
	"context"
	"sync"
	"time"

	"pollsvc/pkg/redis"
)

// RedisSessionStore keeps session tokens alive in Redis for the session TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store backed by Redis.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Save persists the token for the session lifetime.
func (s *RedisSessionStore) Save(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.client.KeyBuilder.KeySession(token), "1", s.ttl)
}

// MemorySessionStore is an in-process fallback used when Redis is not
// configured. Tokens survive only for the life of the process, which is
// acceptable because the identifier itself travels with the client.
type MemorySessionStore struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{tokens: make(map[string]struct{})}
}

// Save records the token in memory.
func (s *MemorySessionStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return nil
}

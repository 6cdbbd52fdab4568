package identity

import (
	"context"
	"testing"
	"time"

	"pollsvc/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func TestRedisSessionStoreSave(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisSessionStore(client, time.Hour)
	if err := store.Save(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := client.KeyBuilder.KeySession("tok-1")
	if !mr.Exists(key) {
		t.Fatalf("session key %q not stored", key)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}
}

func TestMemorySessionStoreSave(t *testing.T) {
	store := NewMemorySessionStore()

	if err := store.Save(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.mu.Lock()
	_, ok := store.tokens["tok-1"]
	store.mu.Unlock()
	if !ok {
		t.Error("token not recorded")
	}
}

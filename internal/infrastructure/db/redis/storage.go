package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wildguard/console/internal/core/ports"
)

const (
	keyPrefix  = "wg:session:"
	defaultTTL = 7 * 24 * time.Hour
)

// SessionStore keeps each console session's local storage in one Redis hash,
// wg:session:<id>. Every write pushes the expiry forward by ttl.
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.StorageProvider = (*SessionStore)(nil)

func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Scope(namespace string) ports.LocalStorage {
	return &hashStorage{client: s.client, key: sessionKey(namespace), ttl: s.ttl}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

type hashStorage struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func (h *hashStorage) GetItem(ctx context.Context, field string) (string, bool, error) {
	v, err := h.client.HGet(ctx, h.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", field, err)
	}
	return v, true, nil
}

func (h *hashStorage) SetItem(ctx context.Context, field, value string) error {
	return h.SetItems(ctx, map[string]string{field: value})
}

// SetItems writes all fields and refreshes the expiry in one MULTI/EXEC.
func (h *hashStorage) SetItems(ctx context.Context, items map[string]string) error {
	if len(items) == 0 {
		return nil
	}
	_, err := h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, h.key, items)
		pipe.Expire(ctx, h.key, h.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store session: %w", err)
	}
	return nil
}

func (h *hashStorage) RemoveItems(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := h.client.HDel(ctx, h.key, fields...).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}

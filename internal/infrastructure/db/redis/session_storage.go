package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SessionStorage keeps the persisted session record under a single key.
type SessionStorage struct {
	client *redis.Client
	key    string
}

// NewSessionStorage creates a SessionStorage wrapping the given Redis client.
func NewSessionStorage(client *redis.Client, key string) *SessionStorage {
	return &SessionStorage{client: client, key: key}
}

// Load returns the stored record, or nil when none exists.
func (s *SessionStorage) Load(ctx context.Context) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis session load: %w", err)
	}
	return payload, nil
}

// Save overwrites the stored record.
func (s *SessionStorage) Save(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis session save: %w", err)
	}
	return nil
}

// Clear removes the stored record. Clearing a missing key is not an error.
func (s *SessionStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis session clear: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopworks/storefront-backend/pkg/redis"
)

// Manager tracks which access tokens are currently allowed to authenticate.
// A token is valid only while its session key exists in Redis, so logout is
// an immediate revocation rather than a wait for JWT expiry.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{client: client, ttl: ttl}, nil
}

// Create registers a session for the token's jti.
func (m *Manager) Create(ctx context.Context, accessID string) error {
	if accessID == "" {
		return errors.New("access id is required")
	}
	key := m.client.AccessSessionKey(accessID)
	if err := m.client.Set(ctx, key, "1", m.ttl); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Has reports whether a session exists for the token's jti.
func (m *Manager) Has(ctx context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}
	key := m.client.AccessSessionKey(accessID)
	_, err := m.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("checking session: %w", err)
	}
	return true, nil
}

// Revoke deletes the session so the token can no longer authenticate.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	key := m.client.AccessSessionKey(accessID)
	if err := m.client.Del(ctx, key); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

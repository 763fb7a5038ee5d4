package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripadmin/pkg/cache"
)

// Well-known session keys. These replace the ad-hoc browser-storage keys the
// admin UI used to scatter across every service.
const (
	KeyAuthToken        = "authToken"
	KeyUserID           = "userId"
	KeyUsername         = "username"
	KeyRoles            = "roles"
	KeyCurrentCompanyID = "currentCompanyId"
)

// Store holds per-user session state with an explicit lifecycle: populated
// on login, read on every authenticated request, cleared on logout or
// detected token expiry.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Clear(ctx context.Context, sessionID string) error
}

type redisStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisStore returns a Store backed by the shared cache client.
func NewRedisStore(c cache.Cache, ttlMinutes int) Store {
	return &redisStore{
		cache: c,
		ttl:   time.Duration(ttlMinutes) * time.Minute,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (s *redisStore) load(ctx context.Context, sessionID string) (map[string]string, error) {
	raw, err := s.cache.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	values := make(map[string]string)
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return values, nil
}

func (s *redisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	values, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *redisStore) Set(ctx context.Context, sessionID, key, value string) error {
	values, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	values[key] = value

	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKey(sessionID), string(raw), s.ttl)
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return s.cache.Del(ctx, sessionKey(sessionID))
}

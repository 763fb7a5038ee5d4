package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryStore returns an in-process Store. Used in tests and when no
// Redis is configured.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID][key], nil
}

func (s *memoryStore) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sessionID] == nil {
		s.sessions[sessionID] = make(map[string]string)
	}
	s.sessions[sessionID][key] = value
	return nil
}

func (s *memoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

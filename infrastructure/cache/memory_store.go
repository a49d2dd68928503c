package cache

import (
	"context"
	"sync"
	"time"

	"lustroom-portal/domain/repository"
)

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// MemorySessionStore is used when Redis is not configured. Sessions do not
// survive a restart.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemorySessionStore() repository.ISessionStore {
	return newMemorySessionStore(time.Now)
}

func newMemorySessionStore(now func() time.Time) *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]*memoryEntry), now: now}
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return map[string]string{}, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, sessionID)
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(entry.values))
	for k, v := range entry.values {
		out[k] = v
	}
	return out, nil
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &memoryEntry{values: make(map[string]string, len(values))}
		s.entries[sessionID] = entry
	}
	for k, v := range values {
		entry.values[k] = v
	}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	return nil
}

func (s *MemorySessionStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

package usecase

import (
	"sync"
	"time"

	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
)

// SessionState is the per-request view of one visitor: the persisted values and
// the visitor's data cache.
type SessionState struct {
	ID     string
	Values map[string]string
	Cache  *DataCache
}

func (s *SessionState) Token() string {
	return s.Values[model.KeyToken]
}

// EntitledPlatformID is the platform the user may open; every other platform is locked.
func (s *SessionState) EntitledPlatformID() string {
	return s.Values[model.KeyUserPlatformID]
}

func (s *SessionState) UserEmail() string {
	return s.Values[model.KeyUserEmail]
}

func (s *SessionState) IsValid(now time.Time) bool {
	return IsSessionValid(s.Values, now)
}

type registryEntry struct {
	cache    *DataCache
	lastUsed time.Time
}

// CacheRegistry owns one DataCache per session id.
type CacheRegistry struct {
	backend repository.IPortalBackend
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewCacheRegistry(backend repository.IPortalBackend, now func() time.Time) *CacheRegistry {
	if now == nil {
		now = time.Now
	}
	return &CacheRegistry{backend: backend, now: now, entries: make(map[string]*registryEntry)}
}

// CacheFor returns the session's cache, creating an empty one on first use.
func (r *CacheRegistry) CacheFor(sessionID string) *DataCache {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &registryEntry{cache: NewDataCache(r.backend)}
		r.entries[sessionID] = entry
	}
	entry.lastUsed = r.now()
	return entry.cache
}

// Drop forgets the session's cache.
func (r *CacheRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

// Sweep drops caches idle for longer than maxIdle and returns how many were dropped.
func (r *CacheRegistry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	dropped := 0
	for id, entry := range r.entries {
		if entry.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			dropped++
		}
	}
	return dropped
}

func (r *CacheRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

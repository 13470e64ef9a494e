package otp

import (
	"context"
	"sync"
	"time"
)

// Store keeps pending logins keyed by session id. Take is one-shot.
type Store interface {
	Save(ctx context.Context, sessionID string, entry Entry) error
	Take(ctx context.Context, sessionID string) (Entry, error)
}

// MemoryStore is a process-local Store. Entries vanish on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.entries[sessionID] = entry
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, sessionID string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return Entry{}, ErrCodeNotFound
	}
	delete(s.entries, sessionID)
	if !s.now().Before(entry.ExpiresAt) {
		return Entry{}, ErrCodeNotFound
	}
	return entry, nil
}

func (s *MemoryStore) evictExpired() {
	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(s.entries, id)
		}
	}
}

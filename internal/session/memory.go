package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	sess      Session
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-node deployments without
// Redis, and for tests. Expired entries are dropped lazily on Get.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: map[string]memoryEntry{},
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[token]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.items, token)
		return nil, nil
	}
	sess := entry.sess
	return &sess, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token] = memoryEntry{sess: *sess, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

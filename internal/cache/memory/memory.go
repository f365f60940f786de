// Package memory is the in-process cache backend, used whenever no
// DATABASE_URL is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ApurboBarua17/Website-status-checker/internal/cache"
)

type Store struct {
	mu      sync.RWMutex
	entries map[string]cache.Entry
}

func New() *Store {
	return &Store{entries: make(map[string]cache.Entry)}
}

func (s *Store) Get(_ context.Context, key string) (cache.Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return cache.Entry{}, false
	}
	if e.Expired(time.Now()) {
		// stale; drop it lazily
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return cache.Entry{}, false
	}
	return e, true
}

func (s *Store) Put(_ context.Context, key string, e cache.Entry) error {
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

var _ cache.Store = (*Store)(nil)

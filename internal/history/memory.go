package history

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore implements Store in process memory
type MemoryStore struct {
	logger  *zap.Logger
	limit   int
	mu      sync.RWMutex
	entries map[string][]Entry // newest first
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory history store
func NewMemoryStore(logger *zap.Logger, limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{
		logger:  logger.Named("history.store.memory"),
		limit:   limit,
		entries: make(map[string][]Entry),
	}
}

// Save implements Store.Save
func (s *MemoryStore) Save(_ context.Context, owner string, entry Entry) error {
	if err := normalize(owner, &entry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([]Entry{entry}, s.entries[owner]...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	s.entries[owner] = list
	return nil
}

// List implements Store.List
func (s *MemoryStore) List(_ context.Context, owner string, typ Type) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[owner]
	out := make([]Entry, len(list))
	copy(out, list)
	return filter(out, typ), nil
}

// Clear implements Store.Clear
func (s *MemoryStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, owner)
	return nil
}

// Close implements Store.Close
func (s *MemoryStore) Close() error {
	return nil
}

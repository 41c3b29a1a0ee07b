package prefs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore implements Store in process memory
type MemoryStore struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	settings map[string]Settings
	hub      *hub
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory settings store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger:   logger.Named("prefs.store.memory"),
		settings: make(map[string]Settings),
		hub:      newHub(),
	}
}

// Get implements Store.Get
func (s *MemoryStore) Get(_ context.Context, owner string) (Settings, error) {
	if owner == "" {
		return Settings{}, ErrOwnerRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.settings[owner]; ok {
		return v, nil
	}
	return Defaults(), nil
}

// Set implements Store.Set
func (s *MemoryStore) Set(_ context.Context, owner string, v Settings) error {
	if owner == "" {
		return ErrOwnerRequired
	}
	s.mu.Lock()
	s.settings[owner] = v
	s.mu.Unlock()

	s.hub.publish(owner, v)
	return nil
}

// Subscribe implements Store.Subscribe
func (s *MemoryStore) Subscribe(ctx context.Context, owner string) (<-chan Settings, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	return s.hub.subscribe(ctx, owner), nil
}

// Close implements Store.Close
func (s *MemoryStore) Close() error {
	s.hub.close()
	return nil
}

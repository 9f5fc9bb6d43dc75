package store

import (
	"sync"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		slots: map[string][]byte{},
	}
}

func (s *InMemoryStore) GetSlot(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[name]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "slot", ID: name}
	}
	// callers may keep the slice; hand out a copy
	return append([]byte(nil), value...), nil
}

func (s *InMemoryStore) PutSlot(name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = append([]byte(nil), value...)
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

package storage

import (
	"context"
	"sync"
)

type slot struct{ session, key string }

type MemoryStore struct {
	mu   sync.RWMutex
	data map[slot][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[slot][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, session, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[slot{session, key}]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(ctx context.Context, session, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[slot{session, key}] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, session, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, slot{session, key})
	return nil
}

package repositories

import (
	"context"
	"sync"
)

// Storage is a key-value persistence backend. [*sqlite.KVStore] is the production implementation.
type Storage interface {
	// Load returns nil and no error when the key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte
	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string][]byte{}}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

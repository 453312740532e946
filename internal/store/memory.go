package store

import (
	"sync"

	"github.com/sleekspend/sleekspend/internal/model"
)

// MemoryStore keeps the encoded snapshot in memory.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreFrom returns a MemoryStore whose slot already holds data.
func NewMemoryStoreFrom(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...)}
}

// Load decodes the held snapshot.
func (s *MemoryStore) Load() ([]model.Expense, error) {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()
	return Decode(data)
}

// Save replaces the held snapshot.
func (s *MemoryStore) Save(expenses []model.Expense) error {
	data, err := Encode(expenses)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// Raw returns a copy of the held snapshot bytes.
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

package history

import (
	"context"
	"sync"
)

// MemoryStore keeps the log in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	limit   int
	records []Record
}

func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: clampLimit(limit)}
}

func (s *MemoryStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = keepLast(append(s.records, rec), s.limit)
	return nil
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)

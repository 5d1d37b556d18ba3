package stage

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory stage store used for dev mode and tests.
type MemoryStore struct {
	mu     sync.Mutex
	stages map[string]*Stage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stages: make(map[string]*Stage)}
}

func (m *MemoryStore) Save(ctx context.Context, s *Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.stages[s.UUID] = &cp
	return nil
}

func (m *MemoryStore) Discard(ctx context.Context, uuid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stages, uuid)
	return nil
}

// Len reports how many stages are currently held; after a batch completes it
// must be zero.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stages)
}

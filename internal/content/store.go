// Package content stores committed notebook payloads. A notebook record's
// ContentID points here; entries are written at commit time only, after both
// content and record validation have passed.
package content

import (
	"context"
	"errors"
	"sync"

	"github.com/nbhive/nbhive/internal/storage"
)

var ErrNotFound = errors.New("content not found")

// Store is the committed-content blob store.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// MemoryStore is the in-memory twin used for dev mode and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[key] = cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// MinIOStore keeps committed content as one object per notebook uuid.
type MinIOStore struct {
	objects *storage.MinIO
}

func NewMinIOStore(objects *storage.MinIO) *MinIOStore {
	return &MinIOStore{objects: objects}
}

func (s *MinIOStore) Put(ctx context.Context, key string, data []byte) error {
	return s.objects.Put(ctx, key, data)
}

func (s *MinIOStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.objects.Get(ctx, key)
}

func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	return s.objects.Remove(ctx, key)
}

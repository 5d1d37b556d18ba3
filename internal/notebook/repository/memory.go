package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nbhive/nbhive/internal/notebook"
)

var (
	ErrNotFound = errors.New("notebook not found")
)

// Repository defines persistence operations for notebooks. Lookups by
// (owner, title) drive create-vs-update routing during import.
type Repository interface {
	FindByOwnerTitle(ctx context.Context, ownerKey, title string) (*notebook.Notebook, error)
	FindByUUID(ctx context.Context, uuid string) (*notebook.Notebook, error)
	Save(ctx context.Context, nb *notebook.Notebook) error
	ListPublic(ctx context.Context) ([]*notebook.Notebook, error)
	ListAll(ctx context.Context) ([]*notebook.Notebook, error)
}

// MemoryRepo is the in-memory notebook repository used for dev mode and
// unit tests. (owner, title) uniqueness is enforced by the index map.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUUID map[string]*notebook.Notebook
	byKey  map[string]string // ownerKey + "\x00" + groomed title -> uuid
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byUUID: make(map[string]*notebook.Notebook),
		byKey:  make(map[string]string),
	}
}

func lookupKey(ownerKey, title string) string {
	return ownerKey + "\x00" + notebook.GroomTitle(title)
}

func (m *MemoryRepo) FindByOwnerTitle(ctx context.Context, ownerKey, title string) (*notebook.Notebook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uuid, ok := m.byKey[lookupKey(ownerKey, title)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.byUUID[uuid]
	return &cp, nil
}

func (m *MemoryRepo) FindByUUID(ctx context.Context, uuid string) (*notebook.Notebook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nb, ok := m.byUUID[uuid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *nb
	return &cp, nil
}

func (m *MemoryRepo) Save(ctx context.Context, nb *notebook.Notebook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if nb.CreatedAt.IsZero() {
		nb.CreatedAt = now
	}
	if nb.UpdatedAt.IsZero() {
		nb.UpdatedAt = now
	}
	nb.OwnerKey = nb.Owner.Key()
	if prev, ok := m.byUUID[nb.UUID]; ok {
		delete(m.byKey, lookupKey(prev.OwnerKey, prev.Title))
	}
	cp := *nb
	m.byUUID[nb.UUID] = &cp
	m.byKey[lookupKey(nb.OwnerKey, nb.Title)] = nb.UUID
	return nil
}

func (m *MemoryRepo) ListPublic(ctx context.Context) ([]*notebook.Notebook, error) {
	return m.list(func(nb *notebook.Notebook) bool { return nb.Public })
}

func (m *MemoryRepo) ListAll(ctx context.Context) ([]*notebook.Notebook, error) {
	return m.list(func(*notebook.Notebook) bool { return true })
}

func (m *MemoryRepo) list(keep func(*notebook.Notebook) bool) ([]*notebook.Notebook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*notebook.Notebook{}
	for _, nb := range m.byUUID {
		if keep(nb) {
			cp := *nb
			out = append(out, &cp)
		}
	}
	// stable order so exports are deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

package identity

import (
	"context"
	"sync"
	"time"
)

// MemoryUsers is an in-memory user repository used for dev mode and tests.
type MemoryUsers struct {
	mu    sync.RWMutex
	byKey map[string]*User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byKey: make(map[string]*User)}
}

func (m *MemoryUsers) FindByName(ctx context.Context, name string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.byKey[name]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryUsers) Save(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	cp := *u
	m.byKey[u.Name] = &cp
	return nil
}

// MemoryGroups is the in-memory twin of the group repository.
type MemoryGroups struct {
	mu    sync.RWMutex
	byKey map[string]*Group
}

func NewMemoryGroups() *MemoryGroups {
	return &MemoryGroups{byKey: make(map[string]*Group)}
}

func (m *MemoryGroups) FindByName(ctx context.Context, name string) (*Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.byKey[name]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryGroups) Save(ctx context.Context, g *Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	cp := *g
	m.byKey[g.Name] = &cp
	return nil
}

package revision

import (
	"context"
	"sync"
	"time"

	"github.com/nbhive/nbhive/internal/notebook"
)

// MemoryLedger is the in-memory ledger used for dev mode and tests.
type MemoryLedger struct {
	mu   sync.Mutex
	revs []*Revision
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) append(rev *Revision) *Revision {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revs = append(m.revs, rev)
	cp := *rev
	return &cp
}

func (m *MemoryLedger) RecordCreation(ctx context.Context, nb *notebook.Notebook, user, message string) (*Revision, error) {
	return m.append(newRevision(nb, user, message, KindCreation)), nil
}

func (m *MemoryLedger) RecordUpdate(ctx context.Context, nb *notebook.Notebook, user, message string, kind Kind) (*Revision, error) {
	return m.append(newRevision(nb, user, message, kind)), nil
}

func (m *MemoryLedger) LatestFor(ctx context.Context, notebookUUID string) (*Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.revs) - 1; i >= 0; i-- {
		if m.revs[i].NotebookUUID == notebookUUID {
			cp := *m.revs[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryLedger) OverrideTimestamps(ctx context.Context, rev *Revision, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.revs {
		if r.ID == rev.ID {
			r.CreatedAt = t
			r.UpdatedAt = t
			rev.CreatedAt = t
			rev.UpdatedAt = t
			return nil
		}
	}
	return ErrNotFound
}

// Count reports the total number of ledger entries.
func (m *MemoryLedger) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revs)
}

// Package revision keeps the append-only commit history. One revision is
// written per successfully committed import entry; nothing here is ever
// deleted or edited, except the one-time timestamp override applied right
// after a record is written to preserve provenance dates on reimport.
package revision

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nbhive/nbhive/internal/notebook"
)

var ErrNotFound = errors.New("revision not found")

// Kind classifies what a commit changed.
type Kind string

const (
	KindCreation Kind = "creation"
	KindContent  Kind = "content"
	KindMetadata Kind = "metadata"
)

// Revision is one immutable ledger entry.
type Revision struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	NotebookUUID string    `bson:"notebookUuid" json:"notebookUuid"`
	CommitID     string    `bson:"commitId" json:"commitId"`
	Message      string    `bson:"message" json:"message"`
	Kind         Kind      `bson:"kind" json:"kind"`
	User         string    `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Ledger is the append-only revision history.
type Ledger interface {
	RecordCreation(ctx context.Context, nb *notebook.Notebook, user, message string) (*Revision, error)
	RecordUpdate(ctx context.Context, nb *notebook.Notebook, user, message string, kind Kind) (*Revision, error)
	LatestFor(ctx context.Context, notebookUUID string) (*Revision, error)
	// OverrideTimestamps back-dates a freshly written revision. It is the
	// only mutation the ledger permits.
	OverrideTimestamps(ctx context.Context, rev *Revision, t time.Time) error
}

func newRevision(nb *notebook.Notebook, user, message string, kind Kind) *Revision {
	now := time.Now().UTC()
	return &Revision{
		ID:           uuid.NewString(),
		NotebookUUID: nb.UUID,
		CommitID:     nb.CommitID,
		Message:      message,
		Kind:         kind,
		User:         user,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

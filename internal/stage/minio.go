package stage

import (
	"context"

	"github.com/nbhive/nbhive/internal/storage"
)

// objectStore is the slice of the storage client the stage store needs.
type objectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
}

// MinIOStore keeps staged content as one object per stage uuid in a
// dedicated bucket.
type MinIOStore struct {
	objects objectStore
}

func NewMinIOStore(objects *storage.MinIO) *MinIOStore {
	return &MinIOStore{objects: objects}
}

func (s *MinIOStore) Save(ctx context.Context, st *Stage) error {
	return s.objects.Put(ctx, st.UUID, st.Content)
}

func (s *MinIOStore) Discard(ctx context.Context, uuid string) error {
	return s.objects.Remove(ctx, uuid)
}

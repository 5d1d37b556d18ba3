// Package stage holds notebook content between receipt and commit. A stage
// is created before any validation runs and must be discarded on every exit
// path of its entry's processing; nothing staged is ever visible in the
// permanent store.
package stage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stage is an ephemeral content holder keyed by a fresh identifier and the
// acting user.
type Stage struct {
	UUID      string    `json:"uuid"`
	User      string    `json:"user"`
	Content   []byte    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// New allocates a stage with a fresh identifier. The identifier doubles as
// the commit id, and as the notebook uuid when the sidecar does not supply
// one.
func New(user string, content []byte) *Stage {
	return &Stage{
		UUID:      uuid.NewString(),
		User:      user,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists stages. Implementations must make Discard idempotent:
// processing calls it on every exit path.
type Store interface {
	Save(ctx context.Context, s *Stage) error
	Discard(ctx context.Context, uuid string) error
}

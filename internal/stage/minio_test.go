package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*MinIOStore)(nil)

type fakeObjects struct {
	data map[string][]byte
}

func (f *fakeObjects) Put(_ context.Context, key string, data []byte) error {
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.data[key] = data
	return nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestMinIOStore_SaveAndDiscard(t *testing.T) {
	objects := &fakeObjects{}
	store := &MinIOStore{objects: objects}
	ctx := context.Background()

	st := New("alice", []byte(`{"nbformat":4}`))
	require.NoError(t, store.Save(ctx, st))
	assert.Equal(t, st.Content, objects.data[st.UUID])

	require.NoError(t, store.Discard(ctx, st.UUID))
	assert.NotContains(t, objects.data, st.UUID)
}

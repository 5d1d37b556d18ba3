package stage

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_SaveGetDiscard(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewRedisStore(client, "", 10*time.Minute)

	ctx := context.Background()
	s := New("admin", []byte(`{"nbformat":4}`))
	require.NotEmpty(t, s.UUID)
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.UUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, s.Content, got.Content)
	require.Equal(t, "admin", got.User)

	require.NoError(t, store.Discard(ctx, s.UUID))
	got, err = store.Get(ctx, s.UUID)
	require.NoError(t, err)
	require.Nil(t, got)

	// discard is idempotent
	require.NoError(t, store.Discard(ctx, s.UUID))
}

func TestRedisStore_OrphanExpiresByAge(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewRedisStore(client, "", 2*time.Second)

	ctx := context.Background()
	s := New("admin", []byte("orphaned"))
	require.NoError(t, store.Save(ctx, s))

	m.FastForward(3 * time.Second)

	got, err := store.Get(ctx, s.UUID)
	require.NoError(t, err)
	require.Nil(t, got)
}

package gallery

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbhive/nbhive/internal/archive"
	"github.com/nbhive/nbhive/internal/revision"
)

func TestExport_NothingEligible(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	err := env.svc.Export(context.Background(), &buf)
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, buf.Len())

	// a private notebook does not become eligible
	public := false
	meta := userMeta("Secret")
	meta.Public = &public
	ar := buildArchive(t, []archive.Item{{Key: "nb1", Meta: meta, Content: notebookJSON("x")}})
	report, err := env.svc.Import(context.Background(), env.admin, ar, ImportOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)

	err = env.svc.Export(context.Background(), &buf)
	require.ErrorIs(t, err, ErrNothingToExport)
}

func TestExport_SidecarCoversEveryEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public := true
	m1 := userMeta("Alpha")
	m1.Public = &public
	m1.Description = "first"
	m2 := archive.Meta{Title: "Beta", Owner: "physics", OwnerKind: "Group", Public: &public, Creator: "bob", Updater: "alice"}
	ar := buildArchive(t, []archive.Item{
		{Key: "nb1", Meta: m1, Content: notebookJSON("a")},
		{Key: "nb2", Meta: m2, Content: notebookJSON("b")},
	})
	report, err := env.svc.Import(ctx, env.admin, ar, ImportOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)

	var buf bytes.Buffer
	require.NoError(t, env.svc.Export(ctx, &buf))

	out, err := archive.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	require.Len(t, out.Metadata, 2)
	for _, entry := range out.Entries {
		meta, ok := out.Metadata[archive.Key(entry.Name)]
		require.True(t, ok, "sidecar record for %s", entry.Name)
		assert.Equal(t, meta.UUID+archive.NotebookExt, entry.Name)
		assert.NotNil(t, meta.Public)
		assert.NotNil(t, meta.Created)
		assert.NotNil(t, meta.Updated)
		assert.NotEmpty(t, meta.Owner)
		assert.NotEmpty(t, meta.OwnerKind)
	}

	beta, err := env.repo.FindByOwnerTitle(ctx, "group:physics", "Beta")
	require.NoError(t, err)
	bm := out.Metadata[beta.UUID]
	assert.Equal(t, "physics", bm.Owner)
	assert.Equal(t, "Group", bm.OwnerKind)
	assert.Equal(t, "bob", bm.Creator)
	assert.Equal(t, "alice", bm.Updater)
}

func TestRoundTrip_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public := true
	m1 := userMeta("Round One")
	m1.Public = &public
	m1.Description = "desc one"
	m1.Updated = archive.NewDate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	m1.Created = archive.NewDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	m1.Tags = []string{"demo", "tutorial"}
	m2 := archive.Meta{Title: "Round Two", Owner: "physics", OwnerKind: "Group", Public: &public, Updater: "bob"}
	ar := buildArchive(t, []archive.Item{
		{Key: "nb1", Meta: m1, Content: notebookJSON("one")},
		{Key: "nb2", Meta: m2, Content: notebookJSON("two")},
	})
	report, err := env.svc.Import(ctx, env.admin, ar, ImportOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)

	before, err := env.repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	var buf bytes.Buffer
	require.NoError(t, env.svc.Export(ctx, &buf))

	report, err = env.svc.Import(ctx, env.admin, bytes.NewReader(buf.Bytes()), ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	require.Len(t, report.Successes, 2)
	for _, s := range report.Successes {
		assert.Equal(t, "updated", s.Action)
	}

	after, err := env.repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	for i := range before {
		assert.Equal(t, before[i].UUID, after[i].UUID)
		assert.Equal(t, before[i].Title, after[i].Title)
		assert.Equal(t, before[i].Owner.Key(), after[i].Owner.Key())
		assert.Equal(t, before[i].Public, after[i].Public)
		assert.Equal(t, before[i].Tags, after[i].Tags)

		wasData, err := env.blobs.Get(ctx, before[i].ContentID)
		require.NoError(t, err)
		isData, err := env.blobs.Get(ctx, after[i].ContentID)
		require.NoError(t, err)
		assert.Equal(t, wasData, isData)

		// re-importing identical content records metadata-only revisions
		rev, err := env.ledger.LatestFor(ctx, after[i].UUID)
		require.NoError(t, err)
		assert.Equal(t, revision.KindMetadata, rev.Kind)
	}
}

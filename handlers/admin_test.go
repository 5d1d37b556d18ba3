package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbhive/nbhive/internal/archive"
	"github.com/nbhive/nbhive/internal/content"
	"github.com/nbhive/nbhive/internal/discussion"
	"github.com/nbhive/nbhive/internal/gallery"
	"github.com/nbhive/nbhive/internal/identity"
	"github.com/nbhive/nbhive/internal/notebook/repository"
	"github.com/nbhive/nbhive/internal/recommend"
	"github.com/nbhive/nbhive/internal/revision"
	"github.com/nbhive/nbhive/internal/stage"
)

func newTestRouter(t *testing.T, defaultVisibility bool) (*gin.Engine, *repository.MemoryRepo) {
	t.Helper()
	users := identity.NewMemoryUsers()
	groups := identity.NewMemoryGroups()
	require.NoError(t, users.Save(context.Background(), &identity.User{Name: "alice"}))

	repo := repository.NewMemoryRepo()
	svc := gallery.NewService(
		repo,
		identity.NewResolver(users, groups),
		stage.NewMemoryStore(),
		content.NewMemoryStore(),
		revision.NewMemoryLedger(),
		recommend.NewMemorySignals(),
		discussion.NewMemoryThreads(),
		"",
	)
	g := gin.New()
	RegisterAdminRoutes(g, svc, defaultVisibility)
	return g, repo
}

func sampleArchive(t *testing.T, public bool) []byte {
	t.Helper()
	meta := archive.Meta{Title: "Handler Test", Owner: "alice", OwnerKind: "User", Public: &public}
	raw, err := archive.EncodeBytes([]archive.Item{{
		Key:     "nb1",
		Meta:    meta,
		Content: []byte(`{"nbformat":4,"cells":[{"cell_type":"code","source":["1+1"],"metadata":{}}],"metadata":{}}`),
	}})
	require.NoError(t, err)
	return raw
}

func TestImportUpload_RawBody(t *testing.T) {
	g, _ := newTestRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import", bytes.NewReader(sampleArchive(t, true)))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var report gallery.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Successes, 1)
	assert.Empty(t, report.Errors)
	assert.Equal(t, "created", report.Successes[0].Action)
}

func TestImportUpload_FileField(t *testing.T) {
	g, _ := newTestRouter(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "batch.tar.gz")
	require.NoError(t, err)
	_, err = fw.Write(sampleArchive(t, true))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

// visibilityUnsetArchive leaves the sidecar public flag unset so the batch
// default decides.
func visibilityUnsetArchive(t *testing.T) []byte {
	t.Helper()
	meta := archive.Meta{Title: "Handler Test", Owner: "alice", OwnerKind: "User"}
	raw, err := archive.EncodeBytes([]archive.Item{{
		Key:     "nb1",
		Meta:    meta,
		Content: []byte(`{"nbformat":4,"cells":[{"cell_type":"code","source":["1+1"],"metadata":{}}],"metadata":{}}`),
	}})
	require.NoError(t, err)
	return raw
}

func TestImportUpload_ConfiguredDefaultVisibility(t *testing.T) {
	g, repo := newTestRouter(t, true)

	// no visibility param: the configured batch default applies
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import", bytes.NewReader(visibilityUnsetArchive(t)))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	nb, err := repo.FindByOwnerTitle(context.Background(), "user:alice", "Handler Test")
	require.NoError(t, err)
	assert.True(t, nb.Public)
}

func TestImportUpload_VisibilityParamOverridesDefault(t *testing.T) {
	g, repo := newTestRouter(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import?visibility=private", bytes.NewReader(visibilityUnsetArchive(t)))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	nb, err := repo.FindByOwnerTitle(context.Background(), "user:alice", "Handler Test")
	require.NoError(t, err)
	assert.False(t, nb.Public)
}

func TestImportUpload_WrongExtension(t *testing.T) {
	g, _ := newTestRouter(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "batch.zip")
	require.NoError(t, err)
	_, err = fw.Write(sampleArchive(t, true))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ".tar.gz")
}

func TestImportUpload_BadFormat(t *testing.T) {
	g, _ := newTestRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import", bytes.NewReader([]byte("not an archive")))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadExport(t *testing.T) {
	g, _ := newTestRouter(t, false)

	// nothing public yet
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	// import a public notebook, then export it
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/import", bytes.NewReader(sampleArchive(t, true)))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notebook_export.tar.gz")

	ar, err := archive.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, ar.Entries, 1)
}

func TestNotebookSummary(t *testing.T) {
	g, _ := newTestRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/import", bytes.NewReader(sampleArchive(t, false)))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/notebooks/summary", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got["total"])
	assert.Equal(t, 0, got["public"])
	assert.Equal(t, 1, got["private"])
	assert.Equal(t, 1, got["owners"])
}

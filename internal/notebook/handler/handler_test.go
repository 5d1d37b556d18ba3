package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nbhive/nbhive/internal/content"
	"github.com/nbhive/nbhive/internal/identity"
	"github.com/nbhive/nbhive/internal/notebook"
	"github.com/nbhive/nbhive/internal/notebook/repository"
)

func TestNotebookRoutes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	contents := content.NewMemoryStore()

	nb := &notebook.Notebook{
		UUID:      "9f0c61f3-7e8f-4e37-9cb4-6a5ef3c9b021",
		Title:     "Readable",
		Owner:     identity.OwnUser(&identity.User{Name: "alice"}),
		Public:    true,
		Lang:      "python",
		ContentID: "9f0c61f3-7e8f-4e37-9cb4-6a5ef3c9b021",
	}
	require.NoError(t, repo.Save(ctx, nb))
	require.NoError(t, contents.Put(ctx, nb.ContentID, []byte(`{"nbformat":4,"cells":[]}`)))

	g := gin.New()
	RegisterNotebookRoutes(g, repo, contents)

	// list
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notebooks", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Readable", list[0]["title"])

	// get with content
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/notebooks/"+nb.UUID, nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "alice", got["owner"])
	require.Contains(t, got["content"], "nbformat")

	// missing
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/notebooks/unknown", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

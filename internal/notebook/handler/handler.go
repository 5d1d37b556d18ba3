package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nbhive/nbhive/internal/content"
	"github.com/nbhive/nbhive/internal/notebook/repository"
)

// RegisterNotebookRoutes registers the read-side notebook endpoints.
func RegisterNotebookRoutes(r *gin.Engine, repo repository.Repository, contents content.Store) {
	r.GET("/api/notebooks", func(c *gin.Context) {
		list, err := repo.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]map[string]interface{}, 0, len(list))
		for _, nb := range list {
			out = append(out, map[string]interface{}{
				"uuid":      nb.UUID,
				"title":     nb.Title,
				"owner":     nb.Owner.DisplayName(),
				"public":    nb.Public,
				"lang":      nb.Lang,
				"updatedAt": nb.UpdatedAt,
			})
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/api/notebooks/:uuid", func(c *gin.Context) {
		uuid := c.Param("uuid")
		nb, err := repo.FindByUUID(c.Request.Context(), uuid)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		data, err := contents.Get(c.Request.Context(), nb.ContentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "content unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"uuid":        nb.UUID,
			"title":       nb.Title,
			"description": nb.Description,
			"owner":       nb.Owner.DisplayName(),
			"ownerKind":   nb.Owner.Kind,
			"public":      nb.Public,
			"lang":        nb.Lang,
			"langVersion": nb.LangVersion,
			"tags":        nb.Tags,
			"content":     string(data),
			"createdAt":   nb.CreatedAt,
			"updatedAt":   nb.UpdatedAt,
		})
	})
}

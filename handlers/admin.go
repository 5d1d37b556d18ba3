package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nbhive/nbhive/internal/archive"
	"github.com/nbhive/nbhive/internal/gallery"
	"github.com/nbhive/nbhive/internal/identity"
)

const exportFilename = "notebook_export.tar.gz"

// RegisterAdminRoutes registers the batch import/export endpoints.
// defaultVisibility applies to imported batches that carry no visibility
// param of their own.
func RegisterAdminRoutes(r *gin.Engine, svc *gallery.Service, defaultVisibility bool) {
	r.POST("/admin/import", func(c *gin.Context) { importUpload(c, svc, defaultVisibility) })
	r.GET("/admin/export", func(c *gin.Context) { downloadExport(c, svc) })
	r.GET("/admin/notebooks/summary", func(c *gin.Context) { notebookSummary(c, svc) })
}

// uploadedArchive returns the archive byte stream: the "file" form field when
// present (original filename must end in .tar.gz), otherwise the raw body.
func uploadedArchive(c *gin.Context) (io.ReadCloser, string) {
	fh, err := c.FormFile("file")
	if err != nil {
		// no file field: accept the raw request body
		return c.Request.Body, ""
	}
	if !strings.HasSuffix(fh.Filename, ".tar.gz") {
		return nil, "file extension must be .tar.gz"
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "unable to read uploaded file"
	}
	return f, ""
}

func importUpload(c *gin.Context, svc *gallery.Service, defaultVisibility bool) {
	body, errMsg := uploadedArchive(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}
	defer body.Close()

	// the visibility param overrides the configured batch default
	opts := gallery.ImportOptions{DefaultVisibility: defaultVisibility}
	if v := c.DefaultQuery("visibility", c.PostForm("visibility")); v != "" {
		opts.DefaultVisibility = v == "public" || v == "true"
	}

	actingName := c.GetHeader("X-Acting-User")
	if actingName == "" {
		actingName = "admin"
	}
	acting := &identity.User{Name: actingName}

	report, err := svc.Import(c.Request.Context(), acting, body, opts)
	if err != nil {
		if errors.Is(err, archive.ErrBadFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func downloadExport(c *gin.Context, svc *gallery.Service) {
	var buf bytes.Buffer
	if err := svc.Export(c.Request.Context(), &buf); err != nil {
		if errors.Is(err, gallery.ErrNothingToExport) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, "application/gzip", buf.Bytes())
}

// notebookSummary is the lightweight counts endpoint the admin overview
// consumes.
func notebookSummary(c *gin.Context, svc *gallery.Service) {
	all, err := svc.Notebooks().ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	publicCount := 0
	owners := map[string]int{}
	for _, nb := range all {
		if nb.Public {
			publicCount++
		}
		owners[nb.Owner.Key()]++
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   len(all),
		"public":  publicCount,
		"private": len(all) - publicCount,
		"owners":  len(owners),
	})
}

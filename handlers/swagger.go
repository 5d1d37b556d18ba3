package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the gallery service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>nbhive — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the import/export and browse endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "nbhive", "version": "v0.1.0" },
  "paths": {
    "/admin/import": {
      "post": {
        "summary": "Import a batch of notebooks from a tar.gz archive",
        "requestBody": { "content": { "application/gzip": { "schema": {"type":"string","format":"binary"} }, "multipart/form-data": { "schema": {"type":"object","properties":{"file":{"type":"string","format":"binary"},"visibility":{"type":"string"}}} } } },
        "responses": { "200": { "description": "per-entry import report" }, "400": { "description": "archive unreadable" } }
      }
    },
    "/admin/export": {
      "get": { "summary": "Download all public notebooks as a tar.gz archive", "responses": { "200": { "description": "notebook_export.tar.gz" }, "404": { "description": "nothing to export" } } }
    },
    "/admin/notebooks/summary": {
      "get": { "summary": "Counts of stored notebooks", "responses": { "200": { "description": "totals by visibility and owner" } } }
    },
    "/api/notebooks": {
      "get": { "summary": "List notebooks", "responses": { "200": { "description": "notebook list" } } }
    },
    "/api/notebooks/{uuid}": {
      "get": { "summary": "Fetch a notebook with its content", "responses": { "200": { "description": "notebook" }, "404": { "description": "unknown uuid" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`

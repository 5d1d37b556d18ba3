package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nbhive/nbhive/internal/config"
	"github.com/nbhive/nbhive/internal/content"
	"github.com/nbhive/nbhive/internal/database"
	"github.com/nbhive/nbhive/internal/notebook/handler"
	"github.com/nbhive/nbhive/internal/notebook/repository"
	"github.com/nbhive/nbhive/internal/storage"
)

// Standalone read-side notebooks service. The full service (import/export,
// staging, MinIO content) lives in the root main; this binary serves the
// browse API only.
func main() {
	port := os.Getenv("GALLERY_SERVICE_PORT")
	if port == "" {
		port = "5021"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var notebooks repository.Repository
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repo", err)
			notebooks = repository.NewMemoryRepo()
		} else {
			col := client.Database(os.Getenv("MONGODB_DATABASE")).Collection("notebooks")
			notebooks = repository.NewMongoRepo(col)
		}
	} else {
		notebooks = repository.NewMemoryRepo()
	}

	var contents content.Store
	if cfg, err := config.LoadConfig(); err == nil && cfg.MinIO.Endpoint != "" {
		if objects, err := storage.NewMinIO(cfg.MinIO, cfg.MinIO.ContentBucket); err == nil {
			contents = content.NewMinIOStore(objects)
		} else {
			log.Printf("warning: cannot reach MinIO (%v) — notebook content disabled", err)
		}
	}
	if contents == nil {
		contents = content.NewMemoryStore()
	}

	handler.RegisterNotebookRoutes(r, notebooks, contents)

	log.Printf("gallery read service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nbhive/nbhive/handlers"
	"github.com/nbhive/nbhive/internal/config"
	"github.com/nbhive/nbhive/internal/content"
	"github.com/nbhive/nbhive/internal/database"
	"github.com/nbhive/nbhive/internal/discussion"
	"github.com/nbhive/nbhive/internal/gallery"
	"github.com/nbhive/nbhive/internal/identity"
	nbhandler "github.com/nbhive/nbhive/internal/notebook/handler"
	"github.com/nbhive/nbhive/internal/notebook/repository"
	"github.com/nbhive/nbhive/internal/recommend"
	"github.com/nbhive/nbhive/internal/revision"
	"github.com/nbhive/nbhive/internal/stage"
	"github.com/nbhive/nbhive/internal/storage"
	"github.com/nbhive/nbhive/pkg/logger"
	"github.com/nbhive/nbhive/pkg/metrics"
	"github.com/nbhive/nbhive/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early so the rate-limiter and the staging store can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per client IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// Connect to MongoDB when configured. Retry/backoff tolerates startup races
	// with the database container.
	var mongoDB *mongo.Database
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			mongoDB = client.Database(cfg.MongoDB.Database)
			logger.Infof("Connected to MongoDB: %s", cfg.MongoDB.Database)
		}
	}

	// Persistence wiring: Mongo-backed when available, in-memory otherwise
	// (memory mode keeps local development and CI self-contained).
	var (
		notebooks repository.Repository
		users     identity.UserRepository
		groups    identity.GroupRepository
		ledger    revision.Ledger
		signals   recommend.Signals
		threads   discussion.Threads
	)
	if mongoDB != nil {
		notebooks = repository.NewMongoRepo(mongoDB.Collection("notebooks"))
		users = identity.NewMongoUsers(mongoDB.Collection("users"))
		groups = identity.NewMongoGroups(mongoDB.Collection("groups"))
		ledger = revision.NewMongoLedger(mongoDB.Collection("revisions"))
		signals = recommend.NewMongoSignals(mongoDB.Collection("upload_signals"))
		threads = discussion.NewMongoThreads(mongoDB.Collection("thread_subscriptions"))
	} else {
		logger.Warnf("MongoDB not available, using in-memory persistence")
		notebooks = repository.NewMemoryRepo()
		users = identity.NewMemoryUsers()
		groups = identity.NewMemoryGroups()
		ledger = revision.NewMemoryLedger()
		signals = recommend.NewMemorySignals()
		threads = discussion.NewMemoryThreads()
	}

	// Staging store: Redis when available (expired stages are garbage-collected
	// by the TTL), MinIO when configured, in-memory otherwise.
	var stages stage.Store
	if redisClient != nil {
		stages = stage.NewRedisStore(redisClient, "stage:", cfg.Import.StageTTL)
	} else if cfg.MinIO.Endpoint != "" {
		objects, err := storage.NewMinIO(cfg.MinIO, cfg.MinIO.StageBucket)
		if err != nil {
			logger.Warnf("failed to initialize MinIO stage store: %v", err)
		} else {
			stages = stage.NewMinIOStore(objects)
			logger.Infof("Using MinIO for staged content: %s/%s", cfg.MinIO.Endpoint, cfg.MinIO.StageBucket)
		}
	}
	if stages == nil {
		stages = stage.NewMemoryStore()
	}

	// Committed notebook content: MinIO when configured, in-memory otherwise
	var contents content.Store
	if cfg.MinIO.Endpoint != "" {
		objects, err := storage.NewMinIO(cfg.MinIO, cfg.MinIO.ContentBucket)
		if err != nil {
			logger.Warnf("failed to initialize MinIO content store: %v", err)
		} else {
			contents = content.NewMinIOStore(objects)
			logger.Infof("Using MinIO for notebook content: %s/%s", cfg.MinIO.Endpoint, cfg.MinIO.ContentBucket)
		}
	}
	if contents == nil {
		contents = content.NewMemoryStore()
	}

	resolver := identity.NewResolver(users, groups)
	svc := gallery.NewService(notebooks, resolver, stages, contents, ledger, signals, threads, cfg.Import.CommitMessage)

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongodb"] = mongoDB != nil || cfg.MongoDB.URI == ""
		if !deps["mongodb"] {
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.RegisterAdminRoutes(r, svc, cfg.Import.DefaultVisibility)
	handlers.RegisterSwagger(r)
	nbhandler.RegisterNotebookRoutes(r, notebooks, contents)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting gallery service on %s", addr)
	// run server in goroutine and keep process alive — prevents the container
	// from exiting silently if r.Run ever returns.
	go func() {
		if err := r.Run(addr); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()
	select {}
}

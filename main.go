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

	"github.com/smartedu/smartedu/backend/go-services/handlers"
	"github.com/smartedu/smartedu/backend/go-services/internal/config"
	"github.com/smartedu/smartedu/backend/go-services/internal/content"
	"github.com/smartedu/smartedu/backend/go-services/internal/database"
	"github.com/smartedu/smartedu/backend/go-services/internal/generation"
	"github.com/smartedu/smartedu/backend/go-services/internal/storage"
	"github.com/smartedu/smartedu/backend/go-services/internal/users"
	"github.com/smartedu/smartedu/backend/go-services/pkg/logger"
	"github.com/smartedu/smartedu/backend/go-services/pkg/metrics"
	"github.com/smartedu/smartedu/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v groq_key_set=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Groq.APIKey != "")

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

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
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

	// Connect to MongoDB with retry/backoff to tolerate startup races. Without
	// a configured URI the service falls back to in-memory stores (dev/test).
	ctx := context.Background()
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
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
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	var userSvc *users.Service
	var notesSvc, assignmentsSvc *content.Service
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
		notesSvc = content.NewService(content.NewMongoRepo(db.Collection("notes")))
		assignmentsSvc = content.NewService(content.NewMongoRepo(db.Collection("assignments")))
		logger.Infof("Using MongoDB storage (db=%s)", cfg.MongoDB.Database)
	} else {
		userSvc = users.NewService(users.NewMemoryUserRepository())
		notesSvc = content.NewService(content.NewMemoryRepo())
		assignmentsSvc = content.NewService(content.NewMemoryRepo())
		logger.Warnf("MongoDB unavailable, using in-memory storage (data is not persistent)")
	}

	genClient := generation.NewHTTPClient(cfg.Groq)

	// Optional export archive: every served PDF is also uploaded when MinIO is
	// configured.
	var archive *storage.ExportArchive
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		archive, err = storage.NewExportArchive(mcfg)
		if err != nil {
			logger.Warnf("export archive disabled: %v", err)
			archive = nil
		} else {
			logger.Infof("export archive enabled (bucket=%s)", mcfg.Bucket)
		}
	}

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"storage":    true, // memory fallback always serves
			"mongo":      mongoClient != nil,
			"completion": cfg.Groq.APIKey != "",
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		}
		if !deps["completion"] {
			ready = false
		}
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// API routes
	api := r.Group("/api")
	handlers.NewAuthHandler(cfg, userSvc).Register(api)
	auth := middleware.AuthMiddleware(cfg.JWT.Secret)
	handlers.NewNotesHandler(notesSvc, genClient, archive).Register(api, auth)
	handlers.NewAssignmentsHandler(assignmentsSvc, genClient, archive).Register(api, auth)
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting smartedu service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civicgo/backend/internal/api/handler"
	"civicgo/backend/internal/chathub"
	"civicgo/backend/internal/config"
	"civicgo/backend/internal/dialogue"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"
	"civicgo/backend/internal/store"
	"civicgo/backend/internal/telegram"
)

// setupDependencies connects PostgreSQL and Redis, retrying with exponential
// backoff so the server survives a slower-starting database container.
func setupDependencies(ctx context.Context, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	dsn := config.MustGet("DATABASE_DSN")

	backoff := retry.WithMaxDuration(30*time.Second, retry.NewExponential(500*time.Millisecond))

	var db *gorm.DB
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			logger.Warn("postgres not ready, retrying", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Get("REDIS_ADDR", "localhost:6379"),
		Password: config.Get("REDIS_PASSWORD", ""),
		DB:       0,
	})
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not ready, retrying", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}

	if err := db.AutoMigrate(&models.User{}, &models.Report{}); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	logger.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting civicgo portal backend")

	ctx := context.Background()
	db, rdb := setupDependencies(ctx, logger)
	storageSvc := storage.NewService(db, rdb)

	reportStore := store.New(storageSvc, logger)
	reportStore.Init(ctx)

	engine := dialogue.New(reportStore, dialogue.NewSequencer(), logger)
	engine.SetSnapshotSink(storageSvc)

	// Sweep abandoned conversations on the same horizon as their Redis
	// snapshots.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			engine.EvictIdle(config.SessionSnapshotTTL)
		}
	}()

	hub := chathub.NewManagerService(engine, storageSvc, logger)
	go hub.Run()
	hub.StartPubSubListener()

	if botToken := os.Getenv("TELEGRAM_BOT_TOKEN"); botToken != "" {
		botService, err := telegram.NewBotService(botToken, hub, logger)
		if err != nil {
			logger.Fatal("failed to start telegram bot", zap.Error(err))
		}
		go botService.Run()
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, telegram intake disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := handler.NewMetrics(registry)

	h := handler.NewHandler(hub, engine, reportStore, storageSvc, metrics, logger, config.MustGet("JWT_SECRET"))

	r := gin.Default()
	r.Use(metrics.Middleware())

	r.POST("/api/login", h.Login)
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/chat", h.Chat)
	r.GET("/api/complaints/:userId", h.GetUserComplaints)
	r.GET("/api/health", h.Health)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	server := &http.Server{
		Addr:           config.Get("LISTEN_ADDR", ":8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

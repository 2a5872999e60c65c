// cmd/api/main.go
// Main entry point for the matchmaker API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/imadgeboyega/kiekky-matchmaker/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/common/database"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/config"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/dating"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/matching"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/notification"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Kiekky Matchmaker API")
	log.Println("========================================")

	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Printf("✅ Configuration loaded (%s)", cfg.Environment)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		MaxLifetime:  5 * time.Minute,
	})
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	// 4. Connect to Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  %v, continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis")
		}
	}

	// 5. Run database migrations
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}

	// 6. Notifications
	var hub *notification.Hub
	var pusher notification.Pusher
	if cfg.EnableWebSocket {
		hub = notification.NewHub(cfg.WSAllowedOrigins)
		pusher = hub
		go hub.Run(ctx)
	}

	notificationRepo := notification.NewPostgresRepository(db)
	senders, err := notification.SendersFromConfig(cfg, notificationRepo, pusher)
	if err != nil {
		log.Fatal("❌ Failed to configure notification channels: ", err)
	}
	notificationService := notification.NewService(notificationRepo, senders...)
	notificationHandler := notification.NewHandler(notificationService)
	log.Printf("✅ Notification channels: %v", cfg.NotificationChannels)

	// 7. Matching
	var locker dating.Locker
	if redisClient != nil {
		locker = dating.NewRedisLocker(redisClient, cfg.MatchLockTTL)
	} else {
		log.Println("⚠️  Using in-process match locks (single instance only)")
		locker = dating.NewLocalLocker()
	}

	opts := dating.Options{
		DailyQuota: cfg.DailyMatchQuota,
		Weights:    matching.DefaultWeights,
		Limits:     matching.DefaultLimits,
	}
	datingRepo := dating.NewPostgresRepository(db)
	datingService := dating.NewService(datingRepo, locker, notificationService, opts)
	datingHandler := dating.NewHandler(datingService, opts)

	dating.NewScheduler(datingService, cfg.QuotaResetHour).Start(ctx)
	log.Printf("✅ Daily quota reset scheduled at %02d:00", cfg.QuotaResetHour)

	// 8. Router
	authMiddleware := auth.NewMiddleware(auth.NewJWTValidator(cfg.JWTSecret))

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	dating.RegisterRoutes(router, datingHandler, authMiddleware)
	notification.RegisterRoutes(router, notificationHandler, hub, authMiddleware)

	// 9. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)

	// The hub and scheduler outlive in-flight requests
	stop()

	if err != nil {
		log.Fatal("❌ Server forced to shutdown: ", err)
	}

	log.Println("✅ Server exited gracefully")
}

package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/skillbridge/skillbridge/api"
	dbfiles "github.com/skillbridge/skillbridge/db"
	"github.com/skillbridge/skillbridge/internal/cache"
	"github.com/skillbridge/skillbridge/internal/config"
	"github.com/skillbridge/skillbridge/internal/db"
	"github.com/skillbridge/skillbridge/internal/repository/sqlite"
	"github.com/skillbridge/skillbridge/internal/skillgap"
	"github.com/skillbridge/skillbridge/internal/sweeper"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting SkillBridge server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply pending migrations
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, dbfiles.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// Redis is optional; a nil cache degrades every lookup to a miss.
	var listingCache *cache.Cache
	if cfg.Redis.Addr != "" {
		listingCache, err = cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, logger)
		if err != nil {
			log.Printf("Redis unavailable, running without listing cache: %v", err)
			listingCache = nil
		}
	}

	// Gemini is optional; without it resume parsing uses the keyword scan.
	var analyzer skillgap.Analyzer
	if cfg.Gemini.APIKey != "" {
		analyzer, err = skillgap.NewGeminiAnalyzer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("Gemini unavailable, using keyword skill detection: %v", err)
			analyzer = nil
		}
	}

	handler := api.SetupRoutes(cfg, version, buildTime, conn, listingCache, analyzer)

	repo := sqlite.New(conn, logger)
	deadlineSweeper := sweeper.New(repo, listingCache, logger, cfg.SweepInterval)
	deadlineSweeper.Start(ctx)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	deadlineSweeper.Stop()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := listingCache.Close(); err != nil {
		log.Printf("Error closing cache: %v", err)
	}
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/myloggi/internal/apiclient"
	"github.com/myloggi/internal/cleanup"
	"github.com/myloggi/internal/config"
	"github.com/myloggi/internal/db"
	httpserver "github.com/myloggi/internal/http"
	"github.com/myloggi/internal/logger"
	"github.com/myloggi/internal/service"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// Load .env file if it exists (optional, won't error if missing)
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("No %s file loaded: %v", envFile, err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.InitLogger(cfg.Environment, cfg.LogJSON)

	appLogger.Info("configuration loaded",
		"environment", cfg.Environment,
		"listen_address", cfg.ServerAddress,
		"api_base_url", cfg.API.BaseURL,
		"guard_paths", cfg.Guard.Paths,
		"guard_verifies_jwt", cfg.Guard.UpstreamJWTSecret != "",
		"secure_cookies", cfg.Cookie.Secure,
	)

	// Initialize database
	database, err := db.Init(cfg.DatabasePath)
	if err != nil {
		appLogger.Error("failed to initialize database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer database.Close()
	appLogger.Info("database ready", "path", database.GetDBPath())

	client := apiclient.New(cfg.API.BaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		apiclient.WithLogger(appLogger),
	)
	authService := service.NewAuthService(client, appLogger)
	rememberService := service.NewRememberService(database, cfg.RememberMe.TTL, appLogger)

	cleanupManager := cleanup.NewCleanupManager(rememberService, cfg.RememberMe.CleanupSchedule, appLogger)
	if err := cleanupManager.Start(); err != nil {
		appLogger.Error("failed to start cleanup", "error", err)
		os.Exit(1)
	}
	defer cleanupManager.Stop()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	server := httpserver.NewServer(cfg, authService, rememberService, appLogger)
	server.SetCleanupStatus(cleanupManager)
	server.StartBackground(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		appLogger.Info("shutting down server...")
	case err := <-serverErr:
		appLogger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown error", "error", err)
	}
	appLogger.Info("server stopped")
}

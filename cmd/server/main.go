package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bookmarkd/internal/auth"
	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/handler"
	"bookmarkd/internal/repository"
	"bookmarkd/internal/search"
	"bookmarkd/internal/service/collection"
	"bookmarkd/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to create log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"database_driver", cfg.DatabaseDriver,
	)

	jwtVerifier, err := auth.NewVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	assets := storage.NewFromConfig(cfg, logger)

	var searchIndex services.SearchIndex = search.Disabled{}
	if cfg.SearchEnabled() {
		linkIndex, err := search.Open(cfg.SearchIndexPath, logger)
		if err != nil {
			log.Fatalf("Failed to open search index: %v", err)
		}
		defer linkIndex.Close()
		searchIndex = linkIndex
	} else {
		logger.Warn("SEARCH_INDEX_PATH not set, search index disabled")
	}

	svc := collection.SetupServices(store, assets, searchIndex, logger)
	logger.Info("services initialized")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(cfg, jwtVerifier, svc.Deletion, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

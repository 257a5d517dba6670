package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/deds0099/nexaapp/config"
	httpDelivery "github.com/deds0099/nexaapp/internal/delivery/http"
	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/deds0099/nexaapp/internal/infrastructure/auth"
	"github.com/deds0099/nexaapp/internal/infrastructure/cache"
	"github.com/deds0099/nexaapp/internal/infrastructure/gemini"
	"github.com/deds0099/nexaapp/internal/infrastructure/metrics"
	"github.com/deds0099/nexaapp/internal/infrastructure/scanner"
	"github.com/deds0099/nexaapp/internal/infrastructure/storage"
	"github.com/deds0099/nexaapp/internal/logger"
	"github.com/deds0099/nexaapp/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	root := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	root.Info("Starting NexaNutri Backend v1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
		"storage", cfg.Storage.Driver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	dietCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()
	root.Info("Cache ready", "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL)

	db, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	scannerClient := scanner.NewClient(scanner.ClientConfig{
		WebhookURL:        cfg.Scanner.WebhookURL,
		Timeout:           cfg.Scanner.Timeout,
		MaxAttempts:       cfg.Scanner.MaxAttempts,
		RequestsPerSecond: cfg.Scanner.RequestsPerSecond,
	}, root.WithPrefix("scanner"))

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		scannerClient.SetDebug(true)
		root.Info("Scanner client debug mode enabled")
	}

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		BaseURL:     cfg.Gemini.BaseURL,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, root.WithPrefix("gemini"))

	if cfg.Gemini.APIKey != "" {
		root.Info("Gemini API configured", "model", cfg.Gemini.Model)
	} else {
		root.Warn("Gemini API key NOT CONFIGURED - diet generation will fail")
	}

	m := metrics.New()

	// Initialize usecase layer
	scanService := usecase.NewScanService(
		scannerClient,
		scanner.NewNormalizer(cfg.Scanner.UnwrapPasses),
		usecase.ScanServiceConfig{MaxUploadBytes: cfg.Server.MaxUploadBytes},
		m,
		root.WithPrefix("scan"),
	)

	dietService := usecase.NewDietService(
		geminiClient,
		storage.NewDietRepository(db),
		dietCache,
		usecase.DietServiceConfig{CacheTTL: cfg.Cache.TTL},
		m,
		root.WithPrefix("diet"),
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scanService, dietService, cfg.Server.MaxUploadBytes)
	router := httpDelivery.SetupRouter(cfg, handler, auth.NewVerifier(cfg.Auth.JWTSecret), m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		root.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	root.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newCache builds the configured diet cache and its cleanup function
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return redisCache, func() { redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	return memoryCache, func() { memoryCache.Close() }, nil
}

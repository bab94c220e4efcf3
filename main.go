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

	"github.com/giygas/mediscript-api/config"
	"github.com/giygas/mediscript-api/data"
	"github.com/giygas/mediscript-api/handlers"
	"github.com/giygas/mediscript-api/health"
	"github.com/giygas/mediscript-api/interfaces"
	"github.com/giygas/mediscript-api/logging"
	"github.com/giygas/mediscript-api/metrics"
	"github.com/giygas/mediscript-api/prescription"
	"github.com/giygas/mediscript-api/scheduler"
	"github.com/giygas/mediscript-api/server"
	"github.com/giygas/mediscript-api/validation"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	loggingService := logging.InitLoggerWithConfig(cfg)
	defer func() { _ = loggingService.Close() }()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"address", cfg.Address,
		"port", cfg.Port,
		"processing_delay", cfg.ProcessingDelay.String(),
		"static_dir", cfg.StaticDir,
		"env_overrides", config.OverriddenEnvVars())

	startTime := time.Now()

	catalog := data.NewSeededCatalog()
	metrics.CatalogSize.Set(float64(catalog.Count()))

	processor := prescription.NewProcessor(catalog, prescription.MockRecognizer{}, cfg.ProcessingDelay)
	uploads := validation.UploadPolicy{FieldName: "prescription", MaxSize: cfg.MaxUploadSize}
	healthChecker := health.NewHealthChecker(catalog, startTime)
	httpHandler := handlers.NewHTTPHandler(catalog, processor, uploads, healthChecker)

	limiter := server.NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity)
	srv := server.NewServer(cfg, httpHandler, limiter)

	var logCleaner interfaces.LogCleaner
	if loggingService.Rotating != nil {
		logCleaner = loggingService.Rotating
	}
	sched := scheduler.NewScheduler(catalog, logCleaner, limiter)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		logging.Error("Server failed", "error", err)
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}

	logging.Info("Server stopped", "uptime", time.Since(startTime).Round(time.Second).String())
}

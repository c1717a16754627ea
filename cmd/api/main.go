package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leaflet/config"
	_ "leaflet/docs" // Swagger docs
	"leaflet/internal/httpserver"
	"leaflet/internal/middleware"
	"leaflet/pkg/log"
)

// @title       Leaflet API
// @description To-do tasks and preferences for the Leaflet client.
// @version     1
// @host        localhost:4000
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		FilePath:     cfg.Logger.FilePath,
		MaxSizeMB:    cfg.Logger.MaxSizeMB,
		MaxBackups:   cfg.Logger.MaxBackups,
		MaxAgeDays:   cfg.Logger.MaxAgeDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Leaflet API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to open %s storage: %v", cfg.Storage.Driver, err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnf(ctx, "Failed to close storage: %v", err)
		}
	}()

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		Middleware: middleware.Config{
			RateLimitPerMin: cfg.HTTPServer.RateLimitPerMin,
			AllowedOrigins:  cfg.HTTPServer.AllowedOrigins,
		},
		Store: store,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/config"
	httpHandler "github.com/mmuslimabdulj/neural-galaxy/internal/delivery/http"
	"github.com/mmuslimabdulj/neural-galaxy/internal/delivery/ws"
	"github.com/mmuslimabdulj/neural-galaxy/internal/galaxy"
	"github.com/mmuslimabdulj/neural-galaxy/internal/middleware"
	"github.com/mmuslimabdulj/neural-galaxy/internal/observability"
	"github.com/mmuslimabdulj/neural-galaxy/internal/persistence"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewCollector("neural_galaxy")

	kv, err := openKV(cfg.DBPath)
	if err != nil {
		return err
	}
	defer kv.Close()

	domains, err := config.NewDomainSource(cfg.DomainsFile, logger)
	if err != nil {
		return err
	}
	if err := domains.Watch(ctx); err != nil {
		logger.Warn("Domain file changes will not be picked up", zap.Error(err))
	}

	hubCfg, err := hubConfig(cfg, domains)
	if err != nil {
		return err
	}

	galaxies := ws.NewGalaxyManager(ws.ManagerConfig{
		Hub:        hubCfg,
		KV:         kv,
		StorageKey: cfg.StorageKey,
		Logger:     logger,
		Metrics:    metrics,
	})

	limiters := middleware.NewLimiters(cfg.RateLimitAPI, cfg.RateLimitWS)
	go limiters.RunCleanup(ctx, 5*time.Minute)

	handler := httpHandler.NewHandler(galaxies, domains.Table, logger)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler.NewRouter(handler, limiters, metrics, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Neural galaxy running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	// Write every galaxy's final snapshot before the store closes
	if err := galaxies.Shutdown(shutdownCtx); err != nil {
		logger.Error("Galaxies did not stop cleanly", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
	return nil
}

// openKV opens SQLite at path, or an in-memory store when path is empty
func openKV(path string) (persistence.KV, error) {
	if path == "" {
		return persistence.NewMemoryKV(), nil
	}
	kv, err := persistence.NewSQLiteKV(path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return kv, nil
}

// hubConfig turns the environment into galaxy settings
func hubConfig(cfg *config.Config, domains *config.DomainSource) (ws.HubConfig, error) {
	policy, err := galaxy.ParseDepthPolicy(cfg.DepthPolicy)
	if err != nil {
		return ws.HubConfig{}, err
	}
	depth := galaxy.DepthRange{Min: cfg.DepthMin, Max: cfg.DepthMax, Policy: policy}
	if err := depth.Validate(); err != nil {
		return ws.HubConfig{}, err
	}
	anchors, err := galaxy.AnchorsFor(cfg.AnchorMode)
	if err != nil {
		return ws.HubConfig{}, err
	}

	hubCfg := ws.DefaultHubConfig()
	hubCfg.TickInterval = cfg.TickInterval
	hubCfg.ExpiryGrace = cfg.ExpiryGrace
	hubCfg.DismissDelay = cfg.DismissDelay
	hubCfg.ShutdownGrace = cfg.ShutdownGrace
	hubCfg.WheelFactor = cfg.WheelFactor
	hubCfg.HistorySize = cfg.MaxHistorySize
	hubCfg.Render = galaxy.RenderOptions{
		FocalLength:    cfg.FocalLength,
		LabelThreshold: cfg.LabelThreshold,
	}
	hubCfg.Store = galaxy.Options{
		Domains: domains.Table,
		Anchors: anchors,
		Depth:   depth,
		Start:   &galaxy.StartDepth{Near: cfg.StartNear, Far: cfg.StartFar},
	}
	return hubCfg, nil
}

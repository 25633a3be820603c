package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"stockpilot/internal/broker"
	"stockpilot/internal/broker/brokerobs"
	"stockpilot/internal/engine"
	"stockpilot/internal/interfaces"
	"stockpilot/internal/license"
	"stockpilot/internal/logger"
	"stockpilot/internal/metrics"
	"stockpilot/internal/recorder"
	"stockpilot/internal/store"
	"stockpilot/internal/trace"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// checkLicense gates live trading behind an active license. The gate is
// consulted once, before the loop starts; simulated runs are never gated.
func checkLicense(ctx context.Context, cfg *store.Config) error {
	if !broker.IsLive() {
		return nil
	}

	mgr := license.NewManager(cfg.License.Path)
	ok, reason := mgr.Verify()
	if !ok {
		logger.Error(ctx, "License check failed", "reason", reason)
		return fmt.Errorf("live trading requires an active license: %s", reason)
	}
	logger.Info(ctx, "License verified", "status", reason)
	return nil
}

// initializeProvider initializes the data/execution provider with
// observability middleware
func initializeProvider(ctx context.Context, cfg *store.Config, met *metrics.Metrics) (interfaces.Provider, error) {
	provider, err := broker.NewProvider(ctx, cfg.Paper)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	if cfg.Paper && broker.IsLive() {
		logger.Info(ctx, "Running against the Alpaca paper endpoint")
	}

	// Wrap with observability middleware
	return brokerobs.Wrap(provider, met), nil
}

// initializeRecorder returns the SQLite signal recorder when a path is
// configured, otherwise a no-op
func initializeRecorder(ctx context.Context, cfg *store.Config) recorder.Recorder {
	if cfg.Recorder.Path == "" {
		logger.Info(ctx, "Signal recording disabled")
		return recorder.NewNoopRecorder()
	}

	rec, err := recorder.NewSQLiteRecorder(cfg.Recorder.Path)
	if err != nil {
		logger.Warn(ctx, "Failed to open signal recorder, recording disabled",
			"path", cfg.Recorder.Path, "error", err)
		return recorder.NewNoopRecorder()
	}

	logger.Info(ctx, "Recording signal evaluations", "path", cfg.Recorder.Path)
	return rec
}

// startMetrics serves the Prometheus endpoint if an address is configured
func startMetrics(ctx context.Context, cfg *store.Config, met *metrics.Metrics) {
	if cfg.Metrics.Addr == "" {
		return
	}
	go func() {
		logger.Info(ctx, "Serving metrics", "addr", cfg.Metrics.Addr)
		if err := met.Serve(cfg.Metrics.Addr); err != nil {
			logger.Warn(ctx, "Metrics server stopped", "error", err)
		}
	}()
}

// resetDailyCounter zeroes the trade counter and its gauge together so
// the exported value never lags a day behind.
func resetDailyCounter(ctx context.Context, st *engine.BotState, met *metrics.Metrics) {
	prior := st.ResetDaily()
	met.TradesToday.Set(0)
	logger.Info(ctx, "Daily trade counter reset", "trades_yesterday", prior)
}

// startDailyReset schedules the midnight reset of the trade counter
func startDailyReset(ctx context.Context, st *engine.BotState, met *metrics.Metrics) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		resetDailyCounter(ctx, st, met)
	})
	if err != nil {
		logger.Warn(ctx, "Failed to schedule daily reset", "error", err)
		return c
	}
	c.Start()
	return c
}

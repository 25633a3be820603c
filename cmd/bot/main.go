package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockpilot/internal/engine"
	"stockpilot/internal/logger"
	"stockpilot/internal/metrics"
	"stockpilot/internal/portfolio"
	"stockpilot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}
	defer trace.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	if err := checkLicense(ctx, cfg); err != nil {
		os.Exit(1)
	}

	met := metrics.New()
	provider, err := initializeProvider(ctx, cfg, met)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize provider", err)
		os.Exit(1)
	}

	rec := initializeRecorder(ctx, cfg)
	defer rec.Close()

	st := engine.NewBotState(engine.RiskPolicy{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		PositionSizePct:     cfg.PositionSizePct,
		StopLossPct:         cfg.StopLossPct,
		TakeProfitPct:       cfg.TakeProfitPct,
		MaxTradesPerDay:     cfg.MaxTradesPerDay,
	})

	startMetrics(ctx, cfg, met)
	scheduler := startDailyReset(ctx, st, met)
	defer scheduler.Stop()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutdown signal received")
		cancel()
	}()

	eng := engine.New(cfg, provider, provider, st, rec, met)

	logger.Info(ctx, "Bot started",
		"watchlist", cfg.Watchlist,
		"scan_interval_seconds", cfg.ScanIntervalSeconds,
		"max_trades_per_day", cfg.MaxTradesPerDay,
	)

	if err := eng.Run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Bot stopped with error", err)
		os.Exit(1)
	}

	tracker := portfolio.NewTracker(provider)
	if err := tracker.ExportReport(context.Background(), "portfolio_report.json"); err != nil {
		logger.Warn(ctx, "Failed to export portfolio report", "error", err)
	}

	logger.Info(ctx, "Bot stopped", "trades_today", st.TradesToday())
}

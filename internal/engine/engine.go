package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockpilot/internal/interfaces"
	"stockpilot/internal/logger"
	"stockpilot/internal/metrics"
	"stockpilot/internal/recorder"
	"stockpilot/internal/signal"
	"stockpilot/internal/store"
	"stockpilot/internal/ta"
	"stockpilot/internal/trace"
	"stockpilot/internal/types"
)

// State is the trading loop's lifecycle phase.
type State string

const (
	StateIdle     State = "IDLE"
	StateScanning State = "SCANNING"
	StateSleeping State = "SLEEPING"
	StateStopped  State = "STOPPED"
)

// Engine drives the scan cycle: monitor open positions, evaluate each
// watchlist symbol in order, sleep, repeat. Strictly sequential; one
// symbol is fully analyzed and traded before the next begins.
type Engine struct {
	cfg       *store.Config
	md        interfaces.MarketData
	brk       interfaces.Broker
	state     *BotState
	exec      *orderExecutor
	monitor   *positionMonitor
	rec       recorder.Recorder
	met       *metrics.Metrics
	loopState State
}

// Compile-time interface check
var _ interfaces.Engine = (*Engine)(nil)

func New(cfg *store.Config, md interfaces.MarketData, brk interfaces.Broker, st *BotState, rec recorder.Recorder, met *metrics.Metrics) *Engine {
	exec := newOrderExecutor(brk)
	return &Engine{
		cfg:       cfg,
		md:        md,
		brk:       brk,
		state:     st,
		exec:      exec,
		monitor:   newPositionMonitor(brk, exec, st.Policy().StopLossPct, st.Policy().TakeProfitPct),
		rec:       rec,
		met:       met,
		loopState: StateIdle,
	}
}

// LoopState returns the current lifecycle phase.
func (e *Engine) LoopState() State {
	return e.loopState
}

// Run executes scan cycles until the context is cancelled or a fatal
// error occurs outside the per-symbol boundary. Cancellation is honored
// between symbols and cycles, never mid-analysis.
func (e *Engine) Run(ctx context.Context) error {
	e.state.setRunning(true)
	defer e.state.setRunning(false)
	defer func() { e.loopState = StateStopped }()

	rateLimit := time.Duration(e.cfg.RateLimitMs) * time.Millisecond
	scanInterval := time.Duration(e.cfg.ScanIntervalSeconds) * time.Second

	cycle := 0
	for {
		if ctx.Err() != nil {
			return nil
		}
		e.loopState = StateScanning
		cycle++
		start := time.Now()
		logger.Info(ctx, "Scan cycle started", "cycle", cycle, "watchlist", strings.Join(e.cfg.Watchlist, ","))

		closed, err := e.monitor.sweep(ctx)
		if err != nil {
			return fmt.Errorf("position sweep: %w", err)
		}
		if len(closed) > 0 {
			logger.Info(ctx, "Positions force-closed", "cycle", cycle, "count", len(closed))
		}

		for _, sym := range e.cfg.Watchlist {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := e.Step(ctx, sym); err != nil {
				// Per-symbol boundary: log and move on.
				logger.ErrorWithErr(ctx, "Symbol scan failed", err, "symbol", sym)
				e.met.SymbolErrors.Inc()
			}
			if err := waitFor(ctx, rateLimit); err != nil {
				return nil
			}
		}

		e.met.ObserveScan(start)
		e.logCycleSummary(ctx, cycle)

		e.loopState = StateSleeping
		if err := waitFor(ctx, scanInterval); err != nil {
			return nil
		}
	}
}

// Step evaluates one watchlist symbol: fetch bars, analyze, score, and
// trade when the threshold and the daily cap allow it.
func (e *Engine) Step(ctx context.Context, symbol string) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	bars, err := e.md.GetBars(ctx, symbol, e.cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	snap, err := ta.Analyze(bars)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	sig := signal.Score(snap)
	logger.Decision(ctx, symbol, string(sig.Action), sig.Confidence, sig.Reasons,
		"price", sig.Price, "rsi", sig.RSI, "macd", sig.MACD, "adx", sig.ADX)
	e.met.Signals.WithLabelValues(string(sig.Action)).Inc()
	if err := e.rec.RecordSignal(&recorder.SignalEvaluation{
		Symbol:     symbol,
		Action:     string(sig.Action),
		Confidence: sig.Confidence,
		Price:      sig.Price,
		RSI:        sig.RSI,
		MACD:       sig.MACD,
		ADX:        sig.ADX,
		Reasons:    strings.Join(sig.Reasons, "; "),
	}); err != nil {
		logger.Warn(ctx, "Failed to record signal", "symbol", symbol, "error", err)
	}

	res := &types.StepResult{Symbol: symbol, Signal: sig}
	policy := e.state.Policy()

	switch {
	case sig.Confidence >= policy.ConfidenceThreshold:
		return e.stepBuy(ctx, symbol, sig, res)
	case sig.Confidence <= -policy.ConfidenceThreshold:
		return e.stepSell(ctx, symbol, sig, res)
	default:
		res.Reason = "below confidence threshold"
		logger.Debug(ctx, "Signal below threshold, skipping",
			"symbol", symbol, "confidence", sig.Confidence, "threshold", policy.ConfidenceThreshold)
		return res, nil
	}
}

func (e *Engine) stepBuy(ctx context.Context, symbol string, sig types.Signal, res *types.StepResult) (*types.StepResult, error) {
	policy := e.state.Policy()

	if !e.state.CanTrade() {
		logger.Warn(ctx, "Daily trade cap reached, skipping buy",
			"symbol", symbol, "trades_today", e.state.TradesToday(), "max_trades_per_day", policy.MaxTradesPerDay)
		res.Reason = "daily trade cap reached"
		return res, nil
	}

	account, err := e.brk.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}

	qty, err := Shares(sig.Price, account.Cash, policy.PositionSizePct)
	if err != nil {
		return nil, fmt.Errorf("size position: %w", err)
	}

	order, err := e.exec.buy(ctx, symbol, qty, sig.Price)
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", symbol, err)
	}

	trades := e.state.RecordTrade()
	e.met.TradesToday.Set(float64(trades))
	res.Orders = append(res.Orders, order)
	res.Reason = "buy signal"
	return res, nil
}

func (e *Engine) stepSell(ctx context.Context, symbol string, sig types.Signal, res *types.StepResult) (*types.StepResult, error) {
	// No new short positions: sell only what is already held.
	positions, err := e.brk.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	for _, p := range positions {
		if p.Symbol != symbol || p.Qty <= 0 {
			continue
		}
		order, err := e.exec.sell(ctx, symbol, p.Qty, sig.Price)
		if err != nil {
			return nil, fmt.Errorf("sell %s: %w", symbol, err)
		}
		res.Orders = append(res.Orders, order)
		res.Reason = "sell signal"
		return res, nil
	}

	res.Reason = "sell signal with no open position"
	return res, nil
}

func (e *Engine) logCycleSummary(ctx context.Context, cycle int) {
	fields := []any{
		"cycle", cycle,
		"trades_today", e.state.TradesToday(),
		"max_trades_per_day", e.state.Policy().MaxTradesPerDay,
	}
	if account, err := e.brk.GetAccount(ctx); err != nil {
		logger.Warn(ctx, "Failed to fetch account for summary", "error", err)
	} else {
		fields = append(fields, "cash", account.Cash, "portfolio_value", account.PortfolioValue)
	}
	logger.Info(ctx, "Scan cycle finished", fields...)
}

// waitFor is a context-aware sleep so cancellation is honored during the
// rate-limit pause and the inter-cycle sleep.
func waitFor(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

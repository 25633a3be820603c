// Package portfolio summarizes account state and open-position P&L for
// end-of-run reports.
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"stockpilot/internal/interfaces"
	"stockpilot/internal/logger"
	"stockpilot/internal/types"
)

// PositionReport is one open position with derived P&L figures.
type PositionReport struct {
	Symbol          string  `json:"symbol"`
	Qty             int     `json:"qty"`
	AvgEntryPrice   float64 `json:"avg_entry_price"`
	CurrentPrice    float64 `json:"current_price"`
	MarketValue     float64 `json:"market_value"`
	CostBasis       float64 `json:"cost_basis"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_pl_pct"`
}

// Metrics summarizes how the open positions are doing relative to each
// other.
type Metrics struct {
	TotalPositions   int     `json:"total_positions"`
	WinningPositions int     `json:"winning_positions"`
	LosingPositions  int     `json:"losing_positions"`
	WinRate          float64 `json:"win_rate"`
	LargestWinner    string  `json:"largest_winner,omitempty"`
	LargestWinnerPct float64 `json:"largest_winner_pct"`
	LargestLoser     string  `json:"largest_loser,omitempty"`
	LargestLoserPct  float64 `json:"largest_loser_pct"`
}

// Report is a point-in-time snapshot of the account and its positions.
type Report struct {
	GeneratedAt    time.Time        `json:"generated_at"`
	Cash           float64          `json:"cash"`
	BuyingPower    float64          `json:"buying_power"`
	PortfolioValue float64          `json:"portfolio_value"`
	Equity         float64          `json:"equity"`
	DayPL          float64          `json:"day_pl"`
	DayPLPct       float64          `json:"day_pl_pct"`
	Positions      []PositionReport `json:"positions"`
	Metrics        Metrics          `json:"metrics"`
}

// Tracker builds reports from broker state.
type Tracker struct {
	brk interfaces.Broker
}

func NewTracker(brk interfaces.Broker) *Tracker {
	return &Tracker{brk: brk}
}

// Snapshot fetches the account and positions and derives P&L.
func (t *Tracker) Snapshot(ctx context.Context) (*Report, error) {
	account, err := t.brk.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}
	positions, err := t.brk.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	rep := &Report{
		GeneratedAt:    time.Now(),
		Cash:           account.Cash,
		BuyingPower:    account.BuyingPower,
		PortfolioValue: account.PortfolioValue,
		Equity:         account.Equity,
		DayPL:          account.Equity - account.LastEquity,
	}
	if account.LastEquity > 0 {
		rep.DayPLPct = rep.DayPL / account.LastEquity * 100
	}

	for _, p := range positions {
		rep.Positions = append(rep.Positions, positionReport(p))
	}
	rep.Metrics = deriveMetrics(rep.Positions)
	return rep, nil
}

func deriveMetrics(positions []PositionReport) Metrics {
	m := Metrics{TotalPositions: len(positions)}
	if len(positions) == 0 {
		return m
	}

	best, worst := positions[0], positions[0]
	for _, p := range positions {
		switch {
		case p.UnrealizedPL > 0:
			m.WinningPositions++
		case p.UnrealizedPL < 0:
			m.LosingPositions++
		}
		if p.UnrealizedPLPct > best.UnrealizedPLPct {
			best = p
		}
		if p.UnrealizedPLPct < worst.UnrealizedPLPct {
			worst = p
		}
	}

	m.WinRate = float64(m.WinningPositions) / float64(m.TotalPositions) * 100
	m.LargestWinner = best.Symbol
	m.LargestWinnerPct = best.UnrealizedPLPct
	m.LargestLoser = worst.Symbol
	m.LargestLoserPct = worst.UnrealizedPLPct
	return m
}

// ExportReport writes the current snapshot as indented JSON.
func (t *Tracker) ExportReport(ctx context.Context, path string) error {
	rep, err := t.Snapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info(ctx, "Portfolio report exported", "path", path, "positions", len(rep.Positions))
	return nil
}

func positionReport(p types.Position) PositionReport {
	r := PositionReport{
		Symbol:        p.Symbol,
		Qty:           p.Qty,
		AvgEntryPrice: p.AvgEntryPrice,
		CurrentPrice:  p.CurrentPrice,
		MarketValue:   float64(p.Qty) * p.CurrentPrice,
		CostBasis:     float64(p.Qty) * p.AvgEntryPrice,
	}
	r.UnrealizedPL = r.MarketValue - r.CostBasis
	if r.CostBasis > 0 {
		r.UnrealizedPLPct = r.UnrealizedPL / r.CostBasis * 100
	}
	return r
}

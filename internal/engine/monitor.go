package engine

import (
	"context"
	"fmt"

	"stockpilot/internal/interfaces"
	"stockpilot/internal/logger"
	"stockpilot/internal/types"
)

// positionMonitor force-closes open positions that breach the stop-loss
// or take-profit threshold. Stop-loss is checked first and short-circuits,
// so a position never triggers both in the same sweep.
type positionMonitor struct {
	brk           interfaces.Broker
	exec          *orderExecutor
	stopLossPct   float64
	takeProfitPct float64
}

func newPositionMonitor(brk interfaces.Broker, exec *orderExecutor, stopLossPct, takeProfitPct float64) *positionMonitor {
	return &positionMonitor{
		brk:           brk,
		exec:          exec,
		stopLossPct:   stopLossPct,
		takeProfitPct: takeProfitPct,
	}
}

// sweep inspects every open position once and issues at most one
// full-quantity closing order per breached position. Provider errors are
// returned to the caller; the sweep runs outside the per-symbol boundary,
// so they are fatal to the loop.
func (pm *positionMonitor) sweep(ctx context.Context) ([]types.Order, error) {
	positions, err := pm.brk.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	var closed []types.Order
	for _, p := range positions {
		if p.Qty <= 0 || p.AvgEntryPrice <= 0 {
			continue
		}
		pnlPct := (p.CurrentPrice - p.AvgEntryPrice) / p.AvgEntryPrice * 100.0

		switch {
		case pnlPct <= -pm.stopLossPct:
			logger.Risk(ctx, p.Symbol, "STOP_LOSS",
				"pnl_pct", pnlPct,
				"entry_price", p.AvgEntryPrice,
				"current_price", p.CurrentPrice,
				"qty", p.Qty,
			)
			order, err := pm.exec.sell(ctx, p.Symbol, p.Qty, p.CurrentPrice)
			if err != nil {
				return closed, fmt.Errorf("stop-loss close %s: %w", p.Symbol, err)
			}
			closed = append(closed, order)

		case pnlPct >= pm.takeProfitPct:
			logger.Risk(ctx, p.Symbol, "TAKE_PROFIT",
				"pnl_pct", pnlPct,
				"entry_price", p.AvgEntryPrice,
				"current_price", p.CurrentPrice,
				"qty", p.Qty,
			)
			order, err := pm.exec.sell(ctx, p.Symbol, p.Qty, p.CurrentPrice)
			if err != nil {
				return closed, fmt.Errorf("take-profit close %s: %w", p.Symbol, err)
			}
			closed = append(closed, order)
		}
	}
	return closed, nil
}

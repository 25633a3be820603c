package brokerobs

import (
	"context"

	"stockpilot/internal/interfaces"
	"stockpilot/internal/logger"
	"stockpilot/internal/metrics"
	"stockpilot/internal/trace"
	"stockpilot/internal/types"
)

// observableProvider wraps a Provider with observability (logging, tracing,
// and order metrics)
type observableProvider struct {
	provider interfaces.Provider
	met      *metrics.Metrics
}

// Compile-time interface check
var _ interfaces.Provider = (*observableProvider)(nil)

// Wrap wraps a provider with observability middleware
func Wrap(provider interfaces.Provider, met *metrics.Metrics) interfaces.Provider {
	return &observableProvider{
		provider: provider,
		met:      met,
	}
}

// GetBars fetches bars with observability
func (op *observableProvider) GetBars(ctx context.Context, symbol string, lookbackDays int) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "broker.GetBars")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching bars", "symbol", symbol, "lookback_days", lookbackDays)

	bars, err := op.provider.GetBars(ctx, symbol, lookbackDays)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch bars", err, "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Bars fetched successfully", "symbol", symbol, "count", len(bars))
	return bars, nil
}

// GetAccount fetches the account with observability
func (op *observableProvider) GetAccount(ctx context.Context) (types.Account, error) {
	ctx, span := trace.StartSpan(ctx, "broker.GetAccount")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching account")

	account, err := op.provider.GetAccount(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch account", err)
		return types.Account{}, err
	}

	logger.DebugSkip(ctx, 1, "Account fetched successfully",
		"cash", account.Cash, "portfolio_value", account.PortfolioValue)
	return account, nil
}

// GetPositions fetches open positions with observability
func (op *observableProvider) GetPositions(ctx context.Context) ([]types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "broker.GetPositions")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching positions")

	positions, err := op.provider.GetPositions(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch positions", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Positions fetched successfully", "count", len(positions))
	return positions, nil
}

// SubmitMarketOrder submits an order with observability
func (op *observableProvider) SubmitMarketOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	ctx, span := trace.StartSpan(ctx, "broker.SubmitMarketOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Submitting market order",
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Qty,
	)

	order, err := op.provider.SubmitMarketOrder(ctx, req)
	if err != nil {
		op.met.Orders.WithLabelValues(string(req.Side), "error").Inc()
		logger.ErrorWithErrSkip(ctx, 1, "Failed to submit order", err,
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
		)
		return types.Order{}, err
	}

	op.met.Orders.WithLabelValues(string(req.Side), "ok").Inc()
	logger.InfoSkip(ctx, 1, "Order submitted successfully",
		"symbol", req.Symbol,
		"order_id", order.ID,
		"status", order.Status,
	)
	return order, nil
}

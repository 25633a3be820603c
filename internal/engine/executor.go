package engine

import (
	"context"
	"errors"
	"fmt"

	"stockpilot/internal/interfaces"
	"stockpilot/internal/logger"
	"stockpilot/internal/types"
)

var ErrInvalidSymbol = errors.New("symbol must not be empty")

// orderExecutor submits market orders through the configured execution
// provider. One submission per call, no retries.
type orderExecutor struct {
	brk interfaces.Broker
}

func newOrderExecutor(brk interfaces.Broker) *orderExecutor {
	return &orderExecutor{brk: brk}
}

func (oe *orderExecutor) buy(ctx context.Context, symbol string, qty int, price float64) (types.Order, error) {
	return oe.submit(ctx, symbol, qty, price, types.SideBuy)
}

func (oe *orderExecutor) sell(ctx context.Context, symbol string, qty int, price float64) (types.Order, error) {
	return oe.submit(ctx, symbol, qty, price, types.SideSell)
}

func (oe *orderExecutor) submit(ctx context.Context, symbol string, qty int, price float64, side types.Side) (types.Order, error) {
	if symbol == "" {
		return types.Order{}, ErrInvalidSymbol
	}
	if qty <= 0 {
		return types.Order{}, fmt.Errorf("order quantity must be positive, got %d", qty)
	}
	if price <= 0 {
		return types.Order{}, fmt.Errorf("%w: got %.2f", ErrInvalidPrice, price)
	}

	order, err := oe.brk.SubmitMarketOrder(ctx, types.OrderRequest{
		Symbol:         symbol,
		Qty:            qty,
		Side:           side,
		RequestedPrice: price,
	})
	if err != nil {
		return types.Order{}, err
	}

	logger.Trade(ctx, symbol, string(side), qty, price, order.ID, "status", order.Status)
	return order, nil
}

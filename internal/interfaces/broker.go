package interfaces

import (
	"context"

	"stockpilot/internal/types"
)

// MarketData supplies historical bars for a symbol. Implementations must
// return enough history to satisfy the longest indicator window.
type MarketData interface {
	GetBars(ctx context.Context, symbol string, lookbackDays int) ([]types.Bar, error)
}

// Broker is the execution provider: account state, open positions, and
// market-order submission (day time-in-force).
type Broker interface {
	GetAccount(ctx context.Context) (types.Account, error)
	GetPositions(ctx context.Context) ([]types.Position, error)
	SubmitMarketOrder(ctx context.Context, req types.OrderRequest) (types.Order, error)
}

// Provider bundles the two concerns a single backend usually serves.
type Provider interface {
	MarketData
	Broker
}

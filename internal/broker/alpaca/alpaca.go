// Package alpaca adapts the Alpaca trading and market data APIs to the
// broker interfaces. Orders are plain market orders with day
// time-in-force; each one carries a client order ID so a resubmitted
// request is distinguishable server-side.
package alpaca

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockpilot/internal/types"
)

const (
	liveURL  = "https://api.alpaca.markets"
	paperURL = "https://paper-api.alpaca.markets"
)

// Provider implements interfaces.Provider against Alpaca.
type Provider struct {
	trading *alpaca.Client
	data    *marketdata.Client
}

// Config holds the Alpaca credentials and trading mode.
type Config struct {
	APIKey    string
	APISecret string
	Paper     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("alpaca credentials missing")
	}
	baseURL := liveURL
	if cfg.Paper {
		baseURL = paperURL
	}
	return &Provider{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			BaseURL:   baseURL,
		}),
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
		}),
	}, nil
}

func (p *Provider) GetBars(_ context.Context, symbol string, lookbackDays int) ([]types.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	start := time.Now().AddDate(0, 0, -lookbackDays)
	raw, err := p.data.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneMin,
		Start:     start,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, types.Bar{
			Ts:     b.Timestamp.Unix(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return bars, nil
}

func (p *Provider) GetAccount(_ context.Context) (types.Account, error) {
	acct, err := p.trading.GetAccount()
	if err != nil {
		return types.Account{}, fmt.Errorf("alpaca account: %w", err)
	}
	return types.Account{
		Cash:           acct.Cash.InexactFloat64(),
		BuyingPower:    acct.BuyingPower.InexactFloat64(),
		PortfolioValue: acct.PortfolioValue.InexactFloat64(),
		Equity:         acct.Equity.InexactFloat64(),
		LastEquity:     acct.LastEquity.InexactFloat64(),
	}, nil
}

func (p *Provider) GetPositions(_ context.Context) ([]types.Position, error) {
	raw, err := p.trading.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("alpaca positions: %w", err)
	}
	positions := make([]types.Position, 0, len(raw))
	for _, pos := range raw {
		current := 0.0
		if pos.CurrentPrice != nil {
			current = pos.CurrentPrice.InexactFloat64()
		}
		positions = append(positions, types.Position{
			Symbol:        pos.Symbol,
			Qty:           int(pos.Qty.IntPart()),
			AvgEntryPrice: pos.AvgEntryPrice.InexactFloat64(),
			CurrentPrice:  current,
			Side:          string(pos.Side),
		})
	}
	return positions, nil
}

func (p *Provider) SubmitMarketOrder(_ context.Context, req types.OrderRequest) (types.Order, error) {
	side := alpaca.Buy
	if req.Side == types.SideSell {
		side = alpaca.Sell
	}
	qty := decimal.NewFromInt(int64(req.Qty))
	placed, err := p.trading.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           &qty,
		Side:          side,
		Type:          alpaca.Market,
		TimeInForce:   alpaca.Day,
		ClientOrderID: uuid.NewString(),
	})
	if err != nil {
		return types.Order{}, fmt.Errorf("alpaca order %s %s: %w", req.Side, req.Symbol, err)
	}
	return types.Order{
		ID:             placed.ID,
		Symbol:         placed.Symbol,
		Qty:            req.Qty,
		Side:           req.Side,
		RequestedPrice: req.RequestedPrice,
		Status:         string(placed.Status),
	}, nil
}

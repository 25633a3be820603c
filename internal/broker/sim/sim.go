// Package sim is an in-memory broker and market data provider for
// paperless dry runs. Bars are synthetic, fills are instant, and the
// account starts with virtual cash.
package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockpilot/internal/types"
)

const (
	startingCash = 10_000.0
	barsPerDay   = 390 // one-minute bars in a regular session
)

// Provider implements interfaces.Provider against in-memory state.
type Provider struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]*types.Position
}

func New() *Provider {
	return &Provider{
		cash:      startingCash,
		positions: make(map[string]*types.Position),
	}
}

// GetBars returns deterministic synthetic minute bars: a slow sine wave
// around a per-symbol base price with seeded jitter, so repeated runs
// over the same symbol produce the same series.
func (p *Provider) GetBars(_ context.Context, symbol string, lookbackDays int) ([]types.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	if lookbackDays <= 0 {
		lookbackDays = 1
	}

	n := lookbackDays * barsPerDay
	base := basePrice(symbol)
	rng := rand.New(rand.NewSource(int64(seed(symbol))))

	bars := make([]types.Bar, 0, n)
	start := time.Now().Add(-time.Duration(n) * time.Minute)
	price := base
	for i := 0; i < n; i++ {
		wave := math.Sin(float64(i)/60.0) * base * 0.01
		jitter := (rng.Float64() - 0.5) * base * 0.004
		open := price
		close := base + wave + jitter
		high := math.Max(open, close) * 1.001
		low := math.Min(open, close) * 0.999
		bars = append(bars, types.Bar{
			Ts:     start.Add(time.Duration(i) * time.Minute).Unix(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1000 + rng.Float64()*9000,
		})
		price = close
	}
	return bars, nil
}

func (p *Provider) GetAccount(_ context.Context) (types.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	value := p.cash
	for _, pos := range p.positions {
		value += float64(pos.Qty) * pos.CurrentPrice
	}
	return types.Account{
		Cash:           p.cash,
		BuyingPower:    p.cash * 4,
		PortfolioValue: value,
		Equity:         value,
		LastEquity:     startingCash,
	}, nil
}

func (p *Provider) GetPositions(_ context.Context) ([]types.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]types.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	return out, nil
}

// SubmitMarketOrder fills immediately at the requested price and
// adjusts virtual cash and positions.
func (p *Provider) SubmitMarketOrder(_ context.Context, req types.OrderRequest) (types.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cost := float64(req.Qty) * req.RequestedPrice
	switch req.Side {
	case types.SideBuy:
		if cost > p.cash {
			return types.Order{}, fmt.Errorf("insufficient cash: need %.2f, have %.2f", cost, p.cash)
		}
		p.cash -= cost
		pos, ok := p.positions[req.Symbol]
		if !ok {
			p.positions[req.Symbol] = &types.Position{
				Symbol:        req.Symbol,
				Qty:           req.Qty,
				AvgEntryPrice: req.RequestedPrice,
				CurrentPrice:  req.RequestedPrice,
				Side:          "long",
			}
		} else {
			total := float64(pos.Qty)*pos.AvgEntryPrice + cost
			pos.Qty += req.Qty
			pos.AvgEntryPrice = total / float64(pos.Qty)
			pos.CurrentPrice = req.RequestedPrice
		}
	case types.SideSell:
		pos, ok := p.positions[req.Symbol]
		if !ok || pos.Qty < req.Qty {
			return types.Order{}, fmt.Errorf("insufficient position in %s", req.Symbol)
		}
		p.cash += cost
		pos.Qty -= req.Qty
		if pos.Qty == 0 {
			delete(p.positions, req.Symbol)
		}
	default:
		return types.Order{}, fmt.Errorf("unknown side %q", req.Side)
	}

	return types.Order{
		ID:             uuid.NewString(),
		Symbol:         req.Symbol,
		Qty:            req.Qty,
		Side:           req.Side,
		RequestedPrice: req.RequestedPrice,
		Status:         "filled",
	}, nil
}

// MarkPrice updates the tracked price of an open position so the
// monitor's PnL sweep has something to act on during simulations.
func (p *Provider) MarkPrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos, ok := p.positions[symbol]; ok {
		pos.CurrentPrice = price
	}
}

func basePrice(symbol string) float64 {
	return 50 + float64(seed(symbol)%400)
}

func seed(symbol string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return h.Sum32()
}

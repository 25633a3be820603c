package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stockpilot/internal/metrics"
	"stockpilot/internal/recorder"
	"stockpilot/internal/store"
	"stockpilot/internal/types"
)

// fakeProvider serves canned bars, account, and positions and records
// every submitted order.
type fakeProvider struct {
	bars       map[string][]types.Bar
	barsErr    map[string]error
	account    types.Account
	accountErr error
	positions  []types.Position
	posErr     error
	submitErr  error
	submitted  []types.OrderRequest

	// onBars runs after GetBars for the given symbol, used to cancel the
	// loop from inside a cycle.
	onBars map[string]func()
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		bars:    make(map[string][]types.Bar),
		barsErr: make(map[string]error),
		onBars:  make(map[string]func()),
		account: types.Account{Cash: 10_000, BuyingPower: 40_000, PortfolioValue: 10_000},
	}
}

func (f *fakeProvider) GetBars(_ context.Context, symbol string, _ int) ([]types.Bar, error) {
	if hook, ok := f.onBars[symbol]; ok {
		defer hook()
	}
	if err, ok := f.barsErr[symbol]; ok {
		return nil, err
	}
	return f.bars[symbol], nil
}

func (f *fakeProvider) GetAccount(_ context.Context) (types.Account, error) {
	return f.account, f.accountErr
}

func (f *fakeProvider) GetPositions(_ context.Context) ([]types.Position, error) {
	return f.positions, f.posErr
}

func (f *fakeProvider) SubmitMarketOrder(_ context.Context, req types.OrderRequest) (types.Order, error) {
	if f.submitErr != nil {
		return types.Order{}, f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return types.Order{
		ID:             fmt.Sprintf("order-%d", len(f.submitted)),
		Symbol:         req.Symbol,
		Qty:            req.Qty,
		Side:           req.Side,
		RequestedPrice: req.RequestedPrice,
		Status:         "filled",
	}, nil
}

// flatBars never moves: RSI pins at 100 and MACD sits flat, which scores
// a strong sell through the rule table.
func flatBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		bars[i] = types.Bar{
			Ts:     int64(i) * 60,
			Open:   100,
			High:   100.5,
			Low:    99.5,
			Close:  100,
			Volume: 1000,
		}
	}
	return bars
}

// declineThenFlatBars falls steadily and then bases: RSI stays pinned low
// while MACD curls back up, which scores a strong buy.
func declineThenFlatBars() []types.Bar {
	bars := make([]types.Bar, 0, 60)
	price := 140.0
	for i := 0; i < 40; i++ {
		bars = append(bars, types.Bar{
			Ts:     int64(i) * 60,
			Open:   price + 1,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1000,
		})
		price--
	}
	for i := 40; i < 60; i++ {
		bars = append(bars, types.Bar{
			Ts:     int64(i) * 60,
			Open:   100,
			High:   100.5,
			Low:    99.5,
			Close:  100,
			Volume: 1000,
		})
	}
	return bars
}

func testConfig(watchlist ...string) *store.Config {
	cfg := &store.Config{
		ConfidenceThreshold: 30,
		PositionSizePct:     10,
		StopLossPct:         2,
		TakeProfitPct:       4,
		MaxTradesPerDay:     10,
		ScanIntervalSeconds: 60,
		RateLimitMs:         1,
		LookbackDays:        1,
		Watchlist:           watchlist,
	}
	return cfg
}

func newTestEngine(cfg *store.Config, f *fakeProvider) (*Engine, *BotState) {
	st := NewBotState(RiskPolicy{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		PositionSizePct:     cfg.PositionSizePct,
		StopLossPct:         cfg.StopLossPct,
		TakeProfitPct:       cfg.TakeProfitPct,
		MaxTradesPerDay:     cfg.MaxTradesPerDay,
	})
	return New(cfg, f, f, st, recorder.NewNoopRecorder(), metrics.New()), st
}

func TestStepBuySignalSubmitsSizedOrder(t *testing.T) {
	f := newFakeProvider()
	f.bars["AAPL"] = declineThenFlatBars()

	eng, st := newTestEngine(testConfig("AAPL"), f)

	res, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if res.Signal.Action != types.StrongBuy {
		t.Fatalf("action = %s, want %s (confidence %d)", res.Signal.Action, types.StrongBuy, res.Signal.Confidence)
	}
	if len(f.submitted) != 1 {
		t.Fatalf("expected 1 order, got %d", len(f.submitted))
	}

	order := f.submitted[0]
	if order.Side != types.SideBuy {
		t.Errorf("side = %s, want %s", order.Side, types.SideBuy)
	}
	// 10% of 10k cash at price 100 is 10 whole shares.
	if order.Qty != 10 {
		t.Errorf("qty = %d, want 10", order.Qty)
	}
	if st.TradesToday() != 1 {
		t.Errorf("tradesToday = %d, want 1", st.TradesToday())
	}
}

func TestStepDailyCapBlocksBuys(t *testing.T) {
	f := newFakeProvider()
	f.bars["AAPL"] = declineThenFlatBars()

	cfg := testConfig("AAPL")
	cfg.MaxTradesPerDay = 2
	eng, st := newTestEngine(cfg, f)
	st.RecordTrade()
	st.RecordTrade()

	res, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if len(f.submitted) != 0 {
		t.Fatalf("expected no orders at the cap, got %d", len(f.submitted))
	}
	if res.Reason != "daily trade cap reached" {
		t.Errorf("reason = %q", res.Reason)
	}
	if st.TradesToday() != 2 {
		t.Errorf("tradesToday = %d, want 2", st.TradesToday())
	}
}

func TestStepSellOnlyWhenHeld(t *testing.T) {
	f := newFakeProvider()
	f.bars["TSLA"] = flatBars(60)

	eng, _ := newTestEngine(testConfig("TSLA"), f)

	res, err := eng.Step(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if res.Signal.Action != types.StrongSell {
		t.Fatalf("action = %s, want %s (confidence %d)", res.Signal.Action, types.StrongSell, res.Signal.Confidence)
	}
	if len(f.submitted) != 0 {
		t.Fatalf("sold without holding a position: %+v", f.submitted)
	}

	f.positions = []types.Position{{Symbol: "TSLA", Qty: 7, AvgEntryPrice: 110, CurrentPrice: 100}}
	if _, err := eng.Step(context.Background(), "TSLA"); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if len(f.submitted) != 1 {
		t.Fatalf("expected 1 sell order, got %d", len(f.submitted))
	}
	if f.submitted[0].Side != types.SideSell || f.submitted[0].Qty != 7 {
		t.Errorf("order = %+v, want full-quantity sell of 7", f.submitted[0])
	}
}

func TestStepSellIgnoresDailyCap(t *testing.T) {
	f := newFakeProvider()
	f.bars["TSLA"] = flatBars(60)
	f.positions = []types.Position{{Symbol: "TSLA", Qty: 3, AvgEntryPrice: 110, CurrentPrice: 100}}

	cfg := testConfig("TSLA")
	cfg.MaxTradesPerDay = 1
	eng, st := newTestEngine(cfg, f)
	st.RecordTrade() // cap exhausted

	if _, err := eng.Step(context.Background(), "TSLA"); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if len(f.submitted) != 1 {
		t.Fatalf("sell blocked by the buy cap: got %d orders", len(f.submitted))
	}
}

func TestStepBelowThresholdNoOrders(t *testing.T) {
	// A steady decline scores bearish trend rules against oversold
	// momentum rules; the total lands inside the hold band.
	bars := make([]types.Bar, 60)
	price := 160.0
	for i := range bars {
		bars[i] = types.Bar{
			Ts:    int64(i) * 60,
			Open:  price + 1,
			High:  price + 0.5,
			Low:   price - 0.5,
			Close: price, Volume: 1000,
		}
		price--
	}

	f := newFakeProvider()
	f.bars["SPY"] = bars

	eng, st := newTestEngine(testConfig("SPY"), f)

	res, err := eng.Step(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if len(f.submitted) != 0 {
		t.Fatalf("expected no orders, got %d", len(f.submitted))
	}
	if res.Reason != "below confidence threshold" {
		t.Errorf("reason = %q", res.Reason)
	}
	if st.TradesToday() != 0 {
		t.Errorf("tradesToday = %d, want 0", st.TradesToday())
	}
}

func TestStepNotEnoughBars(t *testing.T) {
	f := newFakeProvider()
	f.bars["NVDA"] = flatBars(50)

	eng, _ := newTestEngine(testConfig("NVDA"), f)

	if _, err := eng.Step(context.Background(), "NVDA"); err == nil {
		t.Fatal("expected error for a series below the indicator minimum")
	}
}

func TestStepEmptySymbol(t *testing.T) {
	f := newFakeProvider()
	eng, _ := newTestEngine(testConfig("AAPL"), f)

	if _, err := eng.Step(context.Background(), ""); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("err = %v, want ErrInvalidSymbol", err)
	}
}

func TestRunReturnsNilWhenCancelled(t *testing.T) {
	f := newFakeProvider()
	eng, st := newTestEngine(testConfig("AAPL"), f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := eng.Run(ctx); err != nil {
		t.Fatalf("Run returned %v, want nil on cancellation", err)
	}
	if st.Running() {
		t.Error("state still marked running after Run returned")
	}
	if eng.LoopState() != StateStopped {
		t.Errorf("loop state = %s, want %s", eng.LoopState(), StateStopped)
	}
}

func TestRunSweepErrorIsFatal(t *testing.T) {
	f := newFakeProvider()
	f.bars["AAPL"] = flatBars(60)
	f.posErr = errors.New("broker down")

	eng, _ := newTestEngine(testConfig("AAPL"), f)

	err := eng.Run(context.Background())
	if err == nil {
		t.Fatal("Run ignored a position sweep failure")
	}
	if !errors.Is(err, f.posErr) {
		t.Errorf("err = %v, want wrapped %v", err, f.posErr)
	}
}

func TestRunSkipsFailedSymbolAndContinues(t *testing.T) {
	f := newFakeProvider()
	f.barsErr["BAD"] = errors.New("feed outage")
	f.bars["GOOD"] = declineThenFlatBars()

	ctx, cancel := context.WithCancel(context.Background())
	f.onBars["GOOD"] = cancel // end the loop after the last symbol

	eng, _ := newTestEngine(testConfig("BAD", "GOOD"), f)

	if err := eng.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(f.submitted) != 1 {
		t.Fatalf("expected GOOD to trade after BAD failed, got %d orders", len(f.submitted))
	}
	if f.submitted[0].Symbol != "GOOD" {
		t.Errorf("traded symbol = %s, want GOOD", f.submitted[0].Symbol)
	}
}

func TestBotStateDailyReset(t *testing.T) {
	st := NewBotState(RiskPolicy{MaxTradesPerDay: 2})

	if !st.CanTrade() {
		t.Fatal("fresh state should allow trading")
	}
	st.RecordTrade()
	st.RecordTrade()
	if st.CanTrade() {
		t.Fatal("cap exhausted but CanTrade still true")
	}

	if prior := st.ResetDaily(); prior != 2 {
		t.Errorf("ResetDaily returned %d, want 2", prior)
	}
	if !st.CanTrade() {
		t.Error("reset should reopen the cap")
	}
	if st.TradesToday() != 0 {
		t.Errorf("tradesToday = %d after reset, want 0", st.TradesToday())
	}
}

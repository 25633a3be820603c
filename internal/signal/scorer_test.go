package signal

import (
	"testing"

	"stockpilot/internal/types"
)

// neutralSnapshot triggers no rule except the mandatory MACD one, which
// the caller sets via the macdBull flag.
func neutralSnapshot(macdBull bool) types.Snapshot {
	s := types.Snapshot{
		Close:      100,
		SMA20:      100,
		SMA50:      100,
		RSI:        50,
		MACD:       1,
		MACDSignal: 2,
		BBUpper:    110,
		BBMiddle:   100,
		BBLower:    90,
		StochK:     50,
		StochD:     50,
		ADX:        20,
	}
	if macdBull {
		s.MACD, s.MACDSignal = 2, 1
	}
	return s
}

func TestScoreActions(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*types.Snapshot)
		macdBull   bool
		confidence int
		action     types.Action
	}{
		{
			name:       "macd bullish alone is weak buy",
			macdBull:   true,
			confidence: 15,
			action:     types.Buy,
		},
		{
			name:       "macd bearish alone is weak sell",
			macdBull:   false,
			confidence: -15,
			action:     types.Sell,
		},
		{
			name:     "macd plus uptrend reaches strong buy threshold",
			macdBull: true,
			mutate: func(s *types.Snapshot) {
				s.Close = 110
				s.SMA20 = 105
				s.SMA50 = 100
				s.BBUpper = 120
				s.BBLower = 95
			},
			confidence: 30,
			action:     types.StrongBuy,
		},
		{
			name:     "macd plus downtrend reaches strong sell threshold",
			macdBull: false,
			mutate: func(s *types.Snapshot) {
				s.Close = 90
				s.SMA20 = 95
				s.SMA50 = 100
				s.BBUpper = 110
				s.BBLower = 85
			},
			confidence: -30,
			action:     types.StrongSell,
		},
		{
			name:     "just below strong threshold stays buy",
			macdBull: true,
			mutate: func(s *types.Snapshot) {
				s.RSI = 25              // +20
				s.StochK, s.StochD = 85, 85 // -10
			},
			confidence: 25,
			action:     types.Buy,
		},
		{
			name:     "opposing rules cancel to hold",
			macdBull: false,
			mutate: func(s *types.Snapshot) {
				s.RSI = 25 // +20 against MACD -15
			},
			confidence: 5,
			action:     types.Hold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := neutralSnapshot(tt.macdBull)
			if tt.mutate != nil {
				tt.mutate(&snap)
			}

			sig := Score(snap)
			if sig.Confidence != tt.confidence {
				t.Errorf("confidence = %d, want %d (reasons: %v)", sig.Confidence, tt.confidence, sig.Reasons)
			}
			if sig.Action != tt.action {
				t.Errorf("action = %s, want %s", sig.Action, tt.action)
			}
		})
	}
}

func TestActionBoundaries(t *testing.T) {
	tests := []struct {
		confidence int
		want       types.Action
	}{
		{30, types.StrongBuy},
		{29, types.Buy},
		{15, types.Buy},
		{14, types.Hold},
		{0, types.Hold},
		{-14, types.Hold},
		{-15, types.Sell},
		{-29, types.Sell},
		{-30, types.StrongSell},
		{80, types.StrongBuy},
		{-80, types.StrongSell},
	}
	for _, tt := range tests {
		if got := actionFor(tt.confidence); got != tt.want {
			t.Errorf("actionFor(%d) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestScoreAllBullishRules(t *testing.T) {
	snap := types.Snapshot{
		Close:      110,
		SMA20:      105,
		SMA50:      100,
		RSI:        25,
		MACD:       1.2,
		MACDSignal: 0.8,
		BBUpper:    120,
		BBLower:    112,
		StochK:     15,
		StochD:     18,
		ADX:        30,
	}

	sig := Score(snap)
	want := weightRSI + weightMACD + weightTrend + weightBB + weightStoch
	if sig.Confidence != want {
		t.Fatalf("confidence = %d, want %d", sig.Confidence, want)
	}
	if sig.Action != types.StrongBuy {
		t.Errorf("action = %s, want %s", sig.Action, types.StrongBuy)
	}
	if len(sig.Reasons) != 6 {
		t.Errorf("expected 6 reasons (5 rules + ADX note), got %d: %v", len(sig.Reasons), sig.Reasons)
	}
}

func TestScoreBollingerNeedsActualBreach(t *testing.T) {
	// Close sits above the lower band, so the Bollinger rule stays quiet
	// while everything else fires bullish.
	snap := types.Snapshot{
		Close:      110,
		SMA20:      105,
		SMA50:      100,
		RSI:        25,
		MACD:       1.2,
		MACDSignal: 0.8,
		BBUpper:    120,
		BBLower:    108,
		StochK:     15,
		StochD:     18,
		ADX:        30,
	}

	sig := Score(snap)
	if sig.Confidence != 60 {
		t.Fatalf("confidence = %d, want 60 (reasons: %v)", sig.Confidence, sig.Reasons)
	}
	if sig.Action != types.StrongBuy {
		t.Errorf("action = %s, want %s", sig.Action, types.StrongBuy)
	}
}

func TestScoreADXNeverMovesConfidence(t *testing.T) {
	weak := neutralSnapshot(true)
	weak.ADX = 10

	strong := neutralSnapshot(true)
	strong.ADX = 40

	if Score(weak).Confidence != Score(strong).Confidence {
		t.Error("ADX changed the confidence total")
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	snap := neutralSnapshot(true)
	snap.RSI = 25

	first := Score(snap)
	second := Score(snap)

	if first.Confidence != second.Confidence || first.Action != second.Action {
		t.Errorf("same snapshot produced different signals: %+v vs %+v", first, second)
	}
}

func TestScoreCarriesSnapshotFields(t *testing.T) {
	snap := neutralSnapshot(false)
	snap.Close = 123.45
	snap.RSI = 61
	snap.ADX = 27.5

	sig := Score(snap)
	if sig.Price != 123.45 {
		t.Errorf("price = %v, want 123.45", sig.Price)
	}
	if sig.RSI != 61 {
		t.Errorf("rsi = %v, want 61", sig.RSI)
	}
	if sig.ADX != 27.5 {
		t.Errorf("adx = %v, want 27.5", sig.ADX)
	}
}

package ta

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	if got := SMA(vals, 5); !almostEqual(got, 8) {
		t.Errorf("SMA(..., 5) = %v, want 8", got)
	}
	if got := SMA(vals, 10); !almostEqual(got, 5.5) {
		t.Errorf("SMA(..., 10) = %v, want 5.5", got)
	}
	if got := SMA(vals, 11); !math.IsNaN(got) {
		t.Errorf("SMA with short series = %v, want NaN", got)
	}
}

func TestEMAFlatSeries(t *testing.T) {
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 42
	}
	if got := EMA(vals, 12); !almostEqual(got, 42) {
		t.Errorf("EMA of constant series = %v, want 42", got)
	}
}

func TestEMATracksRecentValues(t *testing.T) {
	// A late jump should pull the EMA above the SMA.
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 100
	}
	vals[39] = 120

	ema := EMA(vals, 12)
	sma := SMA(vals, 40)
	if ema <= sma {
		t.Errorf("EMA %v should exceed SMA %v after a late jump", ema, sma)
	}
}

func TestRSIExtremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(100 - i)
	}

	if got := RSI(up, 14); !almostEqual(got, 100) {
		t.Errorf("RSI of all gains = %v, want 100", got)
	}
	if got := RSI(down, 14); !almostEqual(got, 0) {
		t.Errorf("RSI of all losses = %v, want 0", got)
	}
}

func TestRSIMidrange(t *testing.T) {
	// Alternating equal gains and losses should land near 50.
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 100
		if i%2 == 1 {
			vals[i] = 101
		}
	}
	got := RSI(vals, 14)
	if got < 40 || got > 60 {
		t.Errorf("RSI of balanced series = %v, want near 50", got)
	}
}

func TestMACDFlatSeriesIsZero(t *testing.T) {
	vals := make([]float64, 60)
	for i := range vals {
		vals[i] = 100
	}
	line, signal, hist := MACD(vals)
	if !almostEqual(line, 0) || !almostEqual(signal, 0) || !almostEqual(hist, 0) {
		t.Errorf("MACD of constant series = (%v, %v, %v), want zeros", line, signal, hist)
	}
}

func TestMACDNeedsEnoughValues(t *testing.T) {
	vals := make([]float64, 30)
	line, _, _ := MACD(vals)
	if !math.IsNaN(line) {
		t.Errorf("MACD with 30 values = %v, want NaN", line)
	}
}

func TestBollingerFlatSeriesCollapses(t *testing.T) {
	vals := make([]float64, 25)
	for i := range vals {
		vals[i] = 50
	}
	mid, up, low := Bollinger(vals, 20, 2)
	if !almostEqual(mid, 50) || !almostEqual(up, 50) || !almostEqual(low, 50) {
		t.Errorf("Bollinger of constant series = (%v, %v, %v), want all 50", mid, up, low)
	}
}

func TestBollingerBandsAreSymmetric(t *testing.T) {
	vals := []float64{100, 102, 98, 103, 97, 101, 99, 104, 96, 100,
		100, 102, 98, 103, 97, 101, 99, 104, 96, 100}
	mid, up, low := Bollinger(vals, 20, 2)
	if !almostEqual(up-mid, mid-low) {
		t.Errorf("bands not symmetric: mid %v, up %v, low %v", mid, up, low)
	}
	if up <= mid {
		t.Error("upper band should be above the middle for a non-constant series")
	}
}

func TestStochFlatSeriesIsMidpoint(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 100.5
		lows[i] = 99.5
		closes[i] = 100
	}
	k, d := Stoch(highs, lows, closes, 14, 3, 3)
	if !almostEqual(k, 50) || !almostEqual(d, 50) {
		t.Errorf("Stoch of flat series = (%v, %v), want (50, 50)", k, d)
	}
}

func TestStochPinsAtRangeExtremes(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		c := float64(100 + i)
		closes[i] = c
		highs[i] = c + 0.5
		lows[i] = c - 0.5
	}
	k, _ := Stoch(highs, lows, closes, 14, 3, 3)
	if k < 90 {
		t.Errorf("Stoch %%K of a strict uptrend = %v, want near 100", k)
	}
}

func TestADXStrongInPersistentTrend(t *testing.T) {
	n := 60
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		c := float64(100 + i)
		closes[i] = c
		highs[i] = c + 0.5
		lows[i] = c - 0.5
	}
	got := ADX(highs, lows, closes, 14)
	if got < 90 {
		t.Errorf("ADX of a one-directional trend = %v, want near 100", got)
	}
}

func TestADXNeedsEnoughBars(t *testing.T) {
	n := 28 // needs 2*period+1
	vals := make([]float64, n)
	if got := ADX(vals, vals, vals, 14); !math.IsNaN(got) {
		t.Errorf("ADX with %d bars = %v, want NaN", n, got)
	}
}

func TestOBVSignsVolume(t *testing.T) {
	closes := []float64{1, 2, 1, 1, 3}
	volumes := []float64{10, 10, 10, 10, 10}
	if got := OBV(closes, volumes); !almostEqual(got, 10) {
		t.Errorf("OBV = %v, want 10", got)
	}
}

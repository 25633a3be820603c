package ta

import (
	"errors"
	"fmt"

	"stockpilot/internal/types"
)

// Indicator periods. MinBars is the longest lookback plus one bar so the
// latest row is fully populated for every indicator.
const (
	smaShort    = 20
	smaLong     = 50
	emaFast     = 12
	emaSlow     = 26
	rsiPeriod   = 14
	bbPeriod    = 20
	bbStdDev    = 2.0
	stochK      = 14
	stochSmooth = 3
	stochD      = 3
	adxPeriod   = 14

	MinBars = smaLong + 1
)

var ErrNotEnoughBars = errors.New("not enough bars for analysis")

// Analyze computes every indicator over the bar series and returns the
// latest-row snapshot. The series must be ascending by timestamp and at
// least MinBars long.
func Analyze(bars []types.Bar) (types.Snapshot, error) {
	if len(bars) < MinBars {
		return types.Snapshot{}, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughBars, len(bars), MinBars)
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	snap := types.Snapshot{
		Close: closes[len(closes)-1],
		SMA20: SMA(closes, smaShort),
		SMA50: SMA(closes, smaLong),
		EMA12: EMA(closes, emaFast),
		EMA26: EMA(closes, emaSlow),
		RSI:   RSI(closes, rsiPeriod),
		OBV:   OBV(closes, volumes),
		ADX:   ADX(highs, lows, closes, adxPeriod),
	}
	snap.MACD, snap.MACDSignal, snap.MACDHist = MACD(closes)
	snap.BBMiddle, snap.BBUpper, snap.BBLower = Bollinger(closes, bbPeriod, bbStdDev)
	snap.StochK, snap.StochD = Stoch(highs, lows, closes, stochK, stochSmooth, stochD)
	return snap, nil
}

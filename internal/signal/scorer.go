// Package signal turns an indicator snapshot into a scored trading signal.
//
// Each rule is evaluated independently and adds a fixed signed weight to
// the confidence total; no rule disables another. The magnitude of the
// total picks the action category.
package signal

import (
	"fmt"

	"stockpilot/internal/types"
)

// Per-rule weights.
const (
	weightRSI   = 20
	weightMACD  = 15
	weightTrend = 15
	weightBB    = 10
	weightStoch = 10
)

// Indicator trigger levels.
const (
	rsiOversold    = 30.0
	rsiOverbought  = 70.0
	stochOversold  = 20.0
	stochOverbought = 80.0
	adxStrongTrend = 25.0
)

// Action thresholds on the summed confidence.
const (
	strongThreshold = 30
	weakThreshold   = 15
)

// Score evaluates the rule set against the latest indicator snapshot.
// Pure function: same snapshot, same signal.
func Score(s types.Snapshot) types.Signal {
	confidence := 0
	reasons := make([]string, 0, 6)

	if s.RSI < rsiOversold {
		reasons = append(reasons, "RSI oversold (bullish)")
		confidence += weightRSI
	} else if s.RSI > rsiOverbought {
		reasons = append(reasons, "RSI overbought (bearish)")
		confidence -= weightRSI
	}

	if s.MACD > s.MACDSignal {
		reasons = append(reasons, "MACD bullish crossover")
		confidence += weightMACD
	} else {
		reasons = append(reasons, "MACD bearish")
		confidence -= weightMACD
	}

	if s.Close > s.SMA20 && s.SMA20 > s.SMA50 {
		reasons = append(reasons, "price above moving averages (uptrend)")
		confidence += weightTrend
	} else if s.Close < s.SMA20 && s.SMA20 < s.SMA50 {
		reasons = append(reasons, "price below moving averages (downtrend)")
		confidence -= weightTrend
	}

	if s.Close < s.BBLower {
		reasons = append(reasons, "below lower Bollinger band (oversold)")
		confidence += weightBB
	} else if s.Close > s.BBUpper {
		reasons = append(reasons, "above upper Bollinger band (overbought)")
		confidence -= weightBB
	}

	if s.StochK < stochOversold && s.StochD < stochOversold {
		reasons = append(reasons, "stochastic oversold")
		confidence += weightStoch
	} else if s.StochK > stochOverbought && s.StochD > stochOverbought {
		reasons = append(reasons, "stochastic overbought")
		confidence -= weightStoch
	}

	// ADX only qualifies the trend, it never moves the score.
	if s.ADX > adxStrongTrend {
		reasons = append(reasons, fmt.Sprintf("strong trend (ADX %.1f)", s.ADX))
	} else {
		reasons = append(reasons, fmt.Sprintf("weak trend (ADX %.1f)", s.ADX))
	}

	return types.Signal{
		Action:     actionFor(confidence),
		Confidence: confidence,
		Reasons:    reasons,
		Price:      s.Close,
		RSI:        s.RSI,
		MACD:       s.MACD,
		ADX:        s.ADX,
	}
}

func actionFor(confidence int) types.Action {
	switch {
	case confidence >= strongThreshold:
		return types.StrongBuy
	case confidence >= weakThreshold:
		return types.Buy
	case confidence <= -strongThreshold:
		return types.StrongSell
	case confidence <= -weakThreshold:
		return types.Sell
	default:
		return types.Hold
	}
}

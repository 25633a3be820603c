package ta

import "math"

// SMA returns the simple moving average of the last n values.
func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMA returns the exponential moving average of the series, seeded with
// the SMA of the first n values.
func EMA(vals []float64, n int) float64 {
	s := emaSeries(vals, n)
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

func emaSeries(vals []float64, n int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	if n <= 0 || len(vals) < n {
		return out
	}
	seed := 0.0
	for i := 0; i < n; i++ {
		seed += vals[i]
	}
	out[n-1] = seed / float64(n)
	mult := 2.0 / float64(n+1)
	for i := n; i < len(vals); i++ {
		out[i] = (vals[i]-out[i-1])*mult + out[i-1]
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index over the whole
// series for the given period.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return math.NaN()
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD returns the 12/26 MACD line, its 9-period signal, and the histogram.
func MACD(closes []float64) (line, signal, hist float64) {
	const fast, slow, sig = 12, 26, 9
	e12 := emaSeries(closes, fast)
	e26 := emaSeries(closes, slow)
	macd := make([]float64, 0, len(closes))
	for i := slow - 1; i < len(closes); i++ {
		macd = append(macd, e12[i]-e26[i])
	}
	if len(macd) < sig {
		return math.NaN(), math.NaN(), math.NaN()
	}
	sigSeries := emaSeries(macd, sig)
	line = macd[len(macd)-1]
	signal = sigSeries[len(sigSeries)-1]
	hist = line - signal
	return
}

// StdDev returns the population standard deviation of the last n values.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// Bollinger returns the n-period middle band and the k-sigma upper/lower bands.
func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}

// Stoch returns the smoothed %K and %D of the stochastic oscillator
// (kPeriod lookback, smoothK smoothing, dPeriod signal).
func Stoch(highs, lows, closes []float64, kPeriod, smoothK, dPeriod int) (k, d float64) {
	if kPeriod <= 0 || smoothK <= 0 || dPeriod <= 0 {
		return math.NaN(), math.NaN()
	}
	m := smoothK + dPeriod - 1
	if len(closes) < kPeriod+m-1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return math.NaN(), math.NaN()
	}

	rawK := func(i int) float64 {
		hh, ll := highs[i], lows[i]
		for j := i - kPeriod + 1; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			return 50.0
		}
		return (closes[i] - ll) / (hh - ll) * 100.0
	}

	raws := make([]float64, m)
	for x := 0; x < m; x++ {
		raws[x] = rawK(len(closes) - m + x)
	}

	ks := make([]float64, dPeriod)
	for x := 0; x < dPeriod; x++ {
		sum := 0.0
		for y := 0; y < smoothK; y++ {
			sum += raws[x+y]
		}
		ks[x] = sum / float64(smoothK)
	}

	k = ks[dPeriod-1]
	sum := 0.0
	for _, v := range ks {
		sum += v
	}
	d = sum / float64(dPeriod)
	return
}

// ADX returns the Wilder average directional index for the given period.
func ADX(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if period <= 0 || n < 2*period+1 || len(highs) != n || len(lows) != n {
		return math.NaN()
	}

	trs := make([]float64, n-1)
	pdms := make([]float64, n-1)
	mdms := make([]float64, n-1)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		dn := lows[i-1] - lows[i]
		if up > dn && up > 0 {
			pdms[i-1] = up
		}
		if dn > up && dn > 0 {
			mdms[i-1] = dn
		}
		tr := highs[i] - lows[i]
		if v := math.Abs(highs[i] - closes[i-1]); v > tr {
			tr = v
		}
		if v := math.Abs(lows[i] - closes[i-1]); v > tr {
			tr = v
		}
		trs[i-1] = tr
	}

	var atr, pdm, mdm float64
	for i := 0; i < period; i++ {
		atr += trs[i]
		pdm += pdms[i]
		mdm += mdms[i]
	}

	dx := func() float64 {
		if atr == 0 {
			return 0
		}
		pdi := 100.0 * pdm / atr
		mdi := 100.0 * mdm / atr
		if pdi+mdi == 0 {
			return 0
		}
		return 100.0 * math.Abs(pdi-mdi) / (pdi + mdi)
	}

	adx := dx()
	count := 1
	for i := period; i < len(trs); i++ {
		atr = atr - atr/float64(period) + trs[i]
		pdm = pdm - pdm/float64(period) + pdms[i]
		mdm = mdm - mdm/float64(period) + mdms[i]
		d := dx()
		if count < period {
			adx += d
			count++
			if count == period {
				adx /= float64(period)
			}
		} else {
			adx = (adx*float64(period-1) + d) / float64(period)
		}
	}
	if count < period {
		return math.NaN()
	}
	return adx
}

// OBV returns the cumulative on-balance volume of the series.
func OBV(closes, volumes []float64) float64 {
	if len(closes) != len(volumes) || len(closes) == 0 {
		return math.NaN()
	}
	obv := 0.0
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv += volumes[i]
		case closes[i] < closes[i-1]:
			obv -= volumes[i]
		}
	}
	return obv
}

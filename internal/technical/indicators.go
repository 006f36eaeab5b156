package technical

import (
	"math"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

// Engine computes classical technical indicators from an OHLCV series.
// Every calculation is pure and deterministic; a series shorter than an
// indicator's lookback yields a nil field instead of an error.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new indicator engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger: log,
	}
}

// Calculate derives the full indicator snapshot for the most recent bar
func (e *Engine) Calculate(series contracts.Series) contracts.IndicatorSet {
	closes := series.Closes()

	set := contracts.IndicatorSet{
		RSI:        rsi(closes, 14),
		MACD:       macd(closes),
		Bollinger:  bollinger(closes, 20, 2.0),
		SMA20:      sma(closes, 20),
		SMA50:      sma(closes, 50),
		SMA200:     sma(closes, 200),
		EMA12:      ema(closes, 12),
		EMA26:      ema(closes, 26),
		ATR:        atr(series, 14),
		Stochastic: stochastic(series, 14, 3),
		OBV:        obv(series),
		VWAP:       vwap(series),
	}

	e.logger.WithFields(map[string]interface{}{
		"bars": len(series),
	}).Debug("Calculated indicator set")

	return set
}

// sma returns the arithmetic mean of the last period closes
func sma(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	var sum float64
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}

	v := sum / float64(period)
	return &v
}

// emaSeries returns the EMA carried over the whole series, seeded with the
// SMA of the first period closes. Values before index period-1 are zero
// and must not be read.
func emaSeries(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nil
	}

	k := 2.0 / (float64(period) + 1.0)

	out := make([]float64, len(closes))
	var sum float64
	for i := 0; i < period; i++ {
		sum += closes[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < len(closes); i++ {
		out[i] = (closes[i]-out[i-1])*k + out[i-1]
	}

	return out
}

// ema returns the latest EMA value
func ema(closes []float64, period int) *float64 {
	series := emaSeries(closes, period)
	if series == nil {
		return nil
	}

	v := series[len(series)-1]
	return &v
}

// rsi computes Wilder's smoothed RSI. Needs period+1 closes.
func rsi(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	// Seed averages over the first period deltas
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for the remaining deltas
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		v := 100.0
		return &v
	}

	rs := avgGain / avgLoss
	v := 100.0 - 100.0/(1.0+rs)
	return &v
}

// macd computes the MACD line (EMA12-EMA26), its EMA9 signal line and the
// histogram. The signal line is one continuous EMA over the MACD history,
// which matches the trailing re-derivation numerically.
func macd(closes []float64) *contracts.MACDValue {
	e12 := emaSeries(closes, 12)
	e26 := emaSeries(closes, 26)
	if e12 == nil || e26 == nil {
		return nil
	}

	// MACD line exists from the first bar where EMA26 is defined
	line := make([]float64, 0, len(closes)-25)
	for i := 25; i < len(closes); i++ {
		line = append(line, e12[i]-e26[i])
	}

	// Signal line: EMA(9) of the MACD history, seeded from the simple
	// mean of whatever is available when fewer than nine points exist
	var signal float64
	if len(line) >= 9 {
		var sum float64
		for i := 0; i < 9; i++ {
			sum += line[i]
		}
		signal = sum / 9.0

		k := 2.0 / 10.0
		for i := 9; i < len(line); i++ {
			signal = (line[i]-signal)*k + signal
		}
	} else {
		var sum float64
		for _, v := range line {
			sum += v
		}
		signal = sum / float64(len(line))
	}

	last := line[len(line)-1]
	return &contracts.MACDValue{
		MACD:      last,
		Signal:    signal,
		Histogram: last - signal,
	}
}

// bollinger computes the middle SMA band and the bands at mult population
// standard deviations
func bollinger(closes []float64, period int, mult float64) *contracts.BollingerBands {
	middle := sma(closes, period)
	if middle == nil {
		return nil
	}

	window := closes[len(closes)-period:]
	var variance float64
	for _, c := range window {
		diff := c - *middle
		variance += diff * diff
	}
	variance /= float64(period)
	sigma := math.Sqrt(variance)

	return &contracts.BollingerBands{
		Upper:  *middle + mult*sigma,
		Middle: *middle,
		Lower:  *middle - mult*sigma,
	}
}

// atr computes the Average True Range as the SMA of the last period true
// ranges. Needs period+1 bars because the true range looks at the previous
// close.
func atr(series contracts.Series, period int) *float64 {
	if len(series) < period+1 {
		return nil
	}

	trs := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		bar := series[i]
		prevClose := series[i-1].Close

		tr := bar.High - bar.Low
		if hc := math.Abs(bar.High - prevClose); hc > tr {
			tr = hc
		}
		if lc := math.Abs(bar.Low - prevClose); lc > tr {
			tr = lc
		}
		trs = append(trs, tr)
	}

	var sum float64
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}

	v := sum / float64(period)
	return &v
}

// stochastic computes the latest %K/%D pair of the fast stochastic
// oscillator. %D is the SMA(dPeriod) of the %K history.
func stochastic(series contracts.Series, kPeriod, dPeriod int) *contracts.StochasticValue {
	if len(series) < kPeriod {
		return nil
	}

	ks := make([]float64, 0, len(series)-kPeriod+1)
	for i := kPeriod - 1; i < len(series); i++ {
		window := series[i-kPeriod+1 : i+1]

		lowest := window[0].Low
		highest := window[0].High
		for _, b := range window[1:] {
			if b.Low < lowest {
				lowest = b.Low
			}
			if b.High > highest {
				highest = b.High
			}
		}

		// Flat window: resolve to the neutral midpoint
		k := 50.0
		if highest > lowest {
			k = (window[len(window)-1].Close - lowest) / (highest - lowest) * 100.0
		}
		ks = append(ks, k)
	}

	n := dPeriod
	if len(ks) < n {
		n = len(ks)
	}
	var sum float64
	for _, k := range ks[len(ks)-n:] {
		sum += k
	}

	return &contracts.StochasticValue{
		K: ks[len(ks)-1],
		D: sum / float64(n),
	}
}

// obv computes cumulative signed volume over the whole series, starting
// at zero
func obv(series contracts.Series) *float64 {
	if len(series) == 0 {
		return nil
	}

	var cum float64
	for i := 1; i < len(series); i++ {
		switch {
		case series[i].Close > series[i-1].Close:
			cum += series[i].Volume
		case series[i].Close < series[i-1].Close:
			cum -= series[i].Volume
		}
	}

	return &cum
}

// vwap computes the volume-weighted average price over the whole series
func vwap(series contracts.Series) *float64 {
	if len(series) == 0 {
		return nil
	}

	var pv, vol float64
	for _, b := range series {
		typical := (b.High + b.Low + b.Close) / 3.0
		pv += typical * b.Volume
		vol += b.Volume
	}

	if vol == 0 {
		return nil
	}

	v := pv / vol
	return &v
}

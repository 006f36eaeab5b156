package quant

import (
	"math"
	"sort"

	"github.com/santosa/bandarlab/internal/contracts"
)

const (
	defaultMomentumPeriod = 10
	trendWindow           = 20
	volatilityWindow      = 20
	pivotWing             = 2    // bars on each side of a pivot
	levelTolerance        = 0.02 // consolidate pivots within 2% of price
	maxLevels             = 3
)

// Momentum returns the percentage price change over the trailing period.
// Zero when the series is too short.
func Momentum(series contracts.Series, period int) float64 {
	if period <= 0 {
		period = defaultMomentumPeriod
	}
	if len(series) < period+1 {
		return 0
	}

	last := series[len(series)-1].Close
	base := series[len(series)-1-period].Close
	if base == 0 {
		return 0
	}

	return (last - base) / base * 100
}

// Volatility returns the annualized standard deviation of daily returns
// over the trailing 20 bars, in percent. Zero when fewer than 20 bars.
func Volatility(series contracts.Series) float64 {
	if len(series) < volatilityWindow {
		return 0
	}

	returns := dailyReturns(series.Tail(volatilityWindow))
	if len(returns) == 0 {
		return 0
	}

	return stddev(returns) * math.Sqrt(252) * 100
}

// DetectTrend fits a least-squares line through the trailing 20 closes and
// classifies the slope, normalized by the mean price.
func DetectTrend(series contracts.Series) contracts.Trend {
	if len(series) < trendWindow {
		return contracts.TrendSideways
	}

	closes := series.Tail(trendWindow).Closes()
	n := float64(len(closes))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return contracts.TrendSideways
	}
	slope := (n*sumXY - sumX*sumY) / denom

	mean := sumY / n
	if mean == 0 {
		return contracts.TrendSideways
	}
	normalized := slope / mean * 100

	switch {
	case normalized > 0.1:
		return contracts.TrendUp
	case normalized < -0.1:
		return contracts.TrendDown
	default:
		return contracts.TrendSideways
	}
}

// SupportResistance scans for pivot highs/lows with a two-bar wing on each
// side, consolidates pivots within a 2% tolerance of the current price,
// and returns the three strongest levels on each side of the price.
// Supports come back descending (closest below price first), resistances
// ascending (closest above first).
func SupportResistance(series contracts.Series) (supports, resistances []float64) {
	if len(series) < trendWindow {
		return nil, nil
	}

	price := series.LastClose()

	pivots := make([]float64, 0, len(series)/2)
	for i := pivotWing; i < len(series)-pivotWing; i++ {
		if isPivotHigh(series, i) {
			pivots = append(pivots, series[i].High)
		}
		if isPivotLow(series, i) {
			pivots = append(pivots, series[i].Low)
		}
	}

	// Cluster nearby pivots; the hit count is the level's strength
	type level struct {
		price    float64
		strength int
	}
	levels := make([]level, 0, len(pivots))
	tolerance := price * levelTolerance

	for _, p := range pivots {
		merged := false
		for i := range levels {
			if math.Abs(p-levels[i].price) <= tolerance {
				levels[i].price = (levels[i].price*float64(levels[i].strength) + p) / float64(levels[i].strength+1)
				levels[i].strength++
				merged = true
				break
			}
		}
		if !merged {
			levels = append(levels, level{price: p, strength: 1})
		}
	}

	var supportLevels, resistanceLevels []level
	for _, l := range levels {
		if l.price > price {
			resistanceLevels = append(resistanceLevels, l)
		} else if l.price < price {
			supportLevels = append(supportLevels, l)
		}
	}

	sort.SliceStable(supportLevels, func(i, j int) bool {
		return supportLevels[i].strength > supportLevels[j].strength
	})
	sort.SliceStable(resistanceLevels, func(i, j int) bool {
		return resistanceLevels[i].strength > resistanceLevels[j].strength
	})

	if len(supportLevels) > maxLevels {
		supportLevels = supportLevels[:maxLevels]
	}
	if len(resistanceLevels) > maxLevels {
		resistanceLevels = resistanceLevels[:maxLevels]
	}

	supports = make([]float64, len(supportLevels))
	for i, l := range supportLevels {
		supports[i] = l.price
	}
	resistances = make([]float64, len(resistanceLevels))
	for i, l := range resistanceLevels {
		resistances[i] = l.price
	}

	// Closest-to-price first on both sides
	sort.Sort(sort.Reverse(sort.Float64Slice(supports)))
	sort.Float64s(resistances)

	return supports, resistances
}

func isPivotHigh(series contracts.Series, i int) bool {
	h := series[i].High
	for w := 1; w <= pivotWing; w++ {
		if h <= series[i-w].High || h <= series[i+w].High {
			return false
		}
	}
	return true
}

func isPivotLow(series contracts.Series, i int) bool {
	l := series[i].Low
	for w := 1; w <= pivotWing; w++ {
		if l >= series[i-w].Low || l >= series[i+w].Low {
			return false
		}
	}
	return true
}

// dailyReturns computes bar-over-bar returns
func dailyReturns(series contracts.Series) []float64 {
	if len(series) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (series[i].Close-prev)/prev)
	}
	return returns
}

// stddev computes the population standard deviation
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

package backtest

import "github.com/santosa/bandarlab/internal/contracts"

// CompositeStrategy is the built-in reference strategy. It scores each bar
// with a simplified version of the live blending rule — RSI mean-reversion,
// price versus its 20-bar mean, and short momentum — and trades when the
// blend is decisively one-sided. It deliberately re-implements the math so
// backtests stay independent of the live pipeline.
type CompositeStrategy struct {
	BuyThreshold  float64
	SellThreshold float64
}

// NewCompositeStrategy returns the strategy with its standard thresholds
func NewCompositeStrategy() *CompositeStrategy {
	return &CompositeStrategy{
		BuyThreshold:  0.3,
		SellThreshold: -0.3,
	}
}

// Decide implements Strategy
func (s *CompositeStrategy) Decide(window contracts.Series) Action {
	if len(window) < 15 {
		return ActionHold
	}

	closes := window.Closes()
	price := closes[len(closes)-1]
	if price <= 0 {
		return ActionHold
	}

	// RSI component: oversold positive, overbought negative
	rsiScore := 0.0
	if rsi, ok := windowRSI(closes, 14); ok {
		switch {
		case rsi < 30:
			rsiScore = (30 - rsi) / 30
		case rsi > 70:
			rsiScore = (70 - rsi) / 30
		default:
			rsiScore = (50 - rsi) / 50
		}
	}

	// Mean-reversion component: distance from the trailing mean
	maScore := 0.0
	n := 20
	if len(closes) < n {
		n = len(closes)
	}
	var sum float64
	for _, c := range closes[len(closes)-n:] {
		sum += c
	}
	mean := sum / float64(n)
	if mean > 0 {
		maScore = (price - mean) / mean * 10
		if maScore > 1 {
			maScore = 1
		} else if maScore < -1 {
			maScore = -1
		}
	}

	// Momentum component over 10 bars
	momScore := 0.0
	if len(closes) > 10 {
		base := closes[len(closes)-11]
		if base > 0 {
			momScore = (price - base) / base * 5
			if momScore > 1 {
				momScore = 1
			} else if momScore < -1 {
				momScore = -1
			}
		}
	}

	score := rsiScore*0.4 + maScore*0.3 + momScore*0.3

	switch {
	case score > s.BuyThreshold:
		return ActionBuy
	case score < s.SellThreshold:
		return ActionSell
	default:
		return ActionHold
	}
}

// windowRSI is a seed-only RSI over the last period+1 closes
func windowRSI(closes []float64, period int) (float64, bool) {
	if len(closes) < period+1 {
		return 0, false
	}

	tail := closes[len(closes)-period-1:]
	var gains, losses float64
	for i := 1; i < len(tail); i++ {
		change := tail[i] - tail[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100, true
	}

	rs := gains / losses
	return 100 - 100/(1+rs), true
}

package technical

import (
	"fmt"
	"math"

	"github.com/santosa/bandarlab/internal/contracts"
)

// GenerateSignals maps indicator values to directional signals. Rules are
// evaluated independently; an indicator whose value is nil is skipped
// entirely, it does not produce a neutral placeholder.
func (e *Engine) GenerateSignals(series contracts.Series, set contracts.IndicatorSet) []contracts.TechnicalSignal {
	price := series.LastClose()
	signals := make([]contracts.TechnicalSignal, 0, 5)

	if set.RSI != nil {
		signals = append(signals, rsiSignal(*set.RSI))
	}
	if set.MACD != nil {
		signals = append(signals, macdSignal(*set.MACD, price))
	}
	if set.Bollinger != nil {
		signals = append(signals, bollingerSignal(*set.Bollinger, price))
	}
	if set.SMA20 != nil && set.SMA50 != nil {
		signals = append(signals, movingAverageSignal(*set.SMA20, *set.SMA50, price))
	}
	if set.Stochastic != nil {
		signals = append(signals, stochasticSignal(*set.Stochastic))
	}

	return signals
}

// Summarize composes the indicator engine and the signal rules into the
// blended technical verdict for one series.
func (e *Engine) Summarize(series contracts.Series) contracts.TechnicalSummary {
	set := e.Calculate(series)
	signals := e.GenerateSignals(series, set)

	var bullish, bearish, totalWeight float64
	for _, s := range signals {
		totalWeight += s.Strength
		switch s.Signal {
		case contracts.SignalBullish:
			bullish += s.Strength
		case contracts.SignalBearish:
			bearish += s.Strength
		default:
			// Neutral splits its weight between both sides
			bullish += s.Strength / 2
			bearish += s.Strength / 2
		}
	}

	netScore := 0.0
	if totalWeight > 0 {
		netScore = (bullish - bearish) / totalWeight
	}

	confidence := clamp(math.Abs(netScore)*100, 5, 95)

	var overall contracts.OverallSignal
	switch {
	case netScore > 0.5:
		overall = contracts.OverallStrongBuy
	case netScore > 0.2:
		overall = contracts.OverallBuy
	case netScore < -0.5:
		overall = contracts.OverallStrongSell
	case netScore < -0.2:
		overall = contracts.OverallSell
	default:
		overall = contracts.OverallNeutral
	}

	e.logger.WithFields(map[string]interface{}{
		"signals":    len(signals),
		"net_score":  netScore,
		"overall":    overall,
		"confidence": confidence,
	}).Debug("Calculated technical summary")

	return contracts.TechnicalSummary{
		OverallSignal: overall,
		Confidence:    confidence,
		Signals:       signals,
		Indicators:    set,
	}
}

func rsiSignal(rsi float64) contracts.TechnicalSignal {
	sig := contracts.TechnicalSignal{Indicator: "RSI"}

	switch {
	case rsi < 30:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.8
		sig.Description = fmt.Sprintf("RSI %.1f indicates oversold conditions", rsi)
	case rsi > 70:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.8
		sig.Description = fmt.Sprintf("RSI %.1f indicates overbought conditions", rsi)
	case rsi < 45:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.6
		sig.Description = fmt.Sprintf("RSI %.1f leans bullish", rsi)
	case rsi > 55:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.6
		sig.Description = fmt.Sprintf("RSI %.1f leans bearish", rsi)
	default:
		sig.Signal = contracts.SignalNeutral
		sig.Strength = 0.5
		sig.Description = fmt.Sprintf("RSI %.1f is neutral", rsi)
	}

	return sig
}

func macdSignal(m contracts.MACDValue, price float64) contracts.TechnicalSignal {
	sig := contracts.TechnicalSignal{Indicator: "MACD"}

	strength := 0.6
	if price > 0 {
		strength = math.Min(0.9, 0.6+math.Abs(m.Histogram)/price*1000)
	}

	switch {
	case m.Histogram > 0 && m.MACD > m.Signal:
		sig.Signal = contracts.SignalBullish
		sig.Strength = strength
		sig.Description = "MACD above signal line with positive histogram"
	case m.Histogram < 0 && m.MACD < m.Signal:
		sig.Signal = contracts.SignalBearish
		sig.Strength = strength
		sig.Description = "MACD below signal line with negative histogram"
	default:
		sig.Signal = contracts.SignalNeutral
		sig.Strength = 0.5
		sig.Description = "MACD crossover pending"
	}

	return sig
}

// bollingerSignal has no neutral branch: price exactly on the middle band
// resolves to the bearish side, preserving historical signal parity.
func bollingerSignal(b contracts.BollingerBands, price float64) contracts.TechnicalSignal {
	sig := contracts.TechnicalSignal{Indicator: "Bollinger Bands"}

	switch {
	case price < b.Lower:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.75
		sig.Description = "Price below lower band, potential bounce"
	case price > b.Upper:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.75
		sig.Description = "Price above upper band, potential pullback"
	case price < b.Middle:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.55
		sig.Description = "Price in lower half of the bands"
	default:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.55
		sig.Description = "Price in upper half of the bands"
	}

	return sig
}

func movingAverageSignal(sma20, sma50, price float64) contracts.TechnicalSignal {
	sig := contracts.TechnicalSignal{Indicator: "Moving Averages"}

	switch {
	case sma20 > sma50 && price > sma20:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.7
		sig.Description = "Golden cross with price above SMA20"
	case sma20 < sma50 && price < sma20:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.7
		sig.Description = "Death cross with price below SMA20"
	case price > sma20:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.6
		sig.Description = "Price holding above SMA20"
	default:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.6
		sig.Description = "Price trading below SMA20"
	}

	return sig
}

func stochasticSignal(s contracts.StochasticValue) contracts.TechnicalSignal {
	sig := contracts.TechnicalSignal{Indicator: "Stochastic"}

	switch {
	case s.K < 20 && s.D < 20:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.75
		sig.Description = fmt.Sprintf("Stochastic %%K %.1f oversold", s.K)
	case s.K > 80 && s.D > 80:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.75
		sig.Description = fmt.Sprintf("Stochastic %%K %.1f overbought", s.K)
	case s.K > s.D:
		sig.Signal = contracts.SignalBullish
		sig.Strength = 0.6
		sig.Description = "Stochastic %K crossed above %D"
	default:
		sig.Signal = contracts.SignalBearish
		sig.Strength = 0.6
		sig.Description = "Stochastic %K below %D"
	}

	return sig
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package quant

import (
	"fmt"
	"math"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

// Blend weights for the composite score
const (
	technicalWeight    = 0.4
	fundamentalWeight  = 0.3
	bandarmologyWeight = 0.3
)

// Engine blends the technical, fundamental and bandarmology verdicts with
// raw price structure into a trading signal and a direction forecast.
// Absent sub-analyses default to the neutral score of 50.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new quant engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger: log,
	}
}

// GenerateSignal produces the composite trading recommendation
func (e *Engine) GenerateSignal(
	series contracts.Series,
	technical *contracts.TechnicalSummary,
	fundamental *contracts.FundamentalSummary,
	bandarmology *contracts.BandarmologySummary,
) contracts.QuantAnalysis {
	price := series.LastClose()

	techScore := 50.0
	if technical != nil {
		techScore = (overallSignalScore(technical.OverallSignal) + technical.Confidence) / 2
	}

	fundScore := 50.0
	if fundamental != nil {
		fundScore = fundamental.Score
	}

	bandScore := 50.0
	if bandarmology != nil {
		bandScore = (flowSignalScore(bandarmology.OverallSignal) + bandarmology.Confidence) / 2
	}

	composite := techScore*technicalWeight + fundScore*fundamentalWeight + bandScore*bandarmologyWeight

	momentum := Momentum(series, defaultMomentumPeriod)
	volatility := Volatility(series)
	trend := DetectTrend(series)
	supports, resistances := SupportResistance(series)

	var action contracts.TradeAction
	switch {
	case composite >= 75:
		action = contracts.ActionStrongBuy
	case composite >= 60:
		action = contracts.ActionBuy
	case composite >= 40:
		action = contracts.ActionHold
	case composite >= 25:
		action = contracts.ActionSell
	default:
		action = contracts.ActionStrongSell
	}

	target, stop := targetAndStop(action, price, supports, resistances)
	riskReward := riskRewardRatio(action, price, target, stop)

	signal := contracts.TradingSignal{
		Action:          action,
		Confidence:      clamp(math.Abs(composite-50)*2, 5, 95),
		TargetPrice:     target,
		StopLoss:        stop,
		RiskRewardRatio: riskReward,
		Timeframe:       timeframe(volatility, trend),
		Reasoning:       reasoning(technical, fundamental, bandarmology, trend, momentum),
	}

	e.logger.WithFields(map[string]interface{}{
		"composite":  composite,
		"action":     action,
		"trend":      trend,
		"momentum":   momentum,
		"volatility": volatility,
	}).Debug("Generated quant signal")

	return contracts.QuantAnalysis{
		Signal:            signal,
		TechnicalScore:    techScore,
		FundamentalScore:  fundScore,
		BandarmologyScore: bandScore,
		CompositeScore:    composite,
		Momentum:          momentum,
		Volatility:        volatility,
		Trend:             trend,
		SupportLevels:     supports,
		ResistanceLevels:  resistances,
	}
}

// overallSignalScore maps the technical verdict onto the 0..100 scale
func overallSignalScore(s contracts.OverallSignal) float64 {
	switch s {
	case contracts.OverallStrongBuy:
		return 90
	case contracts.OverallBuy:
		return 70
	case contracts.OverallSell:
		return 30
	case contracts.OverallStrongSell:
		return 10
	default:
		return 50
	}
}

// flowSignalScore maps the bandarmology verdict onto the 0..100 scale
func flowSignalScore(s contracts.FlowSignal) float64 {
	switch s {
	case contracts.FlowStrongAccumulation:
		return 90
	case contracts.FlowSignalAccumulation:
		return 70
	case contracts.FlowSignalDistribution:
		return 30
	case contracts.FlowStrongDistribution:
		return 10
	default:
		return 50
	}
}

// targetAndStop picks price levels for the action. Buys target the nearest
// resistance and stop at the nearest support; sells are mirrored. Holds
// carry no levels.
func targetAndStop(action contracts.TradeAction, price float64, supports, resistances []float64) (target, stop *float64) {
	switch action {
	case contracts.ActionBuy, contracts.ActionStrongBuy:
		t := price * 1.1
		if len(resistances) > 0 {
			t = resistances[0]
		}
		s := price * 0.95
		if len(supports) > 0 {
			s = supports[0]
		}
		return &t, &s

	case contracts.ActionSell, contracts.ActionStrongSell:
		t := price * 0.9
		if len(supports) > 0 {
			t = supports[0]
		}
		s := price * 1.05
		if len(resistances) > 0 {
			s = resistances[0]
		}
		return &t, &s

	default:
		return nil, nil
	}
}

// riskRewardRatio computes potential gain over potential loss, nil when no
// stop is placed or the loss side is not positive
func riskRewardRatio(action contracts.TradeAction, price float64, target, stop *float64) *float64 {
	if target == nil || stop == nil {
		return nil
	}

	var gain, loss float64
	switch action {
	case contracts.ActionBuy, contracts.ActionStrongBuy:
		gain = *target - price
		loss = price - *stop
	case contracts.ActionSell, contracts.ActionStrongSell:
		gain = price - *target
		loss = *stop - price
	default:
		return nil
	}

	if loss <= 0 {
		return nil
	}

	ratio := gain / loss
	return &ratio
}

// timeframe suggests a holding horizon from volatility and trend
func timeframe(volatility float64, trend contracts.Trend) contracts.Timeframe {
	switch {
	case volatility > 40:
		return contracts.TimeframeShort
	case volatility < 20 && trend != contracts.TrendSideways:
		return contracts.TimeframeLong
	default:
		return contracts.TimeframeMedium
	}
}

// reasoning collects the human-readable inputs behind the recommendation
func reasoning(
	technical *contracts.TechnicalSummary,
	fundamental *contracts.FundamentalSummary,
	bandarmology *contracts.BandarmologySummary,
	trend contracts.Trend,
	momentum float64,
) []string {
	reasons := make([]string, 0, 4)

	if technical != nil {
		reasons = append(reasons, fmt.Sprintf("Technical indicators read %s at %.0f%% confidence",
			technical.OverallSignal, technical.Confidence))
	}
	if fundamental != nil {
		reasons = append(reasons, fmt.Sprintf("Fundamentals rated %s (score %.0f)",
			fundamental.OverallRating, fundamental.Score))
	}
	if bandarmology != nil {
		reasons = append(reasons, fmt.Sprintf("Broker flow shows %s, smart money %s",
			bandarmology.OverallSignal, bandarmology.SmartMoneyDirection))
	}
	reasons = append(reasons, fmt.Sprintf("Price in %s with %.1f%% momentum over 10 bars", trend, momentum))

	return reasons
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

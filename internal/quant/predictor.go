package quant

import (
	"math"

	"github.com/santosa/bandarlab/internal/contracts"
)

// Probability contribution caps per factor
const (
	technicalProbWeight    = 0.2
	fundamentalProbWeight  = 0.2
	bandarmologyProbWeight = 0.15
	trendProbWeight        = 0.1
)

// Predict blends the three sub-analyses and the price trend into a
// probabilistic up/down/sideways forecast. The probability starts at the
// uninformed 0.5 and each factor shifts it by its contribution.
func (e *Engine) Predict(
	series contracts.Series,
	technical *contracts.TechnicalSummary,
	fundamental *contracts.FundamentalSummary,
	bandarmology *contracts.BandarmologySummary,
) contracts.PredictionResult {
	upProbability := 0.5
	factors := make([]contracts.PredictionFactor, 0, 4)

	if technical != nil {
		base := 0.0
		switch technical.OverallSignal {
		case contracts.OverallStrongBuy:
			base = 0.2
		case contracts.OverallBuy:
			base = 0.1
		case contracts.OverallSell:
			base = -0.1
		case contracts.OverallStrongSell:
			base = -0.2
		}
		contribution := base * technical.Confidence / 100
		upProbability += contribution
		factors = append(factors, contracts.PredictionFactor{
			Name:         "technical",
			Weight:       technicalProbWeight,
			Contribution: contribution,
		})
	}

	if fundamental != nil {
		contribution := (fundamental.Score - 50) / 200 * 0.8
		upProbability += contribution
		factors = append(factors, contracts.PredictionFactor{
			Name:         "fundamental",
			Weight:       fundamentalProbWeight,
			Contribution: contribution,
		})
	}

	if bandarmology != nil {
		contribution := 0.0
		switch bandarmology.OverallSignal {
		case contracts.FlowStrongAccumulation:
			contribution = 0.15
		case contracts.FlowSignalAccumulation:
			contribution = 0.08
		case contracts.FlowSignalDistribution:
			contribution = -0.08
		case contracts.FlowStrongDistribution:
			contribution = -0.15
		}
		upProbability += contribution
		factors = append(factors, contracts.PredictionFactor{
			Name:         "bandarmology",
			Weight:       bandarmologyProbWeight,
			Contribution: contribution,
		})
	}

	trend := DetectTrend(series)
	trendContribution := 0.0
	switch trend {
	case contracts.TrendUp:
		trendContribution = 0.1
	case contracts.TrendDown:
		trendContribution = -0.1
	}
	upProbability += trendContribution
	factors = append(factors, contracts.PredictionFactor{
		Name:         "trend",
		Weight:       trendProbWeight,
		Contribution: trendContribution,
	})

	upProbability = clamp(upProbability, 0.05, 0.95)

	var direction contracts.Direction
	switch {
	case upProbability > 0.55:
		direction = contracts.DirectionUp
	case upProbability < 0.45:
		direction = contracts.DirectionDown
	default:
		direction = contracts.DirectionSideways
	}

	result := contracts.PredictionResult{
		Direction:      direction,
		Probability:    upProbability,
		ExpectedReturn: expectedReturn(series, direction),
		Confidence:     clamp(math.Abs(upProbability-0.5)*200, 10, 90),
		Factors:        factors,
	}

	e.logger.WithFields(map[string]interface{}{
		"direction":       result.Direction,
		"probability":     result.Probability,
		"expected_return": result.ExpectedReturn,
		"confidence":      result.Confidence,
	}).Debug("Generated price prediction")

	return result
}

// expectedReturn scales the trailing-20-bar average daily return:
// amplified and sign-aligned for a directional call, dampened sideways
func expectedReturn(series contracts.Series, direction contracts.Direction) float64 {
	returns := dailyReturns(series.Tail(volatilityWindow))
	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	avg := sum / float64(len(returns)) * 100

	switch direction {
	case contracts.DirectionUp:
		return math.Abs(avg) * 1.5
	case contracts.DirectionDown:
		return -math.Abs(avg) * 1.5
	default:
		return avg * 0.5
	}
}

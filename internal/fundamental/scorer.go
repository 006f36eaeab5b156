package fundamental

import (
	"fmt"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

// Scorer maps a sparse set of financial ratios to bullish/bearish signals
// and an overall rating. Absent metrics contribute nothing; with no
// metrics at all the score defaults to the neutral 50.
type Scorer struct {
	logger *logger.Logger
}

// NewScorer creates a new fundamentals scorer
func NewScorer(log *logger.Logger) *Scorer {
	return &Scorer{
		logger: log,
	}
}

// Metric weights. Profitability and valuation carry the most weight.
const (
	weightPER            = 1.5
	weightPBV            = 1.2
	weightROE            = 1.5
	weightDebtToEquity   = 1.0
	weightDividendYield  = 0.8
	weightNetMargin      = 1.0
	weightEarningsGrowth = 1.3
)

// Analyze scores every supplied metric and blends them into a weighted
// average on a 0..100 scale
func (s *Scorer) Analyze(metrics contracts.FundamentalMetrics) contracts.FundamentalSummary {
	signals := make([]contracts.FundamentalSignal, 0, 7)

	if metrics.PER != nil {
		signals = append(signals, scorePER(*metrics.PER))
	}
	if metrics.PBV != nil {
		signals = append(signals, scorePBV(*metrics.PBV))
	}
	if metrics.ROE != nil {
		signals = append(signals, scoreROE(*metrics.ROE))
	}
	if metrics.DebtToEquity != nil {
		signals = append(signals, scoreDebtToEquity(*metrics.DebtToEquity))
	}
	if metrics.DividendYield != nil {
		signals = append(signals, scoreDividendYield(*metrics.DividendYield))
	}
	if metrics.NetMargin != nil {
		signals = append(signals, scoreNetMargin(*metrics.NetMargin))
	}
	if metrics.EarningsGrowth != nil {
		signals = append(signals, scoreEarningsGrowth(*metrics.EarningsGrowth))
	}

	score := 50.0
	if len(signals) > 0 {
		var weighted, totalWeight float64
		for _, sig := range signals {
			weighted += sig.Score * sig.Weight
			totalWeight += sig.Weight
		}
		score = weighted / totalWeight * 100
	}

	summary := contracts.FundamentalSummary{
		Score:         score,
		OverallRating: rating(score),
		Signals:       signals,
	}

	s.logger.WithFields(map[string]interface{}{
		"metrics": len(signals),
		"score":   score,
		"rating":  summary.OverallRating,
	}).Debug("Calculated fundamental summary")

	return summary
}

// rating buckets the final score
func rating(score float64) contracts.FundamentalRating {
	switch {
	case score >= 80:
		return contracts.RatingExcellent
	case score >= 65:
		return contracts.RatingGood
	case score >= 50:
		return contracts.RatingFair
	case score >= 35:
		return contracts.RatingPoor
	default:
		return contracts.RatingWeak
	}
}

// direction derives the signal bucket from a metric score
func direction(score float64) contracts.SignalDirection {
	switch {
	case score >= 0.7:
		return contracts.SignalBullish
	case score >= 0.45:
		return contracts.SignalNeutral
	default:
		return contracts.SignalBearish
	}
}

func newSignal(metric string, value, score, weight float64, description string) contracts.FundamentalSignal {
	return contracts.FundamentalSignal{
		Metric:      metric,
		Value:       fmt.Sprintf("%.2f", value),
		Signal:      direction(score),
		Score:       score,
		Weight:      weight,
		Description: description,
	}
}

func scorePER(per float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case per < 0:
		score, desc = 0.1, "Negative earnings"
	case per < 10:
		score, desc = 0.9, "Deeply undervalued earnings multiple"
	case per < 15:
		score, desc = 0.75, "Attractive earnings multiple"
	case per < 20:
		score, desc = 0.5, "Fairly valued"
	case per < 30:
		score, desc = 0.35, "Rich earnings multiple"
	default:
		score, desc = 0.2, "Very expensive earnings multiple"
	}
	return newSignal("P/E", per, score, weightPER, desc)
}

func scorePBV(pbv float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case pbv < 0:
		score, desc = 0.1, "Negative book value"
	case pbv < 1:
		score, desc = 0.9, "Trading below book value"
	case pbv < 2:
		score, desc = 0.75, "Reasonable price to book"
	case pbv < 3:
		score, desc = 0.5, "Fair price to book"
	case pbv < 5:
		score, desc = 0.35, "Elevated price to book"
	default:
		score, desc = 0.2, "Very high price to book"
	}
	return newSignal("P/B", pbv, score, weightPBV, desc)
}

func scoreROE(roe float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case roe > 20:
		score, desc = 0.9, "Excellent return on equity"
	case roe > 15:
		score, desc = 0.75, "Strong return on equity"
	case roe > 10:
		score, desc = 0.55, "Decent return on equity"
	case roe > 5:
		score, desc = 0.35, "Weak return on equity"
	default:
		score, desc = 0.2, "Poor return on equity"
	}
	return newSignal("ROE", roe, score, weightROE, desc)
}

func scoreDebtToEquity(der float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case der < 0.3:
		score, desc = 0.9, "Very low leverage"
	case der < 0.5:
		score, desc = 0.75, "Conservative leverage"
	case der < 1.0:
		score, desc = 0.55, "Moderate leverage"
	case der < 1.5:
		score, desc = 0.35, "High leverage"
	default:
		score, desc = 0.2, "Very high leverage"
	}
	return newSignal("Debt/Equity", der, score, weightDebtToEquity, desc)
}

func scoreDividendYield(dy float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case dy > 5:
		score, desc = 0.9, "Very high dividend yield"
	case dy > 3:
		score, desc = 0.75, "Attractive dividend yield"
	case dy > 1:
		score, desc = 0.55, "Modest dividend yield"
	case dy > 0:
		score, desc = 0.35, "Token dividend"
	default:
		score, desc = 0.2, "No dividend"
	}
	return newSignal("Dividend Yield", dy, score, weightDividendYield, desc)
}

func scoreNetMargin(nm float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case nm > 20:
		score, desc = 0.9, "Excellent profitability"
	case nm > 10:
		score, desc = 0.75, "Healthy profitability"
	case nm > 5:
		score, desc = 0.55, "Thin but positive margin"
	case nm > 0:
		score, desc = 0.35, "Marginal profitability"
	default:
		score, desc = 0.2, "Loss making"
	}
	return newSignal("Net Margin", nm, score, weightNetMargin, desc)
}

func scoreEarningsGrowth(eg float64) contracts.FundamentalSignal {
	var score float64
	var desc string
	switch {
	case eg > 25:
		score, desc = 0.9, "Rapid earnings growth"
	case eg > 10:
		score, desc = 0.75, "Solid earnings growth"
	case eg > 0:
		score, desc = 0.55, "Slow earnings growth"
	case eg > -10:
		score, desc = 0.35, "Earnings contraction"
	default:
		score, desc = 0.2, "Sharp earnings decline"
	}
	return newSignal("Earnings Growth", eg, score, weightEarningsGrowth, desc)
}

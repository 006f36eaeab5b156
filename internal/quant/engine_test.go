package quant

import (
	"math"
	"testing"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

func TestGenerateSignalNoSubAnalyses(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	series := flatSeries(30, 100)

	got := engine.GenerateSignal(series, nil, nil, nil)

	if got.TechnicalScore != 50 || got.FundamentalScore != 50 || got.BandarmologyScore != 50 {
		t.Errorf("missing sub-analyses must default to 50, got %v/%v/%v",
			got.TechnicalScore, got.FundamentalScore, got.BandarmologyScore)
	}
	if got.CompositeScore != 50 {
		t.Errorf("composite = %v, want 50", got.CompositeScore)
	}
	if got.Signal.Action != contracts.ActionHold {
		t.Errorf("action = %v, want hold", got.Signal.Action)
	}
	if got.Signal.Confidence != 5 {
		t.Errorf("confidence = %v, want the 5 floor", got.Signal.Confidence)
	}
	if got.Signal.TargetPrice != nil || got.Signal.StopLoss != nil || got.Signal.RiskRewardRatio != nil {
		t.Error("hold must carry no target, stop or risk/reward")
	}
	if got.Trend != contracts.TrendSideways {
		t.Errorf("trend = %v, want sideways", got.Trend)
	}
	if got.Signal.Timeframe != contracts.TimeframeMedium {
		t.Errorf("timeframe = %v, want medium", got.Signal.Timeframe)
	}
	if len(got.Signal.Reasoning) == 0 {
		t.Error("reasoning must never be empty")
	}
}

func TestGenerateSignalStrongBullish(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	series := flatSeries(30, 100)

	technical := &contracts.TechnicalSummary{
		OverallSignal: contracts.OverallStrongBuy,
		Confidence:    95,
	}
	fundamental := &contracts.FundamentalSummary{
		Score:         90,
		OverallRating: contracts.RatingExcellent,
	}
	bandarmology := &contracts.BandarmologySummary{
		OverallSignal: contracts.FlowStrongAccumulation,
		Confidence:    95,
	}

	got := engine.GenerateSignal(series, technical, fundamental, bandarmology)

	// (90+95)/2*0.4 + 90*0.3 + (90+95)/2*0.3
	want := 92.5*0.4 + 90*0.3 + 92.5*0.3
	if math.Abs(got.CompositeScore-want) > 1e-9 {
		t.Errorf("composite = %v, want %v", got.CompositeScore, want)
	}
	if got.Signal.Action != contracts.ActionStrongBuy {
		t.Errorf("action = %v, want strong_buy", got.Signal.Action)
	}

	// A flat series has no pivots: the fallback levels apply
	if got.Signal.TargetPrice == nil || math.Abs(*got.Signal.TargetPrice-110) > 1e-9 {
		t.Errorf("target = %v, want the 10%% fallback 110", got.Signal.TargetPrice)
	}
	if got.Signal.StopLoss == nil || math.Abs(*got.Signal.StopLoss-95) > 1e-9 {
		t.Errorf("stop = %v, want the 5%% fallback 95", got.Signal.StopLoss)
	}
	if got.Signal.RiskRewardRatio == nil || math.Abs(*got.Signal.RiskRewardRatio-2) > 1e-9 {
		t.Errorf("risk/reward = %v, want 2", got.Signal.RiskRewardRatio)
	}
}

func TestGenerateSignalBearishUsesLevels(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	series := flatSeries(30, 100)
	series[10].High = 110 // resistance pivot
	series[20].Low = 90   // support pivot

	technical := &contracts.TechnicalSummary{
		OverallSignal: contracts.OverallStrongSell,
		Confidence:    5,
	}
	fundamental := &contracts.FundamentalSummary{Score: 30}

	got := engine.GenerateSignal(series, technical, fundamental, nil)

	if got.Signal.Action != contracts.ActionSell {
		t.Errorf("action = %v, want sell", got.Signal.Action)
	}
	// Sells target the nearest support and stop at the nearest resistance
	if got.Signal.TargetPrice == nil || *got.Signal.TargetPrice != 90 {
		t.Errorf("target = %v, want support 90", got.Signal.TargetPrice)
	}
	if got.Signal.StopLoss == nil || *got.Signal.StopLoss != 110 {
		t.Errorf("stop = %v, want resistance 110", got.Signal.StopLoss)
	}
}

func TestActionThresholds(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	series := flatSeries(30, 100)

	tests := []struct {
		score float64
		want  contracts.TradeAction
	}{
		{90, contracts.ActionStrongBuy},
		{75, contracts.ActionStrongBuy},
		{60, contracts.ActionBuy},
		{50, contracts.ActionHold},
		{40, contracts.ActionHold},
		{30, contracts.ActionSell},
		{10, contracts.ActionStrongSell},
	}

	for _, tt := range tests {
		// Fundamentals pass through verbatim, so a crafted score steers
		// one third of the composite; pin the other two thirds with a
		// matching technical summary.
		fundamental := &contracts.FundamentalSummary{Score: tt.score}
		technical := &contracts.TechnicalSummary{
			OverallSignal: contracts.OverallNeutral,
			Confidence:    tt.score*2 - 50, // (50 + conf)/2 == tt.score
		}
		band := &contracts.BandarmologySummary{
			OverallSignal: contracts.FlowSignalNeutral,
			Confidence:    tt.score*2 - 50,
		}

		got := engine.GenerateSignal(series, technical, fundamental, band)
		if math.Abs(got.CompositeScore-tt.score) > 1e-9 {
			t.Fatalf("composite = %v, want %v", got.CompositeScore, tt.score)
		}
		if got.Signal.Action != tt.want {
			t.Errorf("composite %v: action = %v, want %v", tt.score, got.Signal.Action, tt.want)
		}
	}
}

func TestSignalScoreMappings(t *testing.T) {
	if overallSignalScore(contracts.OverallStrongBuy) != 90 ||
		overallSignalScore(contracts.OverallBuy) != 70 ||
		overallSignalScore(contracts.OverallNeutral) != 50 ||
		overallSignalScore(contracts.OverallSell) != 30 ||
		overallSignalScore(contracts.OverallStrongSell) != 10 {
		t.Error("overallSignalScore mapping changed")
	}

	if flowSignalScore(contracts.FlowStrongAccumulation) != 90 ||
		flowSignalScore(contracts.FlowSignalAccumulation) != 70 ||
		flowSignalScore(contracts.FlowSignalNeutral) != 50 ||
		flowSignalScore(contracts.FlowSignalDistribution) != 30 ||
		flowSignalScore(contracts.FlowStrongDistribution) != 10 {
		t.Error("flowSignalScore mapping changed")
	}
}

func TestTimeframe(t *testing.T) {
	tests := []struct {
		name       string
		volatility float64
		trend      contracts.Trend
		want       contracts.Timeframe
	}{
		{"high vol", 45, contracts.TrendUp, contracts.TimeframeShort},
		{"calm trending", 15, contracts.TrendUp, contracts.TimeframeLong},
		{"calm sideways", 15, contracts.TrendSideways, contracts.TimeframeMedium},
		{"moderate", 30, contracts.TrendDown, contracts.TimeframeMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeframe(tt.volatility, tt.trend); got != tt.want {
				t.Errorf("timeframe(%v, %v) = %v, want %v", tt.volatility, tt.trend, got, tt.want)
			}
		})
	}
}

package technical

import (
	"testing"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

func TestRSISignalRules(t *testing.T) {
	tests := []struct {
		name     string
		rsi      float64
		want     contracts.SignalDirection
		strength float64
	}{
		{"oversold", 25, contracts.SignalBullish, 0.8},
		{"overbought", 75, contracts.SignalBearish, 0.8},
		{"lean bullish", 40, contracts.SignalBullish, 0.6},
		{"lean bearish", 60, contracts.SignalBearish, 0.6},
		{"neutral", 50, contracts.SignalNeutral, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rsiSignal(tt.rsi)
			if got.Signal != tt.want {
				t.Errorf("rsiSignal(%v).Signal = %v, want %v", tt.rsi, got.Signal, tt.want)
			}
			if got.Strength != tt.strength {
				t.Errorf("rsiSignal(%v).Strength = %v, want %v", tt.rsi, got.Strength, tt.strength)
			}
		})
	}
}

func TestBollingerSignalResolvesMiddleBearish(t *testing.T) {
	bands := contracts.BollingerBands{Upper: 110, Middle: 100, Lower: 90}

	got := bollingerSignal(bands, 100)
	if got.Signal != contracts.SignalBearish {
		t.Errorf("price on middle band = %v, want bearish", got.Signal)
	}

	if got := bollingerSignal(bands, 85); got.Signal != contracts.SignalBullish || got.Strength != 0.75 {
		t.Errorf("price below lower band = %+v, want strong bullish", got)
	}
}

func TestGenerateSignalsSkipsNilIndicators(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	series := makeSeries(100, 101, 102)

	rsi := 25.0
	set := contracts.IndicatorSet{RSI: &rsi}

	signals := engine.GenerateSignals(series, set)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 (nil indicators must be skipped, not neutral)", len(signals))
	}
	if signals[0].Indicator != "RSI" {
		t.Errorf("signal indicator = %q, want RSI", signals[0].Indicator)
	}
}

func TestSummarizeDecliningSeries(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	// 20 steadily declining bars: RSI pins to 0, stochastic to the bottom
	// of its range, price sits in the lower half of the bands. Every
	// evaluated rule lands bullish.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	series := makeSeries(closes...)

	summary := engine.Summarize(series)

	if summary.OverallSignal != contracts.OverallStrongBuy {
		t.Errorf("overall = %v, want strong_buy", summary.OverallSignal)
	}
	if summary.Confidence != 95 {
		t.Errorf("confidence = %v, want the 95 cap", summary.Confidence)
	}
	for _, s := range summary.Signals {
		if s.Signal != contracts.SignalBullish {
			t.Errorf("%s signal = %v, want bullish", s.Indicator, s.Signal)
		}
	}
	if summary.Indicators.MACD != nil {
		t.Error("MACD should be nil on 20 bars")
	}
}

func TestSummarizeEmptySeries(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	summary := engine.Summarize(nil)

	if summary.OverallSignal != contracts.OverallNeutral {
		t.Errorf("overall = %v, want neutral", summary.OverallSignal)
	}
	if summary.Confidence != 5 {
		t.Errorf("confidence = %v, want the 5 floor", summary.Confidence)
	}
	if len(summary.Signals) != 0 {
		t.Errorf("got %d signals, want none", len(summary.Signals))
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(120, 5, 95); got != 95 {
		t.Errorf("clamp above = %v, want 95", got)
	}
	if got := clamp(-3, 5, 95); got != 5 {
		t.Errorf("clamp below = %v, want 5", got)
	}
	if got := clamp(42, 5, 95); got != 42 {
		t.Errorf("clamp inside = %v, want 42", got)
	}
}

package technical

import (
	"math"
	"testing"
	"time"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

// makeSeries builds bars from closes with a one-point range around each
// close and constant volume
func makeSeries(closes ...float64) contracts.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(contracts.Series, len(closes))
	for i, c := range closes {
		series[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return series
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   *float64
	}{
		{"exact window", []float64{1, 2, 3, 4, 5}, 5, ptr(3.0)},
		{"trailing window", []float64{1, 2, 3, 4, 5}, 3, ptr(4.0)},
		{"too short", []float64{1, 2}, 3, nil},
		{"empty", nil, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sma(tt.closes, tt.period)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("sma() = %v, want %v", got, tt.want)
			}
			if got != nil && !almostEqual(*got, *tt.want) {
				t.Errorf("sma() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestEMASeededFromSMA(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}

	// With exactly period closes the EMA equals the seeding SMA
	got := ema(closes, 12)
	want := sma(closes, 12)
	if got == nil || want == nil {
		t.Fatal("expected values for 12 closes")
	}
	if !almostEqual(*got, *want) {
		t.Errorf("ema(12) = %v, want seed SMA %v", *got, *want)
	}

	// One more close applies a single recurrence step
	extended := append(append([]float64{}, closes...), 25)
	got = ema(extended, 12)
	k := 2.0 / 13.0
	expected := (25-*want)*k + *want
	if !almostEqual(*got, expected) {
		t.Errorf("ema after one step = %v, want %v", *got, expected)
	}

	if ema(closes[:11], 12) != nil {
		t.Error("expected nil EMA for series shorter than the period")
	}
}

func TestRSI(t *testing.T) {
	if rsi(make([]float64, 14), 14) != nil {
		t.Error("expected nil RSI for 14 closes, need 15")
	}

	rising := make([]float64, 15)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	if got := rsi(rising, 14); got == nil || *got != 100 {
		t.Errorf("RSI of all-gains series = %v, want 100", got)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = 100 - float64(i)
	}
	if got := rsi(falling, 14); got == nil || *got != 0 {
		t.Errorf("RSI of all-losses series = %v, want 0", got)
	}

	mixed := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.0, 45.7, 46.2, 46.4, 46.2, 45.6}
	got := rsi(mixed, 14)
	if got == nil {
		t.Fatal("expected an RSI value")
	}
	if *got < 0 || *got > 100 {
		t.Errorf("RSI out of bounds: %v", *got)
	}
}

func TestMACD(t *testing.T) {
	if macd(make([]float64, 25)) != nil {
		t.Error("expected nil MACD below 26 closes")
	}

	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 500
	}
	got := macd(flat)
	if got == nil {
		t.Fatal("expected a MACD value")
	}
	if !almostEqual(got.MACD, 0) || !almostEqual(got.Signal, 0) || !almostEqual(got.Histogram, 0) {
		t.Errorf("MACD of a flat series = %+v, want zeros", got)
	}
}

func TestBollinger(t *testing.T) {
	if bollinger(make([]float64, 19), 20, 2.0) != nil {
		t.Error("expected nil bands below 20 closes")
	}

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 250
	}
	got := bollinger(flat, 20, 2.0)
	if got == nil {
		t.Fatal("expected bands")
	}
	if !almostEqual(got.Upper, 250) || !almostEqual(got.Middle, 250) || !almostEqual(got.Lower, 250) {
		t.Errorf("bands of a zero-variance series = %+v, want all 250", got)
	}
}

func TestATR(t *testing.T) {
	series := makeSeries(100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100)

	// Flat closes with a constant 2-point range: every true range is 2
	got := atr(series, 14)
	if got == nil {
		t.Fatal("expected an ATR value")
	}
	if !almostEqual(*got, 2) {
		t.Errorf("ATR = %v, want 2", *got)
	}

	if atr(series[:14], 14) != nil {
		t.Error("expected nil ATR below 15 bars")
	}
}

func TestStochastic(t *testing.T) {
	if stochastic(makeSeries(1, 2, 3), 14, 3) != nil {
		t.Error("expected nil stochastic below 14 bars")
	}

	// A window with no range resolves %K to the 50 midpoint
	flat := make(contracts.Series, 14)
	for i := range flat {
		flat[i] = contracts.Bar{High: 100, Low: 100, Close: 100, Volume: 1}
	}
	got := stochastic(flat, 14, 3)
	if got == nil {
		t.Fatal("expected a stochastic value")
	}
	if !almostEqual(got.K, 50) || !almostEqual(got.D, 50) {
		t.Errorf("flat-window stochastic = %+v, want K=D=50", got)
	}

	// Close pinned at the window high resolves %K to 100
	top := make(contracts.Series, 14)
	for i := range top {
		top[i] = contracts.Bar{High: 110, Low: 90, Close: 110, Volume: 1}
	}
	got = stochastic(top, 14, 3)
	if got == nil || !almostEqual(got.K, 100) {
		t.Errorf("top-of-range stochastic = %+v, want K=100", got)
	}
}

func TestOBV(t *testing.T) {
	if obv(nil) != nil {
		t.Error("expected nil OBV for an empty series")
	}

	series := makeSeries(10, 11, 10, 12)
	got := obv(series)
	if got == nil {
		t.Fatal("expected an OBV value")
	}
	// +1000 (up), -1000 (down), +1000 (up)
	if !almostEqual(*got, 1000) {
		t.Errorf("OBV = %v, want 1000", *got)
	}

	single := makeSeries(10)
	if got := obv(single); got == nil || *got != 0 {
		t.Errorf("OBV of a single bar = %v, want 0", got)
	}
}

func TestVWAP(t *testing.T) {
	if vwap(nil) != nil {
		t.Error("expected nil VWAP for an empty series")
	}

	series := contracts.Series{{High: 11, Low: 9, Close: 10, Volume: 100}}
	got := vwap(series)
	if got == nil || !almostEqual(*got, 10) {
		t.Errorf("VWAP = %v, want 10", got)
	}

	zeroVol := contracts.Series{{High: 11, Low: 9, Close: 10, Volume: 0}}
	if vwap(zeroVol) != nil {
		t.Error("expected nil VWAP when no volume traded")
	}
}

func TestCalculateNullableOnShortSeries(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	series := makeSeries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	set := engine.Calculate(series)

	if set.RSI != nil || set.MACD != nil || set.Bollinger != nil {
		t.Error("expected nil RSI/MACD/Bollinger on 10 bars")
	}
	if set.SMA20 != nil || set.SMA50 != nil || set.SMA200 != nil {
		t.Error("expected nil SMAs on 10 bars")
	}
	if set.EMA12 != nil || set.EMA26 != nil || set.ATR != nil || set.Stochastic != nil {
		t.Error("expected nil EMA/ATR/Stochastic on 10 bars")
	}
	if set.OBV == nil || set.VWAP == nil {
		t.Error("OBV and VWAP should survive a short series")
	}
}

func ptr(v float64) *float64 {
	return &v
}

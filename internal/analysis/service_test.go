package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

type stubSource struct {
	series     contracts.Series
	brokers    []contracts.BrokerFlow
	metrics    contracts.FundamentalMetrics
	priceErr   error
	brokerErr  error
	metricsErr error
}

func (s *stubSource) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (contracts.Series, error) {
	return s.series, s.priceErr
}

func (s *stubSource) GetBrokerSummary(ctx context.Context, symbol string, from, to time.Time) ([]contracts.BrokerFlow, error) {
	return s.brokers, s.brokerErr
}

func (s *stubSource) GetFundamentals(ctx context.Context, symbol string) (contracts.FundamentalMetrics, error) {
	return s.metrics, s.metricsErr
}

func barsAt(n int, price float64) contracts.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(contracts.Series, n)
	for i := range series {
		series[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return series
}

func TestAnalyzeFullReport(t *testing.T) {
	per := 8.0
	source := &stubSource{
		series:  barsAt(60, 2500),
		metrics: contracts.FundamentalMetrics{PER: &per},
		brokers: []contracts.BrokerFlow{
			{BrokerCode: "KZ", BrokerType: contracts.BrokerTypeForeign, BuyValue: 1000, NetValue: 1000},
		},
	}
	service := NewService(source, nil, time.Minute, logger.NewNop())

	report, err := service.Analyze(context.Background(), "BBCA")
	require.NoError(t, err)

	assert.Equal(t, "BBCA", report.Symbol)
	assert.Equal(t, 2500.0, report.LastPrice)
	require.NotNil(t, report.Fundamental)
	assert.Equal(t, contracts.RatingExcellent, report.Fundamental.OverallRating)
	require.NotNil(t, report.Bandarmology)
	assert.Equal(t, contracts.SignalBullish, report.Bandarmology.SmartMoneyDirection)
	assert.NotEmpty(t, report.Quant.Signal.Reasoning)
	assert.NotZero(t, report.Prediction.Confidence)
}

func TestAnalyzeDegradesWithoutSubSources(t *testing.T) {
	source := &stubSource{
		series:     barsAt(60, 2500),
		metricsErr: errors.New("upstream down"),
		brokerErr:  errors.New("upstream down"),
	}
	service := NewService(source, nil, time.Minute, logger.NewNop())

	report, err := service.Analyze(context.Background(), "TLKM")
	require.NoError(t, err)

	assert.Nil(t, report.Fundamental)
	assert.Nil(t, report.Bandarmology)
	// Missing sub-analyses read neutral in the blend
	assert.Equal(t, 50.0, report.Quant.FundamentalScore)
	assert.Equal(t, 50.0, report.Quant.BandarmologyScore)
}

func TestAnalyzeRequiresPrices(t *testing.T) {
	service := NewService(&stubSource{priceErr: errors.New("not found")}, nil, time.Minute, logger.NewNop())

	_, err := service.Analyze(context.Background(), "XXXX")
	require.Error(t, err)
}

func TestAnalyzeRejectsTinySeries(t *testing.T) {
	service := NewService(&stubSource{series: barsAt(1, 100)}, nil, time.Minute, logger.NewNop())

	_, err := service.Analyze(context.Background(), "BBRI")
	require.Error(t, err)
}

func TestTechnicalOnly(t *testing.T) {
	source := &stubSource{
		series:     barsAt(60, 2500),
		metricsErr: errors.New("should not be called"),
	}
	service := NewService(source, nil, time.Minute, logger.NewNop())

	summary, err := service.Technical(context.Background(), "ASII")
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Signals)
}

func TestBacktestUsesRequestedCapital(t *testing.T) {
	source := &stubSource{series: barsAt(60, 2500)}
	service := NewService(source, nil, time.Minute, logger.NewNop())

	result, err := service.Backtest(context.Background(), BacktestRequest{
		Symbol:         "BBCA",
		From:           time.Now().AddDate(-1, 0, 0),
		To:             time.Now(),
		InitialCapital: 5_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, 5_000_000.0, result.InitialCapital)
}

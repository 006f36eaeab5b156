package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/santosa/bandarlab/internal/backtest"
	"github.com/santosa/bandarlab/internal/bandarmology"
	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/internal/fundamental"
	"github.com/santosa/bandarlab/internal/quant"
	"github.com/santosa/bandarlab/internal/technical"
	"github.com/santosa/bandarlab/pkg/logger"
	"github.com/santosa/bandarlab/pkg/redis"
)

const (
	priceHistoryDays  = 365
	brokerWindowDays  = 30
	minBarsForReport  = 2
	cacheKeyReport    = "report"
	cacheKeyTechnical = "technical"
)

// MarketDataSource is the slice of the market-data client the analysis
// pipeline needs.
type MarketDataSource interface {
	GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (contracts.Series, error)
	GetBrokerSummary(ctx context.Context, symbol string, from, to time.Time) ([]contracts.BrokerFlow, error)
	GetFundamentals(ctx context.Context, symbol string) (contracts.FundamentalMetrics, error)
}

// Report bundles every analysis layer for one symbol
type Report struct {
	Symbol       string                        `json:"symbol"`
	GeneratedAt  time.Time                     `json:"generated_at"`
	LastPrice    float64                       `json:"last_price"`
	Technical    contracts.TechnicalSummary    `json:"technical"`
	Fundamental  *contracts.FundamentalSummary `json:"fundamental,omitempty"`
	Bandarmology *contracts.BandarmologySummary `json:"bandarmology,omitempty"`
	Quant        contracts.QuantAnalysis       `json:"quant"`
	Prediction   contracts.PredictionResult    `json:"prediction"`
}

// Service runs the full analysis pipeline for a symbol: indicators,
// technical signals, fundamentals, broker flows, the composite blend and
// the probabilistic prediction. Results are memoized in Redis when a cache
// is configured.
type Service struct {
	source       MarketDataSource
	technical    *technical.Engine
	fundamental  *fundamental.Scorer
	bandarmology *bandarmology.Analyzer
	quant        *quant.Engine
	cache        *redis.Cache
	cacheTTL     time.Duration
	logger       *logger.Logger
}

// NewService creates the analysis service
func NewService(source MarketDataSource, cache *redis.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		source:       source,
		technical:    technical.NewEngine(log),
		fundamental:  fundamental.NewScorer(log),
		bandarmology: bandarmology.NewAnalyzer(log),
		quant:        quant.NewEngine(log),
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       log,
	}
}

// Analyze produces the full report for a symbol. Price history is
// mandatory; fundamentals and broker flows degrade to neutral when their
// fetch fails.
func (s *Service) Analyze(ctx context.Context, symbol string) (*Report, error) {
	if s.cache != nil {
		var cached Report
		if err := s.cache.GetOrSet(ctx, cacheKey(cacheKeyReport, symbol), &cached, s.cacheTTL, func() (interface{}, error) {
			return s.analyze(ctx, symbol)
		}); err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.analyze(ctx, symbol)
}

func (s *Service) analyze(ctx context.Context, symbol string) (*Report, error) {
	series, err := s.fetchPrices(ctx, symbol)
	if err != nil {
		return nil, err
	}

	techSummary := s.technical.Summarize(series)

	var fundSummary *contracts.FundamentalSummary
	metrics, err := s.source.GetFundamentals(ctx, symbol)
	if err != nil {
		s.logger.Warnf("fundamentals unavailable for %s: %v", symbol, err)
	} else {
		summary := s.fundamental.Analyze(metrics)
		fundSummary = &summary
	}

	var bandSummary *contracts.BandarmologySummary
	now := time.Now()
	brokers, err := s.source.GetBrokerSummary(ctx, symbol, now.AddDate(0, 0, -brokerWindowDays), now)
	if err != nil {
		s.logger.Warnf("broker summary unavailable for %s: %v", symbol, err)
	} else if len(brokers) > 0 {
		summary := s.bandarmology.Analyze(brokers)
		bandSummary = &summary
	}

	analysis := s.quant.GenerateSignal(series, &techSummary, fundSummary, bandSummary)
	prediction := s.quant.Predict(series, &techSummary, fundSummary, bandSummary)

	report := &Report{
		Symbol:       symbol,
		GeneratedAt:  now,
		LastPrice:    series.LastClose(),
		Technical:    techSummary,
		Fundamental:  fundSummary,
		Bandarmology: bandSummary,
		Quant:        analysis,
		Prediction:   prediction,
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol":    symbol,
		"action":    analysis.Signal.Action,
		"composite": analysis.CompositeScore,
		"direction": prediction.Direction,
	}).Info("analysis complete")

	return report, nil
}

// Technical runs only the indicator and signal layers
func (s *Service) Technical(ctx context.Context, symbol string) (*contracts.TechnicalSummary, error) {
	if s.cache != nil {
		var cached contracts.TechnicalSummary
		if err := s.cache.GetOrSet(ctx, cacheKey(cacheKeyTechnical, symbol), &cached, s.cacheTTL, func() (interface{}, error) {
			series, err := s.fetchPrices(ctx, symbol)
			if err != nil {
				return nil, err
			}
			return s.technical.Summarize(series), nil
		}); err != nil {
			return nil, err
		}
		return &cached, nil
	}

	series, err := s.fetchPrices(ctx, symbol)
	if err != nil {
		return nil, err
	}
	summary := s.technical.Summarize(series)
	return &summary, nil
}

// Fundamentals scores the latest financial ratios
func (s *Service) Fundamentals(ctx context.Context, symbol string) (*contracts.FundamentalSummary, error) {
	metrics, err := s.source.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", symbol, err)
	}
	summary := s.fundamental.Analyze(metrics)
	return &summary, nil
}

// Bandarmology analyzes broker flows over the trailing window
func (s *Service) Bandarmology(ctx context.Context, symbol string) (*contracts.BandarmologySummary, error) {
	now := time.Now()
	brokers, err := s.source.GetBrokerSummary(ctx, symbol, now.AddDate(0, 0, -brokerWindowDays), now)
	if err != nil {
		return nil, fmt.Errorf("broker summary for %s: %w", symbol, err)
	}
	summary := s.bandarmology.Analyze(brokers)
	return &summary, nil
}

// Predict runs the pipeline and returns only the forecast
func (s *Service) Predict(ctx context.Context, symbol string) (*contracts.PredictionResult, error) {
	report, err := s.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &report.Prediction, nil
}

// BacktestRequest parameterizes a historical simulation
type BacktestRequest struct {
	Symbol         string    `json:"symbol"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	InitialCapital float64   `json:"initial_capital"`
}

// Backtest fetches history for the requested range and replays the
// composite strategy over it.
func (s *Service) Backtest(ctx context.Context, req BacktestRequest) (*backtest.Result, error) {
	series, err := s.source.GetPriceHistory(ctx, req.Symbol, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", req.Symbol, err)
	}
	if len(series) < minBarsForReport {
		return nil, fmt.Errorf("not enough history for %s: %d bars", req.Symbol, len(series))
	}

	cfg := backtest.DefaultConfig()
	if req.InitialCapital > 0 {
		cfg.InitialCapital = req.InitialCapital
	}

	sim := backtest.NewSimulator(s.logger)
	result := sim.Run(series, backtest.NewCompositeStrategy(), cfg)
	return &result, nil
}

func (s *Service) fetchPrices(ctx context.Context, symbol string) (contracts.Series, error) {
	now := time.Now()
	series, err := s.source.GetPriceHistory(ctx, symbol, now.AddDate(0, 0, -priceHistoryDays), now)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", symbol, err)
	}
	if len(series) < minBarsForReport {
		return nil, fmt.Errorf("not enough history for %s: %d bars", symbol, len(series))
	}
	return series, nil
}

func cacheKey(kind, symbol string) string {
	return fmt.Sprintf("%s:%s", kind, symbol)
}

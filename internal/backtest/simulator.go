package backtest

import (
	"math"
	"time"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

// Action is a per-bar strategy decision
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Strategy decides an action from the trailing window of bars ending at
// the current bar. Implementations must be side-effect-free so backtests
// stay deterministic.
type Strategy interface {
	Decide(window contracts.Series) Action
}

// StrategyFunc adapts a plain function to the Strategy interface
type StrategyFunc func(window contracts.Series) Action

// Decide implements Strategy
func (f StrategyFunc) Decide(window contracts.Series) Action {
	return f(window)
}

// Config holds backtest parameters
type Config struct {
	InitialCapital float64
	Lookback       int // warm-up bars before the strategy is consulted
	LotSize        int // IDX board lot is 100 shares
}

// DefaultConfig returns the standard simulation parameters
func DefaultConfig() Config {
	return Config{
		InitialCapital: 100_000_000,
		Lookback:       20,
		LotSize:        100,
	}
}

// Trade is one executed order in the simulation. PnL and ReturnPct are
// only set on sell trades.
type Trade struct {
	Date      time.Time `json:"date"`
	Action    Action    `json:"action"`
	Price     float64   `json:"price"`
	Shares    int64     `json:"shares"`
	Value     float64   `json:"value"`
	PnL       float64   `json:"pnl,omitempty"`
	ReturnPct float64   `json:"return_pct,omitempty"`
}

// EquityPoint is one mark-to-market snapshot of the portfolio
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// Result holds backtest performance statistics
type Result struct {
	InitialCapital float64       `json:"initial_capital"`
	FinalCapital   float64       `json:"final_capital"`
	TotalReturn    float64       `json:"total_return"` // percent
	WinRate        float64       `json:"win_rate"`     // percent of closed trades
	MaxDrawdown    float64       `json:"max_drawdown"` // percent
	SharpeRatio    float64       `json:"sharpe_ratio"` // annualized
	Trades         []Trade       `json:"trades"`
	EquityCurve    []EquityPoint `json:"equity_curve"`
}

// Simulator replays a strategy bar-by-bar over a historical series.
// Buys deploy all available capital in whole lots; sells liquidate the
// entire position at the bar's close.
type Simulator struct {
	logger *logger.Logger
}

// NewSimulator creates a new backtest simulator
func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{
		logger: log,
	}
}

// Run executes the backtest and computes performance statistics
func (s *Simulator) Run(series contracts.Series, strategy Strategy, cfg Config) Result {
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = DefaultConfig().InitialCapital
	}
	if cfg.Lookback < 1 {
		cfg.Lookback = DefaultConfig().Lookback
	}
	if cfg.LotSize < 1 {
		cfg.LotSize = DefaultConfig().LotSize
	}

	result := Result{
		InitialCapital: cfg.InitialCapital,
		FinalCapital:   cfg.InitialCapital,
		Trades:         make([]Trade, 0),
		EquityCurve:    make([]EquityPoint, 0),
	}

	if len(series) <= cfg.Lookback {
		return result
	}

	cash := cfg.InitialCapital
	var shares int64
	var costBasis float64

	peak := cfg.InitialCapital
	maxDrawdown := 0.0
	var closedTrades, winningTrades int

	for i := cfg.Lookback; i < len(series); i++ {
		window := series[i-cfg.Lookback : i+1]
		bar := series[i]
		price := bar.Close

		switch strategy.Decide(window) {
		case ActionBuy:
			if shares == 0 && price > 0 {
				lotValue := price * float64(cfg.LotSize)
				lots := int64(cash / lotValue)
				if lots > 0 {
					qty := lots * int64(cfg.LotSize)
					cost := price * float64(qty)
					cash -= cost
					shares = qty
					costBasis = cost

					result.Trades = append(result.Trades, Trade{
						Date:   bar.Date,
						Action: ActionBuy,
						Price:  price,
						Shares: qty,
						Value:  cost,
					})
				}
			}

		case ActionSell:
			if shares > 0 {
				proceeds := price * float64(shares)
				pnl := proceeds - costBasis
				returnPct := 0.0
				if costBasis > 0 {
					returnPct = pnl / costBasis * 100
				}

				result.Trades = append(result.Trades, Trade{
					Date:      bar.Date,
					Action:    ActionSell,
					Price:     price,
					Shares:    shares,
					Value:     proceeds,
					PnL:       pnl,
					ReturnPct: returnPct,
				})

				cash += proceeds
				shares = 0
				costBasis = 0

				closedTrades++
				if pnl > 0 {
					winningTrades++
				}
			}
		}

		// Mark to market
		equity := cash + float64(shares)*price
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}

		result.EquityCurve = append(result.EquityCurve, EquityPoint{
			Date:   bar.Date,
			Equity: equity,
		})
	}

	result.FinalCapital = cash + float64(shares)*series[len(series)-1].Close
	result.TotalReturn = (result.FinalCapital - result.InitialCapital) / result.InitialCapital * 100
	result.MaxDrawdown = maxDrawdown * 100
	if closedTrades > 0 {
		result.WinRate = float64(winningTrades) / float64(closedTrades) * 100
	}
	result.SharpeRatio = sharpeRatio(result.EquityCurve)

	s.logger.WithFields(map[string]interface{}{
		"bars":         len(series),
		"trades":       len(result.Trades),
		"total_return": result.TotalReturn,
		"max_drawdown": result.MaxDrawdown,
		"sharpe":       result.SharpeRatio,
	}).Info("Backtest completed")

	return result
}

// sharpeRatio annualizes the mean daily portfolio return over its
// standard deviation, assuming a 0% risk-free rate
func sharpeRatio(curve []EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	stdev := math.Sqrt(variance)

	if stdev == 0 {
		return 0
	}

	return mean * 252 / (stdev * math.Sqrt(252))
}

package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

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

func TestRunNeverTrades(t *testing.T) {
	sim := NewSimulator(logger.NewNop())

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	series := makeSeries(closes...)

	hold := StrategyFunc(func(window contracts.Series) Action {
		return ActionHold
	})

	result := sim.Run(series, hold, DefaultConfig())

	if len(result.Trades) != 0 {
		t.Errorf("got %d trades, want none", len(result.Trades))
	}
	if result.TotalReturn != 0 {
		t.Errorf("total return = %v, want 0", result.TotalReturn)
	}
	if result.MaxDrawdown != 0 {
		t.Errorf("max drawdown = %v, want 0", result.MaxDrawdown)
	}
	if result.SharpeRatio != 0 {
		t.Errorf("sharpe = %v, want 0 for a motionless portfolio", result.SharpeRatio)
	}
	if result.FinalCapital != result.InitialCapital {
		t.Errorf("final capital = %v, want unchanged %v", result.FinalCapital, result.InitialCapital)
	}
	// One equity point per decided bar
	if len(result.EquityCurve) != 30-DefaultConfig().Lookback {
		t.Errorf("equity curve length = %d, want %d", len(result.EquityCurve), 30-DefaultConfig().Lookback)
	}
}

func TestRunBuyThenSell(t *testing.T) {
	sim := NewSimulator(logger.NewNop())

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	series := makeSeries(closes...)

	// Buy on the first decision, sell on the fifth
	calls := 0
	scripted := StrategyFunc(func(window contracts.Series) Action {
		calls++
		switch calls {
		case 1:
			return ActionBuy
		case 5:
			return ActionSell
		default:
			return ActionHold
		}
	})

	cfg := Config{InitialCapital: 1_000_000, Lookback: 5, LotSize: 100}
	result := sim.Run(series, scripted, cfg)

	if len(result.Trades) != 2 {
		t.Fatalf("got %d trades, want a buy and a sell", len(result.Trades))
	}

	buy, sell := result.Trades[0], result.Trades[1]
	if buy.Action != ActionBuy || sell.Action != ActionSell {
		t.Fatalf("trade actions = %v/%v", buy.Action, sell.Action)
	}

	// First decision is at bar index 5 (close 105): 95 whole lots
	if buy.Price != 105 {
		t.Errorf("buy price = %v, want 105", buy.Price)
	}
	if buy.Shares != 9500 {
		t.Errorf("buy shares = %v, want 9500", buy.Shares)
	}
	if buy.Shares%int64(cfg.LotSize) != 0 {
		t.Errorf("buy of %d shares is not a whole number of lots", buy.Shares)
	}

	// Sell at bar index 9 (close 109) liquidates everything
	if sell.Price != 109 || sell.Shares != 9500 {
		t.Errorf("sell = %v @ %v, want 9500 @ 109", sell.Shares, sell.Price)
	}
	wantPnL := (109.0 - 105.0) * 9500
	if math.Abs(sell.PnL-wantPnL) > 1e-6 {
		t.Errorf("pnl = %v, want %v", sell.PnL, wantPnL)
	}

	if result.WinRate != 100 {
		t.Errorf("win rate = %v, want 100", result.WinRate)
	}
	wantFinal := 1_000_000 + wantPnL
	if math.Abs(result.FinalCapital-wantFinal) > 1e-6 {
		t.Errorf("final capital = %v, want %v", result.FinalCapital, wantFinal)
	}
	if result.TotalReturn <= 0 {
		t.Errorf("total return = %v, want positive", result.TotalReturn)
	}
	if result.SharpeRatio <= 0 {
		t.Errorf("sharpe = %v, want positive for a winning run", result.SharpeRatio)
	}
}

func TestRunOpenPositionMarkedToMarket(t *testing.T) {
	sim := NewSimulator(logger.NewNop())

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 1000 - float64(i)*10
	}
	series := makeSeries(closes...)

	calls := 0
	buyOnce := StrategyFunc(func(window contracts.Series) Action {
		calls++
		if calls == 1 {
			return ActionBuy
		}
		return ActionHold
	})

	cfg := Config{InitialCapital: 10_000_000, Lookback: 5, LotSize: 100}
	result := sim.Run(series, buyOnce, cfg)

	if len(result.Trades) != 1 {
		t.Fatalf("got %d trades, want the single buy", len(result.Trades))
	}
	// Held through a decline: final capital reflects the unrealized loss
	if result.FinalCapital >= result.InitialCapital {
		t.Errorf("final capital = %v, want below initial after the decline", result.FinalCapital)
	}
	if result.MaxDrawdown <= 0 {
		t.Errorf("max drawdown = %v, want positive", result.MaxDrawdown)
	}
	// No closed trades: win rate stays zero
	if result.WinRate != 0 {
		t.Errorf("win rate = %v, want 0 with no closed trades", result.WinRate)
	}
}

func TestRunTooFewBars(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := makeSeries(100, 101, 102)

	result := sim.Run(series, NewCompositeStrategy(), DefaultConfig())

	if len(result.Trades) != 0 || len(result.EquityCurve) != 0 {
		t.Error("series shorter than the lookback must not trade")
	}
	if result.FinalCapital != result.InitialCapital {
		t.Errorf("final capital = %v, want untouched", result.FinalCapital)
	}
}

func TestRunAppliesDefaults(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := makeSeries(100, 101, 102)

	result := sim.Run(series, NewCompositeStrategy(), Config{})

	if result.InitialCapital != DefaultConfig().InitialCapital {
		t.Errorf("initial capital = %v, want the default %v",
			result.InitialCapital, DefaultConfig().InitialCapital)
	}
}

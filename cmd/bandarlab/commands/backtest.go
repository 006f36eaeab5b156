package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/santosa/bandarlab/internal/analysis"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest [symbol]",
	Short: "Replay the composite strategy over historical bars",
	Long: `Replay the composite strategy over historical bars and print the
performance statistics: total return, win rate, max drawdown and the
annualized Sharpe ratio.

Example:
  go run ./cmd/bandarlab backtest BBCA --from 2024-01-01 --to 2024-12-31
  go run ./cmd/bandarlab backtest TLKM --capital 50000000`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktestCmd,
}

var (
	backtestFrom    string
	backtestTo      string
	backtestCapital float64
	backtestJSON    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "start date (YYYY-MM-DD, default: one year ago)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital in IDR (default: 100,000,000)")
	backtestCmd.Flags().BoolVar(&backtestJSON, "json", false, "print the raw JSON result")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.close()

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	to := time.Now()
	if backtestTo != "" {
		to, err = time.Parse("2006-01-02", backtestTo)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}

	from := to.AddDate(-1, 0, 0)
	if backtestFrom != "" {
		from, err = time.Parse("2006-01-02", backtestFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := app.service.Backtest(ctx, analysis.BacktestRequest{
		Symbol:         symbol,
		From:           from,
		To:             to,
		InitialCapital: backtestCapital,
	})
	if err != nil {
		return fmt.Errorf("backtest %s: %w", symbol, err)
	}

	if backtestJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("=== Backtest %s (%s to %s) ===\n", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("Initial capital: %.0f\n", result.InitialCapital)
	fmt.Printf("Final capital:   %.0f\n", result.FinalCapital)
	fmt.Printf("Total return:    %.2f%%\n", result.TotalReturn)
	fmt.Printf("Win rate:        %.1f%%\n", result.WinRate)
	fmt.Printf("Max drawdown:    %.2f%%\n", result.MaxDrawdown)
	fmt.Printf("Sharpe ratio:    %.2f\n", result.SharpeRatio)
	fmt.Printf("Trades:          %d\n", len(result.Trades))

	return nil
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]",
	Short: "Run the full analysis pipeline for a symbol",
	Long: `Run the full analysis pipeline for one IDX symbol and print the report.

The report contains technical indicators and signals, fundamental scores,
bandarmology (broker flow) analysis, the composite trading signal and the
probabilistic prediction.

Example:
  go run ./cmd/bandarlab analyze BBCA
  go run ./cmd/bandarlab analyze TLKM --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeJSON bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON report")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.close()

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := app.service.Analyze(ctx, symbol)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("=== %s ===\n", report.Symbol)
	fmt.Printf("Last price:    %.2f\n", report.LastPrice)
	fmt.Printf("Technical:     %s (confidence %.0f%%)\n", report.Technical.OverallSignal, report.Technical.Confidence)
	if report.Fundamental != nil {
		fmt.Printf("Fundamental:   %s (score %.1f)\n", report.Fundamental.OverallRating, report.Fundamental.Score)
	} else {
		fmt.Println("Fundamental:   unavailable")
	}
	if report.Bandarmology != nil {
		fmt.Printf("Bandarmology:  %s (confidence %.0f%%)\n", report.Bandarmology.OverallSignal, report.Bandarmology.Confidence)
	} else {
		fmt.Println("Bandarmology:  unavailable")
	}

	signal := report.Quant.Signal
	fmt.Printf("\nAction:        %s (confidence %.0f%%, composite %.1f)\n", signal.Action, signal.Confidence, report.Quant.CompositeScore)
	if signal.TargetPrice != nil {
		fmt.Printf("Target price:  %.2f\n", *signal.TargetPrice)
	}
	if signal.StopLoss != nil {
		fmt.Printf("Stop loss:     %.2f\n", *signal.StopLoss)
	}
	fmt.Printf("Timeframe:     %s\n", signal.Timeframe)
	for _, reason := range signal.Reasoning {
		fmt.Printf("  - %s\n", reason)
	}

	fmt.Printf("\nPrediction:    %s (probability %.2f, confidence %.0f%%, expected return %.2f%%)\n",
		report.Prediction.Direction, report.Prediction.Probability,
		report.Prediction.Confidence, report.Prediction.ExpectedReturn)

	return nil
}

package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bandarlab",
	Short: "bandarlab - quantitative analysis for Indonesian equities",
	Long: `bandarlab CLI

Analysis backend for IDX-listed stocks: technical indicators, fundamental
scoring, bandarmology (broker flow) analysis, composite trading signals
and backtesting.

Usage:
  go run ./cmd/bandarlab [command]

Examples:
  go run ./cmd/bandarlab api
  go run ./cmd/bandarlab analyze BBCA
  go run ./cmd/bandarlab backtest BBCA --from 2024-01-01
  go run ./cmd/bandarlab scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/santosa/bandarlab/internal/api"
	"github.com/santosa/bandarlab/internal/api/handlers"
	"github.com/santosa/bandarlab/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                              - Health check
  GET  /api/analysis/{symbol}               - Full analysis report
  GET  /api/analysis/{symbol}/technical     - Indicators and technical signals
  GET  /api/analysis/{symbol}/fundamental   - Scored financial ratios
  GET  /api/analysis/{symbol}/bandarmology  - Broker flow analysis
  GET  /api/analysis/{symbol}/prediction    - Probabilistic forecast
  POST /api/backtest                        - Run a historical simulation

Example:
  go run ./cmd/bandarlab api
  go run ./cmd/bandarlab api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	router := api.NewRouter(api.RouterConfig{
		Analysis:  handlers.NewAnalysisHandler(app.service, app.logger),
		Backtest:  handlers.NewBacktestHandler(app.service, app.logger),
		Limiter:   redis.NewRateLimiter(app.redis, "bandarlab"),
		RateLimit: app.cfg.APIRateLimit,
		Logger:    app.logger,
	})
	server := api.New(app.cfg, app.logger, router)

	go func() {
		if err := server.Start(); err != nil {
			app.logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

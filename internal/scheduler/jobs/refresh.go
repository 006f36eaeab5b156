package jobs

import (
	"context"
	"fmt"

	"github.com/santosa/bandarlab/internal/analysis"
	"github.com/santosa/bandarlab/pkg/logger"
)

// WatchlistRefreshJob warms the analysis cache for every watchlist symbol
// so dashboard requests hit Redis instead of the upstream API.
type WatchlistRefreshJob struct {
	service  *analysis.Service
	symbols  []string
	schedule string
	logger   *logger.Logger
}

// NewWatchlistRefreshJob creates the watchlist refresh job
func NewWatchlistRefreshJob(service *analysis.Service, symbols []string, schedule string, log *logger.Logger) *WatchlistRefreshJob {
	return &WatchlistRefreshJob{
		service:  service,
		symbols:  symbols,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WatchlistRefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule returns the cron expression
func (j *WatchlistRefreshJob) Schedule() string {
	return j.schedule
}

// Run analyzes every watchlist symbol. A single failing symbol does not
// abort the rest; the job fails only when every symbol failed.
func (j *WatchlistRefreshJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		j.logger.Warn("Watchlist is empty, nothing to refresh")
		return nil
	}

	failed := 0
	for _, symbol := range j.symbols {
		if _, err := j.service.Analyze(ctx, symbol); err != nil {
			failed++
			j.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol": symbol,
			}).Warn("Watchlist refresh failed for symbol")
			continue
		}
	}

	if failed == len(j.symbols) {
		return fmt.Errorf("all %d watchlist symbols failed to refresh", failed)
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.symbols),
		"failed": failed,
	}).Info("Watchlist refresh complete")

	return nil
}

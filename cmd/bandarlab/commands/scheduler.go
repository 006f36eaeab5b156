package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/santosa/bandarlab/internal/scheduler"
	"github.com/santosa/bandarlab/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the background scheduler",
	Long: `Start the background scheduler.

Jobs:
  watchlist_refresh - re-analyzes every WATCHLIST symbol on
                      REFRESH_SCHEDULE so the cache stays warm

Example:
  go run ./cmd/bandarlab scheduler
  go run ./cmd/bandarlab scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "run the refresh job immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.close()

	sched := scheduler.New(app.logger)

	refreshJob := jobs.NewWatchlistRefreshJob(app.service, app.cfg.Watchlist, app.cfg.RefreshSchedule, app.logger)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	sched.Start()

	if schedulerRunNow {
		if err := sched.RunJob(refreshJob.Name()); err != nil {
			app.logger.WithError(err).Warn("Failed to trigger immediate refresh")
		}
	}

	fmt.Printf("Scheduler running, watchlist: %v\n", app.cfg.Watchlist)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

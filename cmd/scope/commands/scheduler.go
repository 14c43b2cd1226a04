package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stockscope/backend/internal/scheduler"
	"github.com/stockscope/backend/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler",
	Long: `Runs collection and analysis on their cron schedules and
blocks until interrupted.

Example:
  go run ./cmd/scope scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled (SCHEDULER_ENABLED=false)")
	}

	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewCollectionJob(a.collector, a.cfg.Scheduler.CollectSpec, a.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewAnalysisJob(a.runner, a.cfg.Scheduler.AnalyzeSpec, a.log)); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	fmt.Println("scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/stockscope/backend/internal/batch"
	"github.com/stockscope/backend/pkg/logger"
)

// AnalysisJob runs the full analysis pipeline over the active universe.
// It is scheduled after the collection job so bundles reflect the data
// just collected.
type AnalysisJob struct {
	runner   *batch.Runner
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates a new analysis job.
func NewAnalysisJob(runner *batch.Runner, schedule string, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{runner: runner, schedule: schedule, logger: log}
}

func (j *AnalysisJob) Name() string     { return "analysis-run" }
func (j *AnalysisJob) Schedule() string { return j.schedule }

// Run executes the analysis job.
func (j *AnalysisJob) Run(ctx context.Context) error {
	summary, err := j.runner.RunAll(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("analysis job: %w", err)
	}
	if summary.Failed > 0 && summary.Succeeded == 0 {
		return fmt.Errorf("analysis job: all %d symbols failed", summary.Failed)
	}
	return nil
}

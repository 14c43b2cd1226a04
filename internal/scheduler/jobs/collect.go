package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/stockscope/backend/internal/fetch"
	"github.com/stockscope/backend/pkg/logger"
)

// CollectionJob refreshes the instrument universe and pulls fresh price
// and earnings data for every active symbol.
type CollectionJob struct {
	collector *fetch.Collector
	schedule  string
	logger    *logger.Logger
}

// NewCollectionJob creates a new collection job.
func NewCollectionJob(collector *fetch.Collector, schedule string, log *logger.Logger) *CollectionJob {
	return &CollectionJob{collector: collector, schedule: schedule, logger: log}
}

func (j *CollectionJob) Name() string     { return "data-collection" }
func (j *CollectionJob) Schedule() string { return j.schedule }

// Run executes the collection job.
func (j *CollectionJob) Run(ctx context.Context) error {
	if _, err := j.collector.RefreshUniverse(ctx); err != nil {
		return fmt.Errorf("collection job: %w", err)
	}
	if err := j.collector.CollectAll(ctx, time.Now().UTC()); err != nil {
		return fmt.Errorf("collection job: %w", err)
	}
	return nil
}

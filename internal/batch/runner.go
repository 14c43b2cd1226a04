package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stockscope/backend/internal/analysis"
	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
)

const defaultWorkers = 8

// Runner drives analysis over many instruments. The analyzer itself is
// single-instrument and stateless, so the runner owns all concurrency:
// a bounded worker pool fans out over symbols, and each worker loads its
// own inputs, analyzes, and persists the bundle.
type Runner struct {
	analyzer      *analysis.Analyzer
	stocks        contracts.StockRepository
	prices        contracts.PriceRepository
	earnings      contracts.EarningsRepository
	results       contracts.AnalysisRepository
	broker        *Broker
	workers       int
	lookbackYears int
	logger        *logger.Logger
}

// RunSummary reports the outcome of one analysis run.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// NewRunner creates a new batch runner.
func NewRunner(
	analyzer *analysis.Analyzer,
	stocks contracts.StockRepository,
	prices contracts.PriceRepository,
	earnings contracts.EarningsRepository,
	results contracts.AnalysisRepository,
	broker *Broker,
	workers int,
	lookbackYears int,
	log *logger.Logger,
) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if lookbackYears <= 0 {
		lookbackYears = 2
	}
	return &Runner{
		analyzer:      analyzer,
		stocks:        stocks,
		prices:        prices,
		earnings:      earnings,
		results:       results,
		broker:        broker,
		workers:       workers,
		lookbackYears: lookbackYears,
		logger:        log,
	}
}

// RunAll analyzes every active instrument as of the given time.
func (r *Runner) RunAll(ctx context.Context, asOf time.Time) (*RunSummary, error) {
	stocks, err := r.stocks.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active stocks: %w", err)
	}

	symbols := make([]string, 0, len(stocks))
	for _, s := range stocks {
		symbols = append(symbols, s.Symbol)
	}
	return r.Run(ctx, symbols, asOf)
}

// Run analyzes the given symbols concurrently. A per-symbol failure is
// counted and reported but does not stop the run.
func (r *Runner) Run(ctx context.Context, symbols []string, asOf time.Time) (*RunSummary, error) {
	start := time.Now()
	runID := fmt.Sprintf("run-%d", start.UnixNano())

	r.logger.WithFields(map[string]interface{}{
		"run_id":  runID,
		"symbols": len(symbols),
		"workers": r.workers,
	}).Info("Analysis run started")

	work := make(chan string)
	var wg sync.WaitGroup

	var mu sync.Mutex
	completed, failed := 0, 0

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range work {
				err := r.analyzeOne(ctx, symbol, asOf)

				mu.Lock()
				completed++
				if err != nil {
					failed++
				}
				event := Progress{
					RunID:     runID,
					Symbol:    symbol,
					Completed: completed,
					Total:     len(symbols),
					Failed:    failed,
				}
				mu.Unlock()

				if err != nil {
					event.Error = err.Error()
					r.logger.WithError(err).WithField("symbol", symbol).Warn("Analysis failed for symbol")
				}
				if r.broker != nil {
					r.broker.Publish(event)
				}
			}
		}()
	}

feed:
	for _, symbol := range symbols {
		select {
		case work <- symbol:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	summary := &RunSummary{
		RunID:     runID,
		StartedAt: start,
		Duration:  time.Since(start),
		Total:     len(symbols),
		Succeeded: completed - failed,
		Failed:    failed,
	}

	if r.broker != nil {
		r.broker.Publish(Progress{
			RunID:     runID,
			Completed: completed,
			Total:     len(symbols),
			Failed:    failed,
			Done:      true,
		})
	}

	r.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"duration":  summary.Duration,
	}).Info("Analysis run completed")

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// analyzeOne loads inputs for a single symbol, runs the analyzer, and
// persists the bundle.
func (r *Runner) analyzeOne(ctx context.Context, symbol string, asOf time.Time) error {
	from := asOf.AddDate(-r.lookbackYears, 0, 0)

	series, err := r.prices.GetHistory(ctx, symbol, from, asOf)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	events, err := r.earnings.GetBySymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("load earnings: %w", err)
	}

	bundle := r.analyzer.Analyze(ctx, symbol, series, events, asOf)

	if err := r.results.SaveBundle(ctx, bundle); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	return nil
}

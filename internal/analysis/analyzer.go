package analysis

import (
	"context"
	"time"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/logger"
)

// Analyzer runs the full technical analysis for one instrument and
// assembles the result bundle. It holds no state between invocations;
// every call is a pure function of its inputs and the configured
// defaults, so independent instruments can be analyzed concurrently.
type Analyzer struct {
	cfg    config.AnalysisConfig
	bands  *BandCalculator
	trend  *TrendCalculator
	walker *AlignmentWalker
	logger *logger.Logger
}

// NewAnalyzer creates a new analyzer with the given defaults.
func NewAnalyzer(cfg config.AnalysisConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		bands:  NewBandCalculator(log),
		trend:  NewTrendCalculator(log),
		walker: NewAlignmentWalker(log),
		logger: log,
	}
}

// ComputeBands calculates the support/resistance result, or nil when the
// series cannot support it.
func (a *Analyzer) ComputeBands(ctx context.Context, series *contracts.PriceSeries, asOf time.Time) *contracts.SupportResistanceResult {
	return a.bands.Compute(ctx, series, a.cfg, asOf)
}

// ComputeTrendScore calculates the trend score result, or nil when the
// series is empty. Earnings are optional.
func (a *Analyzer) ComputeTrendScore(ctx context.Context, series *contracts.PriceSeries, earnings []contracts.EarningsEvent, asOf time.Time) *contracts.TrendScoreResult {
	return a.trend.Compute(ctx, series, earnings, asOf)
}

// ComputeEarningsAlignment maps announcements to forward returns, or nil
// when there are no events or no prices.
func (a *Analyzer) ComputeEarningsAlignment(ctx context.Context, series *contracts.PriceSeries, earnings []contracts.EarningsEvent, asOf time.Time) *contracts.EarningsAlignmentResult {
	return a.walker.Compute(ctx, series, earnings, a.cfg.Horizons, asOf)
}

// Analyze runs every component for one instrument and assembles the
// bundle. Absent sub-results pass through as nil; a partial bundle is a
// normal outcome and never escalates to an error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, series *contracts.PriceSeries, earnings []contracts.EarningsEvent, asOf time.Time) *contracts.AnalysisBundle {
	bundle := &contracts.AnalysisBundle{
		Symbol:     symbol,
		ComputedAt: asOf,
	}

	if series.Empty() {
		a.logger.WithField("symbol", symbol).Warn("No price history, returning empty bundle")
		return bundle
	}

	bundle.Bands = a.ComputeBands(ctx, series, asOf)
	bundle.Trend = a.ComputeTrendScore(ctx, series, earnings, asOf)

	if len(earnings) > 0 {
		bundle.Earnings = a.ComputeEarningsAlignment(ctx, series, earnings, asOf)
	}

	return bundle
}

package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
)

// Return horizons and weights for the price trend score. Recent moves
// carry more weight; the weights sum to exactly 1.0.
var returnWeights = []struct {
	Days   int
	Weight float64
}{
	{1, 0.30},  // 1 day
	{5, 0.30},  // 1 week
	{20, 0.20}, // 1 month
	{60, 0.20}, // 3 months
}

// Sub-score weights for the combined trend score.
const (
	priceScoreWeight    = 0.5
	volumeScoreWeight   = 0.3
	earningsScoreWeight = 0.2
)

// Volume trend windows: mean volume of the most recent window compared
// against the preceding baseline window.
const (
	volumeRecentDays   = 5
	volumeBaselineDays = 25
)

// recentSurpriseCount is how many of the latest earnings events feed the
// earnings trend score.
const recentSurpriseCount = 3

// TrendCalculator computes the momentum sub-scores and the combined
// score used for ranking instruments.
type TrendCalculator struct {
	logger *logger.Logger
}

// NewTrendCalculator creates a new trend calculator.
func NewTrendCalculator(log *logger.Logger) *TrendCalculator {
	return &TrendCalculator{logger: log}
}

// Compute calculates the trend score for one instrument. The earnings
// slice is optional. Returns nil only when the series is empty.
func (c *TrendCalculator) Compute(ctx context.Context, series *contracts.PriceSeries, earnings []contracts.EarningsEvent, asOf time.Time) *contracts.TrendScoreResult {
	if series.Empty() {
		c.logger.WithField("symbol", seriesSymbol(series)).Debug("No price data for trend score")
		return nil
	}

	priceScore := c.priceTrendScore(series)
	volumeScore := c.volumeTrendScore(series)
	earningsScore := c.earningsTrendScore(earnings)

	combined := priceScoreWeight*priceScore +
		volumeScoreWeight*volumeScore +
		earningsScoreWeight*earningsScore

	c.logger.WithFields(map[string]interface{}{
		"symbol":   series.Symbol,
		"price":    priceScore,
		"volume":   volumeScore,
		"earnings": earningsScore,
		"combined": combined,
	}).Debug("Calculated trend score")

	return &contracts.TrendScoreResult{
		Symbol:             series.Symbol,
		AsOf:               asOf,
		PriceTrendScore:    priceScore,
		VolumeTrendScore:   volumeScore,
		EarningsTrendScore: earningsScore,
		CombinedScore:      combined,
	}
}

// priceTrendScore weights trailing returns over the configured horizons.
// A horizon the series cannot cover contributes exactly 0. This is a
// deliberate fallback, distinct from the NaN propagation used by the
// moving averages.
func (c *TrendCalculator) priceTrendScore(series *contracts.PriceSeries) float64 {
	latest := series.Last().Close

	var weighted float64
	for _, rw := range returnWeights {
		weighted += c.trailingReturn(series, latest, rw.Days) * rw.Weight
	}
	return weighted * 100
}

// trailingReturn computes the fractional return over the last `days`
// trading points, or 0 when the series is too short.
func (c *TrendCalculator) trailingReturn(series *contracts.PriceSeries, latest float64, days int) float64 {
	n := series.Len()
	if n <= days {
		return 0
	}

	past := series.Points[n-1-days].Close
	if past == 0 {
		return 0
	}
	return (latest - past) / past
}

// volumeTrendScore compares recent average volume against the preceding
// baseline. Series of 30 points or fewer fall back to the whole-series
// mean as the baseline; a zero baseline yields 0.
func (c *TrendCalculator) volumeTrendScore(series *contracts.PriceSeries) float64 {
	n := series.Len()

	recentStart := n - volumeRecentDays
	if recentStart < 0 {
		recentStart = 0
	}
	recent := averageVolume(series.Points[recentStart:])

	var baseline float64
	if n > volumeRecentDays+volumeBaselineDays {
		baseline = averageVolume(series.Points[n-volumeRecentDays-volumeBaselineDays : n-volumeRecentDays])
	} else {
		baseline = averageVolume(series.Points)
	}

	if baseline == 0 {
		return 0
	}
	return (recent/baseline - 1) * 100
}

// earningsTrendScore averages the surprise percent of the most recent
// earnings events. Missing data yields 0, not an error.
func (c *TrendCalculator) earningsTrendScore(earnings []contracts.EarningsEvent) float64 {
	if len(earnings) == 0 {
		return 0
	}

	// Provider order is not guaranteed; sort a copy, newest first.
	sorted := make([]contracts.EarningsEvent, len(earnings))
	copy(sorted, earnings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AnnouncementDate.After(sorted[j].AnnouncementDate)
	})

	if len(sorted) > recentSurpriseCount {
		sorted = sorted[:recentSurpriseCount]
	}

	var surprises []float64
	for _, e := range sorted {
		if e.SurprisePercent != nil {
			surprises = append(surprises, *e.SurprisePercent)
		}
	}
	if len(surprises) == 0 {
		return 0
	}
	return mean(surprises)
}

// averageVolume returns the mean volume of the given points.
func averageVolume(points []contracts.PricePoint) float64 {
	if len(points) == 0 {
		return 0
	}

	var sum int64
	for _, p := range points {
		sum += p.Volume
	}
	return float64(sum) / float64(len(points))
}

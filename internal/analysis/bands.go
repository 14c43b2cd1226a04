package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/logger"
)

// BandCalculator derives the 52-week price band and interpolated
// support/resistance levels around the current price.
type BandCalculator struct {
	logger *logger.Logger
}

// NewBandCalculator creates a new band calculator.
func NewBandCalculator(log *logger.Logger) *BandCalculator {
	return &BandCalculator{logger: log}
}

// Compute calculates the support/resistance result for one instrument.
// Returns nil when the series is empty or the configuration is unusable;
// an absent result is a valid outcome, never an error.
func (c *BandCalculator) Compute(ctx context.Context, series *contracts.PriceSeries, cfg config.AnalysisConfig, asOf time.Time) *contracts.SupportResistanceResult {
	if series.Empty() {
		c.logger.WithField("symbol", seriesSymbol(series)).Debug("No price data for band calculation")
		return nil
	}
	if cfg.BandWindow <= 0 || cfg.BandLevels < 1 {
		c.logger.WithFields(map[string]interface{}{
			"symbol": series.Symbol,
			"window": cfg.BandWindow,
			"levels": cfg.BandLevels,
		}).Warn("Unusable band configuration")
		return nil
	}

	// 52-week high/low over the trailing window, clipped to whatever
	// history exists. A short series is degraded, not an error.
	n := series.Len()
	start := n - cfg.BandWindow
	if start < 0 {
		start = 0
		c.logger.WithError(contracts.ErrInsufficientHistory).WithFields(map[string]interface{}{
			"symbol": series.Symbol,
			"points": n,
			"window": cfg.BandWindow,
		}).Debug("Band window clipped to available history")
	}

	high := series.Points[start].High
	low := series.Points[start].Low
	for i := start + 1; i < n; i++ {
		if series.Points[i].High > high {
			high = series.Points[i].High
		}
		if series.Points[i].Low < low {
			low = series.Points[i].Low
		}
	}

	result := &contracts.SupportResistanceResult{
		Symbol:           series.Symbol,
		AsOf:             asOf,
		FiftyTwoWeekHigh: high,
		FiftyTwoWeekLow:  low,
	}

	if averages, err := MovingAverages(series, cfg.MAWindows); err == nil {
		result.MA20 = LatestMA(averages, 20)
		result.MA50 = LatestMA(averages, 50)
		result.MA200 = LatestMA(averages, 200)
	} else {
		c.logger.WithError(err).WithField("symbol", series.Symbol).Warn("Moving averages unavailable")
	}

	current := series.Last().Close

	// Interpolate levels evenly between the current price and each band
	// edge. The levels+1 divisor keeps every level strictly inside the
	// band and is relied on by downstream consumers; do not change it.
	resistance := make([]float64, 0, cfg.BandLevels)
	support := make([]float64, 0, cfg.BandLevels)
	for i := 1; i <= cfg.BandLevels; i++ {
		frac := float64(i) / float64(cfg.BandLevels+1)
		resistance = append(resistance, current+frac*(high-current))
		support = append(support, current-frac*(current-low))
	}

	// Nearest level first on both sides.
	sort.Float64s(resistance)
	sort.Sort(sort.Reverse(sort.Float64Slice(support)))

	result.Resistance = resistance
	result.Support = support

	c.logger.WithFields(map[string]interface{}{
		"symbol":   series.Symbol,
		"high_52w": high,
		"low_52w":  low,
		"current":  current,
	}).Debug("Calculated support/resistance bands")

	return result
}

// seriesSymbol is a nil-safe accessor for log fields.
func seriesSymbol(series *contracts.PriceSeries) string {
	if series == nil {
		return ""
	}
	return series.Symbol
}

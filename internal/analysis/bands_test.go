package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/logger"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		MAWindows:  []int{20, 50, 200},
		BandWindow: 252,
		BandLevels: 2,
		Horizons:   []int{1, 5},
	}
}

func TestBandCalculatorRisingSeries(t *testing.T) {
	// 300 daily points rising from 100 to 200.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := tradingDaySeries("RISE", start, 300, func(i int) float64 {
		return 100 + 100*float64(i)/299
	})

	calc := NewBandCalculator(logger.NewNop())
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	result := calc.Compute(context.Background(), series, testAnalysisConfig(), asOf)

	require.NotNil(t, result)
	assert.Equal(t, "RISE", result.Symbol)
	assert.Equal(t, asOf, result.AsOf)

	current := series.Last().Close

	// Resistance ascending, strictly between current price and the high.
	require.Len(t, result.Resistance, 2)
	assert.Less(t, result.Resistance[0], result.Resistance[1])
	for _, r := range result.Resistance {
		assert.Greater(t, r, current)
		assert.Less(t, r, result.FiftyTwoWeekHigh)
	}

	// Support descending, strictly between the low and current price.
	require.Len(t, result.Support, 2)
	assert.Greater(t, result.Support[0], result.Support[1])
	for _, s := range result.Support {
		assert.Less(t, s, current)
		assert.Greater(t, s, result.FiftyTwoWeekLow)
	}

	// All three MAs exist on a 300-point series.
	require.NotNil(t, result.MA20)
	require.NotNil(t, result.MA50)
	require.NotNil(t, result.MA200)

	// Rising series: short MA above long MA.
	assert.Greater(t, *result.MA20, *result.MA200)
}

func TestBandCalculatorLevelInterpolation(t *testing.T) {
	series := flatSeries("FLAT", 10, 100)
	// Widen the band so levels are distinguishable from the close.
	series.Points[0].High = 130
	series.Points[0].Low = 70

	calc := NewBandCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, testAnalysisConfig(), time.Now())

	require.NotNil(t, result)
	assert.InDelta(t, 130, result.FiftyTwoWeekHigh, 1e-9)
	assert.InDelta(t, 70, result.FiftyTwoWeekLow, 1e-9)

	// current=100, high=130, low=70, levels=2: thirds of each gap.
	assert.InDelta(t, 110, result.Resistance[0], 1e-9)
	assert.InDelta(t, 120, result.Resistance[1], 1e-9)
	assert.InDelta(t, 90, result.Support[0], 1e-9)
	assert.InDelta(t, 80, result.Support[1], 1e-9)
}

func TestBandCalculatorShortSeries(t *testing.T) {
	// Fewer points than the band window: the band clips to available
	// history instead of failing.
	series := flatSeries("SHORT", 30, 100)

	calc := NewBandCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, testAnalysisConfig(), time.Now())

	require.NotNil(t, result)
	assert.InDelta(t, 101, result.FiftyTwoWeekHigh, 1e-9)
	assert.InDelta(t, 99, result.FiftyTwoWeekLow, 1e-9)

	// MA20 computable, MA50/MA200 absent, not zero.
	assert.NotNil(t, result.MA20)
	assert.Nil(t, result.MA50)
	assert.Nil(t, result.MA200)
}

func TestBandCalculatorEmptySeries(t *testing.T) {
	calc := NewBandCalculator(logger.NewNop())

	result := calc.Compute(context.Background(), &contracts.PriceSeries{Symbol: "NONE"}, testAnalysisConfig(), time.Now())
	assert.Nil(t, result)
}

func TestBandCalculatorBadConfig(t *testing.T) {
	series := flatSeries("TEST", 10, 100)
	calc := NewBandCalculator(logger.NewNop())

	cfg := testAnalysisConfig()
	cfg.BandLevels = 0
	assert.Nil(t, calc.Compute(context.Background(), series, cfg, time.Now()))

	cfg = testAnalysisConfig()
	cfg.BandWindow = 0
	assert.Nil(t, calc.Compute(context.Background(), series, cfg, time.Now()))
}

func TestBandCalculatorIdempotent(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := tradingDaySeries("IDEM", start, 120, func(i int) float64 {
		return 50 + float64(i%7)
	})

	calc := NewBandCalculator(logger.NewNop())
	asOf := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	first := calc.Compute(context.Background(), series, testAnalysisConfig(), asOf)
	second := calc.Compute(context.Background(), series, testAnalysisConfig(), asOf)

	assert.Equal(t, first, second)
}

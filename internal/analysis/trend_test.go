package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
)

func floatPtr(v float64) *float64 { return &v }

func TestReturnWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, rw := range returnWeights {
		sum += rw.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestTrendCalculatorRisingSeries(t *testing.T) {
	// Scenario: 300 points rising from 100 to 200.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := tradingDaySeries("RISE", start, 300, func(i int) float64 {
		return 100 + 100*float64(i)/299
	})

	calc := NewTrendCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, nil, time.Now())

	require.NotNil(t, result)
	assert.Greater(t, result.PriceTrendScore, 0.0)

	// No earnings supplied: explicit zero fallback.
	assert.Equal(t, 0.0, result.EarningsTrendScore)
}

func TestTrendCalculatorCombinedScoreFormula(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := tradingDaySeries("MIX", start, 100, func(i int) float64 {
		return 80 + float64(i%11)
	})
	for i := range series.Points {
		series.Points[i].Volume = int64(1000 + i*10)
	}

	earnings := []contracts.EarningsEvent{
		{AnnouncementDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(4)},
		{AnnouncementDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(-2)},
	}

	calc := NewTrendCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, earnings, time.Now())
	require.NotNil(t, result)

	expected := 0.5*result.PriceTrendScore +
		0.3*result.VolumeTrendScore +
		0.2*result.EarningsTrendScore
	assert.InDelta(t, expected, result.CombinedScore, 1e-9)
}

func TestTrendCalculatorShortSeriesFallsBackToZero(t *testing.T) {
	// Only 3 points: every horizon beyond the series contributes 0, it
	// does not go absent. The 1-day return is still real.
	series := flatSeries("TINY", 3, 100)
	series.Points[2].Close = 110

	calc := NewTrendCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, nil, time.Now())
	require.NotNil(t, result)

	// 1d return = (110-100)/100 = 0.1, weight 0.30, times 100.
	assert.InDelta(t, 0.1*0.30*100, result.PriceTrendScore, 1e-9)
}

func TestTrendCalculatorVolumeScore(t *testing.T) {
	// 40 points: baseline is points 6..30 back, recent is the last 5.
	series := flatSeries("VOL", 40, 100)
	n := len(series.Points)
	for i := range series.Points {
		series.Points[i].Volume = 1000
	}
	for i := n - 5; i < n; i++ {
		series.Points[i].Volume = 2000
	}

	calc := NewTrendCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, nil, time.Now())
	require.NotNil(t, result)

	// recent mean 2000 vs baseline mean 1000 -> +100%.
	assert.InDelta(t, 100.0, result.VolumeTrendScore, 1e-9)
}

func TestTrendCalculatorZeroVolumeBaseline(t *testing.T) {
	// Scenario E: zero baseline volume must not divide by zero.
	series := flatSeries("ZVOL", 40, 100)
	for i := range series.Points {
		series.Points[i].Volume = 0
	}

	calc := NewTrendCalculator(logger.NewNop())
	result := calc.Compute(context.Background(), series, nil, time.Now())
	require.NotNil(t, result)
	assert.Equal(t, 0.0, result.VolumeTrendScore)
}

func TestTrendCalculatorEarningsScore(t *testing.T) {
	series := flatSeries("EARN", 40, 100)
	calc := NewTrendCalculator(logger.NewNop())

	// Four events out of order; only the three most recent count.
	earnings := []contracts.EarningsEvent{
		{AnnouncementDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(100)},
		{AnnouncementDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(6)},
		{AnnouncementDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(3)},
		{AnnouncementDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(9)},
	}

	result := calc.Compute(context.Background(), series, earnings, time.Now())
	require.NotNil(t, result)
	assert.InDelta(t, (6.0+3.0+9.0)/3.0, result.EarningsTrendScore, 1e-9)

	// Events without surprise data fall back to zero.
	noSurprise := []contracts.EarningsEvent{
		{AnnouncementDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
	result = calc.Compute(context.Background(), series, noSurprise, time.Now())
	require.NotNil(t, result)
	assert.Equal(t, 0.0, result.EarningsTrendScore)
}

func TestTrendCalculatorEmptySeries(t *testing.T) {
	calc := NewTrendCalculator(logger.NewNop())

	result := calc.Compute(context.Background(), &contracts.PriceSeries{Symbol: "NONE"}, nil, time.Now())
	assert.Nil(t, result)
}

func TestTrendCalculatorDoesNotMutateEarnings(t *testing.T) {
	series := flatSeries("PURE", 40, 100)
	earnings := []contracts.EarningsEvent{
		{AnnouncementDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(1)},
		{AnnouncementDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), SurprisePercent: floatPtr(2)},
	}
	first := earnings[0].AnnouncementDate

	calc := NewTrendCalculator(logger.NewNop())
	calc.Compute(context.Background(), series, earnings, time.Now())

	assert.Equal(t, first, earnings[0].AnnouncementDate)
}

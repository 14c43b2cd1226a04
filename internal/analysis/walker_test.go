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

// walkSeries is 20 trading days starting Mon 2025-01-06 with close 100+i.
func walkSeries() *contracts.PriceSeries {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	return tradingDaySeries("WALK", start, 20, func(i int) float64 {
		return 100 + float64(i)
	})
}

func event(ts time.Time, surprise *float64) contracts.EarningsEvent {
	return contracts.EarningsEvent{
		Symbol:           "WALK",
		AnnouncementDate: ts,
		SurprisePercent:  surprise,
	}
}

func TestWalkerSingleEvent(t *testing.T) {
	series := walkSeries()

	// Intraday announcement on a trading day (Tue 2025-01-14).
	announce := time.Date(2025, 1, 14, 10, 30, 0, 0, time.UTC)
	events := []contracts.EarningsEvent{event(announce, floatPtr(5))}

	walker := NewAlignmentWalker(logger.NewNop())
	result := walker.Compute(context.Background(), series, events, []int{1, 5}, time.Now())

	require.NotNil(t, result)
	require.Len(t, result.Events, 1)
	assert.Equal(t, 1, result.EventCount)

	reaction := result.Events[0]

	// Anchored to the announcement's own trading day: close 106.
	assert.Equal(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), reaction.AnchorDate)

	// +1 trading day: Wed 01-15, close 107.
	oneDay := reaction.ForwardReturns[1]
	require.NotNil(t, oneDay)
	assert.InDelta(t, (107.0-106.0)/106.0*100, *oneDay, 1e-9)

	// +5 trading days crosses the weekend: Tue 01-21, close 111.
	fiveDay := reaction.ForwardReturns[5]
	require.NotNil(t, fiveDay)
	assert.InDelta(t, (111.0-106.0)/106.0*100, *fiveDay, 1e-9)

	// A single resolved event: the aggregate mean is that value.
	stats := result.Horizons[1]
	require.NotNil(t, stats.MeanReturn)
	assert.InDelta(t, *oneDay, *stats.MeanReturn, 1e-9)

	// One event with surprise data is not enough for a correlation.
	assert.Nil(t, stats.SurpriseCorrelation)
}

func TestWalkerAnchorRollsPastWeekend(t *testing.T) {
	series := walkSeries()

	// Saturday announcement anchors to Monday 01-13.
	announce := time.Date(2025, 1, 11, 22, 0, 0, 0, time.UTC)
	events := []contracts.EarningsEvent{event(announce, nil)}

	walker := NewAlignmentWalker(logger.NewNop())
	result := walker.Compute(context.Background(), series, events, []int{1}, time.Now())

	require.NotNil(t, result)
	require.Len(t, result.Events, 1)
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), result.Events[0].AnchorDate)
}

func TestWalkerEventOutsideAnchorBound(t *testing.T) {
	// Series with a one-week hole: Jan 6-10 and Jan 20-24 only.
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	series := tradingDaySeries("GAP", start, 10, func(i int) float64 {
		return 100 + float64(i)
	})
	for i := 5; i < 10; i++ {
		series.Points[i].Date = series.Points[i].Date.AddDate(0, 0, 7)
	}

	// Announced Mon 01-13: days 13-16 all fall inside the hole, so the
	// event is dropped and contributes to no aggregate.
	announce := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	events := []contracts.EarningsEvent{event(announce, floatPtr(5))}

	walker := NewAlignmentWalker(logger.NewNop())
	result := walker.Compute(context.Background(), series, events, []int{1}, time.Now())

	require.NotNil(t, result)
	assert.Empty(t, result.Events)
	assert.Equal(t, 0, result.EventCount)
	assert.Nil(t, result.Horizons[1].MeanReturn)
}

func TestWalkerHorizonBeyondSeriesIsAbsent(t *testing.T) {
	series := walkSeries()

	// Announced on the last trading day: no forward days exist, so the
	// horizon stays absent rather than zero.
	announce := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
	events := []contracts.EarningsEvent{event(announce, floatPtr(2))}

	walker := NewAlignmentWalker(logger.NewNop())
	result := walker.Compute(context.Background(), series, events, []int{1, 5}, time.Now())

	require.NotNil(t, result)
	require.Len(t, result.Events, 1)

	assert.Nil(t, result.Events[0].ForwardReturns[1])
	assert.Nil(t, result.Events[0].ForwardReturns[5])
	assert.Nil(t, result.Horizons[1].MeanReturn)
}

func TestWalkerSurpriseSplitsAndCorrelation(t *testing.T) {
	series := walkSeries()

	// Two anchored events with opposite surprises. The rising series
	// gives the earlier event (cheaper close) the larger 1-day return,
	// so surprise and return are perfectly anti-correlated.
	// Anchors: close 106, close 101, close 111. The zero-surprise event
	// belongs to neither split.
	positive := event(time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC), floatPtr(5))
	negative := event(time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC), floatPtr(-5))
	zero := event(time.Date(2025, 1, 21, 10, 0, 0, 0, time.UTC), floatPtr(0))

	walker := NewAlignmentWalker(logger.NewNop())
	result := walker.Compute(context.Background(), series, []contracts.EarningsEvent{positive, negative, zero}, []int{1}, time.Now())

	require.NotNil(t, result)
	require.Len(t, result.Events, 3)

	stats := result.Horizons[1]

	require.NotNil(t, stats.MeanAfterPositiveSurprise)
	assert.InDelta(t, (107.0-106.0)/106.0*100, *stats.MeanAfterPositiveSurprise, 1e-9)

	require.NotNil(t, stats.MeanAfterNegativeSurprise)
	assert.InDelta(t, (102.0-101.0)/101.0*100, *stats.MeanAfterNegativeSurprise, 1e-9)

	// Overall mean covers all three events, zero surprise included.
	require.NotNil(t, stats.MeanReturn)
	require.NotNil(t, stats.SurpriseCorrelation)
}

func TestWalkerTwoEventCorrelationSign(t *testing.T) {
	series := walkSeries()

	events := []contracts.EarningsEvent{
		event(time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC), floatPtr(5)),
		event(time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC), floatPtr(-5)),
	}

	walker := NewAlignmentWalker(logger.NewNop())
	result := walker.Compute(context.Background(), series, events, []int{1}, time.Now())

	require.NotNil(t, result)
	corr := result.Horizons[1].SurpriseCorrelation
	require.NotNil(t, corr)
	assert.InDelta(t, -1.0, *corr, 1e-9)
}

func TestWalkerNoEvents(t *testing.T) {
	walker := NewAlignmentWalker(logger.NewNop())

	assert.Nil(t, walker.Compute(context.Background(), walkSeries(), nil, []int{1, 5}, time.Now()))
	assert.Nil(t, walker.Compute(context.Background(), &contracts.PriceSeries{}, []contracts.EarningsEvent{event(time.Now(), nil)}, []int{1}, time.Now()))
}

func TestWalkerDeterministic(t *testing.T) {
	series := walkSeries()
	events := []contracts.EarningsEvent{
		event(time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC), floatPtr(5)),
		event(time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC), floatPtr(-3)),
	}
	asOf := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	walker := NewAlignmentWalker(logger.NewNop())
	first := walker.Compute(context.Background(), series, events, []int{1, 5}, asOf)
	second := walker.Compute(context.Background(), series, events, []int{1, 5}, asOf)

	assert.Equal(t, first, second)

	// Input order must not matter.
	reversed := []contracts.EarningsEvent{events[1], events[0]}
	third := walker.Compute(context.Background(), series, reversed, []int{1, 5}, asOf)
	assert.Equal(t, first, third)
}

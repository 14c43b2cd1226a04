package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockscope/backend/internal/contracts"
)

// tradingDaySeries builds a series of n consecutive trading days starting
// at start (weekends skipped), with closes produced by closeAt.
func tradingDaySeries(symbol string, start time.Time, n int, closeAt func(i int) float64) *contracts.PriceSeries {
	series := &contracts.PriceSeries{Symbol: symbol}

	day := start
	for i := 0; i < n; {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			c := closeAt(i)
			series.Points = append(series.Points, contracts.PricePoint{
				Date:   day,
				Open:   c,
				High:   c * 1.01,
				Low:    c * 0.99,
				Close:  c,
				Volume: 1000,
			})
			i++
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func flatSeries(symbol string, n int, close float64) *contracts.PriceSeries {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	return tradingDaySeries(symbol, start, n, func(int) float64 { return close })
}

func TestMovingAverages(t *testing.T) {
	series := flatSeries("TEST", 10, 0)
	for i := range series.Points {
		series.Points[i].Close = float64(i + 1) // 1..10
	}

	averages, err := MovingAverages(series, []int{3})
	require.NoError(t, err)

	ma := averages[3]
	require.Len(t, ma, 10)

	// First w-1 values are undefined, not partial averages.
	assert.True(t, math.IsNaN(ma[0]))
	assert.True(t, math.IsNaN(ma[1]))

	// mean(1,2,3) = 2, mean(8,9,10) = 9
	assert.InDelta(t, 2.0, ma[2], 1e-9)
	assert.InDelta(t, 9.0, ma[9], 1e-9)
}

func TestMovingAveragesShorterThanWindow(t *testing.T) {
	series := flatSeries("TEST", 5, 100)

	averages, err := MovingAverages(series, []int{20})
	require.NoError(t, err)

	// Every index is absent when the series never reaches the window.
	for i, v := range averages[20] {
		assert.True(t, math.IsNaN(v), "index %d should be NaN", i)
	}
}

func TestMovingAveragesEmptySeries(t *testing.T) {
	series := &contracts.PriceSeries{Symbol: "TEST"}

	averages, err := MovingAverages(series, []int{20})
	require.ErrorIs(t, err, contracts.ErrNoData)
	assert.Nil(t, averages)
}

func TestMovingAveragesInvalidWindow(t *testing.T) {
	series := flatSeries("TEST", 5, 100)

	_, err := MovingAverages(series, []int{0})
	require.ErrorIs(t, err, contracts.ErrNoData)
}

func TestLatestMA(t *testing.T) {
	series := flatSeries("TEST", 30, 50)

	averages, err := MovingAverages(series, []int{20, 200})
	require.NoError(t, err)

	ma20 := LatestMA(averages, 20)
	require.NotNil(t, ma20)
	assert.InDelta(t, 50.0, *ma20, 1e-9)

	// Window longer than the series: latest value is absent.
	assert.Nil(t, LatestMA(averages, 200))

	// Window never computed.
	assert.Nil(t, LatestMA(averages, 50))
}

package batch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockscope/backend/internal/analysis"
	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/logger"
)

type memStocks struct {
	stocks []contracts.Stock
}

func (m *memStocks) List(_ context.Context, _ bool) ([]contracts.Stock, error) {
	return m.stocks, nil
}
func (m *memStocks) Get(_ context.Context, _ string) (*contracts.Stock, error) { return nil, nil }
func (m *memStocks) Upsert(_ context.Context, _ *contracts.Stock) error       { return nil }

type memPrices struct {
	series map[string]*contracts.PriceSeries
}

func (m *memPrices) GetHistory(_ context.Context, symbol string, _, _ time.Time) (*contracts.PriceSeries, error) {
	if s, ok := m.series[symbol]; ok {
		return s, nil
	}
	return &contracts.PriceSeries{Symbol: symbol}, nil
}
func (m *memPrices) SaveBatch(_ context.Context, _ string, _ []contracts.PricePoint) error {
	return nil
}

type memEarnings struct{}

func (m *memEarnings) GetBySymbol(_ context.Context, _ string) ([]contracts.EarningsEvent, error) {
	return nil, nil
}
func (m *memEarnings) SaveBatch(_ context.Context, _ []contracts.EarningsEvent) error { return nil }

type memResults struct {
	mu      sync.Mutex
	bundles []*contracts.AnalysisBundle
	failOn  string
}

func (m *memResults) SaveBundle(_ context.Context, bundle *contracts.AnalysisBundle) error {
	if bundle.Symbol == m.failOn {
		return fmt.Errorf("forced failure for %s", bundle.Symbol)
	}
	m.mu.Lock()
	m.bundles = append(m.bundles, bundle)
	m.mu.Unlock()
	return nil
}
func (m *memResults) LatestTrendScores(_ context.Context) ([]contracts.TrendScoreResult, error) {
	return nil, nil
}
func (m *memResults) LatestBundle(_ context.Context, _ string) (*contracts.AnalysisBundle, error) {
	return nil, nil
}

func testSeries(symbol string, n int) *contracts.PriceSeries {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	points := make([]contracts.PricePoint, 0, n)
	for len(points) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			price := 100.0 + float64(len(points))
			points = append(points, contracts.PricePoint{
				Date: day, Open: price, High: price, Low: price, Close: price, Volume: 1000,
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return &contracts.PriceSeries{Symbol: symbol, Points: points}
}

func testRunner(results *memResults, broker *Broker) *Runner {
	cfg := config.AnalysisConfig{
		MAWindows:  []int{20, 50, 200},
		BandWindow: 252,
		BandLevels: 2,
		Horizons:   []int{1, 5},
	}
	log := logger.NewNop()
	stocks := &memStocks{stocks: []contracts.Stock{
		{Symbol: "AAA", IsActive: true},
		{Symbol: "BBB", IsActive: true},
		{Symbol: "CCC", IsActive: true},
	}}
	prices := &memPrices{series: map[string]*contracts.PriceSeries{
		"AAA": testSeries("AAA", 60),
		"BBB": testSeries("BBB", 60),
		"CCC": testSeries("CCC", 60),
	}}
	return NewRunner(analysis.NewAnalyzer(cfg, log), stocks, prices, &memEarnings{}, results, broker, 2, 2, log)
}

func TestRunAllPersistsBundles(t *testing.T) {
	results := &memResults{}
	runner := testRunner(results, nil)

	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	summary, err := runner.RunAll(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, results.bundles, 3)

	for _, b := range results.bundles {
		assert.Equal(t, asOf, b.ComputedAt)
		assert.NotNil(t, b.Bands)
		assert.NotNil(t, b.Trend)
	}
}

func TestRunCountsPerSymbolFailures(t *testing.T) {
	results := &memResults{failOn: "BBB"}
	runner := testRunner(results, nil)

	summary, err := runner.Run(context.Background(), []string{"AAA", "BBB", "CCC"}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, results.bundles, 2)
}

func TestRunPublishesProgress(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	results := &memResults{}
	runner := testRunner(results, broker)

	_, err := runner.Run(context.Background(), []string{"AAA", "BBB"}, time.Now())
	require.NoError(t, err)

	var events []Progress
	for len(events) < 3 {
		select {
		case p := <-sub:
			events = append(events, p)
		case <-time.After(time.Second):
			t.Fatalf("expected 3 progress events, got %d", len(events))
		}
	}

	last := events[len(events)-1]
	assert.True(t, last.Done)
	assert.Equal(t, 2, last.Completed)
	assert.Equal(t, 2, last.Total)
}

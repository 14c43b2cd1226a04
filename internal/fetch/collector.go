package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/logger"
)

// Collector pulls market data through the client and persists it. It is
// the only writer for the stocks, price, and earnings tables.
type Collector struct {
	client       *Client
	stocks       contracts.StockRepository
	prices       contracts.PriceRepository
	earnings     contracts.EarningsRepository
	historyYears int
	logger       *logger.Logger
}

// NewCollector creates a new collector.
func NewCollector(
	client *Client,
	stocks contracts.StockRepository,
	prices contracts.PriceRepository,
	earnings contracts.EarningsRepository,
	cfg config.FetchConfig,
	log *logger.Logger,
) *Collector {
	return &Collector{
		client:       client,
		stocks:       stocks,
		prices:       prices,
		earnings:     earnings,
		historyYears: cfg.HistoryYears,
		logger:       log,
	}
}

// RefreshUniverse scrapes the constituent and trending lists and upserts
// every symbol into the stock table. Symbols already present keep their
// metadata; new ones start active.
func (c *Collector) RefreshUniverse(ctx context.Context) (int, error) {
	sp500, err := c.client.SP500Tickers(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh universe: %w", err)
	}

	trending, err := c.client.TrendingTickers(ctx)
	if err != nil {
		// Trending is best-effort; the constituent list alone is a
		// valid universe.
		c.logger.WithError(err).Warn("Trending tickers unavailable, continuing with constituents only")
	}

	seen := make(map[string]bool, len(sp500))
	symbols := make([]string, 0, len(sp500)+len(trending))
	for _, s := range append(sp500, trending...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}

	for _, symbol := range symbols {
		stock := &contracts.Stock{Symbol: symbol, IsActive: true}
		if err := c.stocks.Upsert(ctx, stock); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", symbol, err)
		}
	}

	c.logger.WithField("count", len(symbols)).Info("Universe refreshed")
	return len(symbols), nil
}

// CollectSymbol fetches and stores price history and earnings for one
// symbol. Failures on earnings do not discard the price data already
// saved.
func (c *Collector) CollectSymbol(ctx context.Context, symbol string, asOf time.Time) error {
	from := asOf.AddDate(-c.historyYears, 0, 0)

	points, err := c.client.FetchDailyHistory(ctx, symbol, from, asOf)
	if err != nil {
		return fmt.Errorf("collect %s history: %w", symbol, err)
	}
	if err := c.prices.SaveBatch(ctx, symbol, points); err != nil {
		return fmt.Errorf("save %s history: %w", symbol, err)
	}

	events, err := c.client.FetchEarnings(ctx, symbol)
	if err != nil {
		return fmt.Errorf("collect %s earnings: %w", symbol, err)
	}
	if err := c.earnings.SaveBatch(ctx, events); err != nil {
		return fmt.Errorf("save %s earnings: %w", symbol, err)
	}

	return nil
}

// CollectAll collects every active symbol sequentially. The shared rate
// limiter already serializes requests, so there is nothing to gain from
// fanning out here.
func (c *Collector) CollectAll(ctx context.Context, asOf time.Time) error {
	stocks, err := c.stocks.List(ctx, true)
	if err != nil {
		return fmt.Errorf("list active stocks: %w", err)
	}

	var failed int
	for _, stock := range stocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.CollectSymbol(ctx, stock.Symbol, asOf); err != nil {
			failed++
			c.logger.WithError(err).WithField("symbol", stock.Symbol).Warn("Collection failed for symbol")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"total":  len(stocks),
		"failed": failed,
	}).Info("Collection run completed")

	if failed == len(stocks) && len(stocks) > 0 {
		return fmt.Errorf("collection failed for all %d symbols", len(stocks))
	}
	return nil
}

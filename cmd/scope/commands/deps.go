package commands

import (
	"fmt"

	"github.com/stockscope/backend/internal/analysis"
	"github.com/stockscope/backend/internal/batch"
	"github.com/stockscope/backend/internal/fetch"
	"github.com/stockscope/backend/internal/ranking"
	"github.com/stockscope/backend/internal/storage"
	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/database"
	"github.com/stockscope/backend/pkg/logger"
	"github.com/stockscope/backend/pkg/redis"
)

// app holds the wired dependency graph shared by every command.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	redis  *redis.Client
	cache  *redis.Cache
	stocks *storage.StockRepository
	prices *storage.PriceRepository
	events *storage.EarningsRepository
	result *storage.AnalysisRepository

	client    *fetch.Client
	collector *fetch.Collector
	analyzer  *analysis.Analyzer
	broker    *batch.Broker
	runner    *batch.Runner
	ranker    *ranking.Ranker
}

// newApp loads config and wires the full dependency graph.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		redis:  redisClient,
		cache:  redis.NewCache(redisClient, "stockscope"),
		stocks: storage.NewStockRepository(db.Pool),
		prices: storage.NewPriceRepository(db.Pool),
		events: storage.NewEarningsRepository(db.Pool),
		result: storage.NewAnalysisRepository(db.Pool),
	}

	a.client = fetch.NewClient(cfg.Fetch, log)
	a.collector = fetch.NewCollector(a.client, a.stocks, a.prices, a.events, cfg.Fetch, log)
	a.analyzer = analysis.NewAnalyzer(cfg.Analysis, log)
	a.broker = batch.NewBroker()
	a.runner = batch.NewRunner(a.analyzer, a.stocks, a.prices, a.events, a.result, a.broker, 0, cfg.Fetch.HistoryYears, log)
	a.ranker = ranking.NewRanker(log)

	return a, nil
}

// close releases connections in reverse order of acquisition.
func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

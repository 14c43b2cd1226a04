package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockscope/backend/internal/contracts"
)

// StockRepository implements contracts.StockRepository over PostgreSQL.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new stock repository.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// List returns tracked stocks, optionally active ones only.
func (r *StockRepository) List(ctx context.Context, activeOnly bool) ([]contracts.Stock, error) {
	query := `
		SELECT symbol, company_name, sector, industry, country, market_cap, is_active, last_updated
		FROM stocks
	`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY symbol`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []contracts.Stock
	for rows.Next() {
		var s contracts.Stock
		if err := rows.Scan(&s.Symbol, &s.CompanyName, &s.Sector, &s.Industry, &s.Country, &s.MarketCap, &s.IsActive, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// Get returns one stock by symbol, or nil when unknown.
func (r *StockRepository) Get(ctx context.Context, symbol string) (*contracts.Stock, error) {
	query := `
		SELECT symbol, company_name, sector, industry, country, market_cap, is_active, last_updated
		FROM stocks
		WHERE symbol = $1
	`

	var s contracts.Stock
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&s.Symbol, &s.CompanyName, &s.Sector, &s.Industry, &s.Country, &s.MarketCap, &s.IsActive, &s.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert inserts or refreshes one stock row. Empty metadata never
// clobbers values already on file; universe refreshes only carry the
// symbol.
func (r *StockRepository) Upsert(ctx context.Context, stock *contracts.Stock) error {
	query := `
		INSERT INTO stocks (symbol, company_name, sector, industry, country, market_cap, is_active, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			company_name = COALESCE(NULLIF(EXCLUDED.company_name, ''), stocks.company_name),
			sector = COALESCE(NULLIF(EXCLUDED.sector, ''), stocks.sector),
			industry = COALESCE(NULLIF(EXCLUDED.industry, ''), stocks.industry),
			country = COALESCE(NULLIF(EXCLUDED.country, ''), stocks.country),
			market_cap = CASE WHEN EXCLUDED.market_cap > 0 THEN EXCLUDED.market_cap ELSE stocks.market_cap END,
			is_active = EXCLUDED.is_active,
			last_updated = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		stock.Symbol, stock.CompanyName, stock.Sector, stock.Industry, stock.Country, stock.MarketCap, stock.IsActive,
	)
	return err
}

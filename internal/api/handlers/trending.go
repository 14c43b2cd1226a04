package handlers

import (
	"net/http"
	"time"

	"github.com/stockscope/backend/internal/fetch"
	"github.com/stockscope/backend/pkg/logger"
	"github.com/stockscope/backend/pkg/redis"
)

const trendingCacheTTL = 5 * time.Minute

// TrendingHandler serves the live most-active list.
type TrendingHandler struct {
	client *fetch.Client
	cache  *redis.Cache
	logger *logger.Logger
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(client *fetch.Client, cache *redis.Cache, log *logger.Logger) *TrendingHandler {
	return &TrendingHandler{client: client, cache: cache, logger: log}
}

// GetTrending returns the current most-active tickers. The upstream
// scrape is cached briefly so the page does not get hammered.
// GET /api/trending
func (h *TrendingHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var tickers []string
	if hit, err := h.cache.Get(ctx, "trending", &tickers); err == nil && hit {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"count":   len(tickers),
			"tickers": tickers,
		})
		return
	}

	tickers, err := h.client.TrendingTickers(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch trending tickers")
		respondError(w, http.StatusBadGateway, "Trending source unavailable")
		return
	}

	if err := h.cache.Set(ctx, "trending", tickers, trendingCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Trending cache write failed")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(tickers),
		"tickers": tickers,
	})
}

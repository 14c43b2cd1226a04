package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/pkg/logger"
	"github.com/stockscope/backend/pkg/redis"
)

// StockHandler serves the instrument universe and per-symbol analysis
// bundles.
type StockHandler struct {
	stocks   contracts.StockRepository
	analysis contracts.AnalysisRepository
	cache    *redis.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(
	stocks contracts.StockRepository,
	analysis contracts.AnalysisRepository,
	cache *redis.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *StockHandler {
	return &StockHandler{
		stocks:   stocks,
		analysis: analysis,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// List returns the tracked universe.
// GET /api/stocks?active=true
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activeOnly := r.URL.Query().Get("active") != "false"

	stocks, err := h.stocks.List(ctx, activeOnly)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list stocks")
		respondError(w, http.StatusInternalServerError, "Failed to list stocks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(stocks),
		"stocks": stocks,
	})
}

// Get returns the latest analysis bundle for one symbol. Bundles are
// cached until the next analysis run replaces them.
// GET /api/stocks/{ticker}
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	cacheKey := fmt.Sprintf("bundle:%s", ticker)
	var cached contracts.AnalysisBundle
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, &cached)
		return
	}

	stock, err := h.stocks.Get(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", ticker).Error("Failed to load stock")
		respondError(w, http.StatusInternalServerError, "Failed to load stock")
		return
	}
	if stock == nil {
		respondError(w, http.StatusNotFound, "Unknown ticker: "+ticker)
		return
	}

	bundle, err := h.analysis.LatestBundle(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", ticker).Error("Failed to load bundle")
		respondError(w, http.StatusInternalServerError, "Failed to load analysis")
		return
	}
	if bundle == nil {
		respondError(w, http.StatusNotFound, "No analysis available for "+ticker)
		return
	}

	if err := h.cache.Set(ctx, cacheKey, bundle, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Bundle cache write failed")
	}

	respondJSON(w, http.StatusOK, bundle)
}

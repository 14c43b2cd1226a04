package handlers

import (
	"net/http"
	"strconv"

	"github.com/stockscope/backend/internal/contracts"
	"github.com/stockscope/backend/internal/ranking"
	"github.com/stockscope/backend/pkg/logger"
)

const defaultRankingLimit = 50

// RankingHandler serves the ranked view of the latest trend scores.
type RankingHandler struct {
	analysis contracts.AnalysisRepository
	ranker   *ranking.Ranker
	logger   *logger.Logger
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(analysis contracts.AnalysisRepository, ranker *ranking.Ranker, log *logger.Logger) *RankingHandler {
	return &RankingHandler{analysis: analysis, ranker: ranker, logger: log}
}

// GetRankings ranks every instrument's most recent trend score.
// GET /api/rankings?limit=50
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultRankingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	scores, err := h.analysis.LatestTrendScores(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load trend scores")
		respondError(w, http.StatusInternalServerError, "Failed to load rankings")
		return
	}

	ranked := ranking.Top(h.ranker.Rank(ctx, scores), limit)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(ranked),
		"rankings": ranked,
	})
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockscope/backend/internal/api/handlers"
	"github.com/stockscope/backend/pkg/logger"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Stocks   *handlers.StockHandler
	Rankings *handlers.RankingHandler
	Trending *handlers.TrendingHandler
	Runs     *handlers.RunHandler
}

// NewRouter creates and configures the HTTP router.
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", healthzHandler).Methods("GET")
	r.HandleFunc("/ws/runs", h.Runs.Stream).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stocks", h.Stocks.List).Methods("GET")
	api.HandleFunc("/stocks/{ticker}", h.Stocks.Get).Methods("GET")
	api.HandleFunc("/rankings", h.Rankings.GetRankings).Methods("GET")
	api.HandleFunc("/trending", h.Trending.GetTrending).Methods("GET")
	api.HandleFunc("/runs", h.Runs.Trigger).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthzHandler reports liveness.
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stockscope-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from handler panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

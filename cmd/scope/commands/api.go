package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockscope/backend/internal/api"
	"github.com/stockscope/backend/internal/api/handlers"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /healthz              - Health check
  GET  /api/stocks           - Tracked universe
  GET  /api/stocks/{ticker}  - Latest analysis bundle for one symbol
  GET  /api/rankings         - Ranked trend scores
  GET  /api/trending         - Live most-active tickers
  POST /api/runs             - Trigger an analysis run
  GET  /ws/runs              - Run progress stream (websocket)

Example:
  go run ./cmd/scope api
  go run ./cmd/scope api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	h := api.Handlers{
		Stocks:   handlers.NewStockHandler(a.stocks, a.result, a.cache, a.cfg.Redis.CacheTTL, a.log),
		Rankings: handlers.NewRankingHandler(a.result, a.ranker, a.log),
		Trending: handlers.NewTrendingHandler(a.client, a.cache, a.log),
		Runs:     handlers.NewRunHandler(a.runner, a.broker, a.log),
	}

	router := api.NewRouter(h, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

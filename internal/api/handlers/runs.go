package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stockscope/backend/internal/batch"
	"github.com/stockscope/backend/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// RunHandler triggers analysis runs and streams their progress over
// websocket.
type RunHandler struct {
	runner   *batch.Runner
	broker   *batch.Broker
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewRunHandler creates a new run handler.
func NewRunHandler(runner *batch.Runner, broker *batch.Broker, log *logger.Logger) *RunHandler {
	return &RunHandler{
		runner: runner,
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// Trigger starts an analysis run over the active universe in the
// background and returns immediately. Progress flows to /ws/runs.
// POST /api/runs
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	go func() {
		if _, err := h.runner.RunAll(context.Background(), time.Now().UTC()); err != nil {
			h.logger.WithError(err).Error("Triggered analysis run failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
	})
}

// Stream upgrades to websocket and forwards run progress events until
// the client disconnects.
// GET /ws/runs
func (h *RunHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.broker.Subscribe()
	defer h.broker.Unsubscribe(sub)

	// Drain reads so close frames and pongs are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/mebelpos/mebelpos/internal/platform/httpx"
)

// Handler exposes queue introspection for operators.
type Handler struct {
	logger    *slog.Logger
	inspector *asynq.Inspector
}

// NewHandler builds a Handler backed by an asynq inspector.
func NewHandler(logger *slog.Logger, redisAddr string) *Handler {
	return &Handler{
		logger:    logger,
		inspector: asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

// MountRoutes registers job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/queues", h.queues)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.inspector.Queues(); err != nil {
		h.logger.Error("queue health check failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "queue backend unreachable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) queues(w http.ResponseWriter, r *http.Request) {
	names, err := h.inspector.Queues()
	if err != nil {
		h.logger.Error("list queues failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "queue backend unreachable")
		return
	}

	stats := make([]*asynq.QueueInfo, 0, len(names))
	for _, name := range names {
		info, err := h.inspector.GetQueueInfo(name)
		if err != nil {
			continue
		}
		stats = append(stats, info)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"queues": stats})
}

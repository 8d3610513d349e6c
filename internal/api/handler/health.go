package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler exposes Kubernetes-style liveness and readiness endpoints.
type HealthHandler struct {
	ledger *pgxpool.Pool
	legacy *pgxpool.Pool
	redis  redis.Cmdable
}

func NewHealthHandler(ledger, legacy *pgxpool.Pool, redis redis.Cmdable) *HealthHandler {
	return &HealthHandler{ledger: ledger, legacy: legacy, redis: redis}
}

// Live always reports OK – if the process is up, it's live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready checks both database pools and Redis when configured.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := h.ledger.Ping(ctx); err != nil {
		RespondError(w, r, http.StatusServiceUnavailable, "health/ledger-db", "ledger database unavailable")
		return
	}

	if err := h.legacy.Ping(ctx); err != nil {
		RespondError(w, r, http.StatusServiceUnavailable, "health/legacy-db", "legacy database unavailable")
		return
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			RespondError(w, r, http.StatusServiceUnavailable, "health/redis", "redis unavailable")
			return
		}
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

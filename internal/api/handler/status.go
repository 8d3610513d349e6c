package handler

import (
	"net/http"

	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/ayo6706/ledger-migration/internal/worker"
	"go.uber.org/zap"
)

type StatusHandler struct {
	worker *worker.MigrationWorker
	store  models.LedgerStore
}

func NewStatusHandler(w *worker.MigrationWorker, store models.LedgerStore) *StatusHandler {
	return &StatusHandler{worker: w, store: store}
}

type statusResponse struct {
	State         string `json:"state"`
	HighWaterMark *int64 `json:"high_water_mark,omitempty"`
}

// Status reports the driver state and the lowest legacy id already migrated.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{State: h.worker.State().String()}

	mark, ok, err := h.store.MinLegacyTransactionID(r.Context())
	if err != nil {
		zap.L().Error("high-water mark read failed", zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "migration/status-read-failed", "Failed to read migration progress")
		return
	}
	if ok {
		resp.HighWaterMark = &mark
	}

	RespondJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/interfaces"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	store   interfaces.SnapshotStore
	refresh interfaces.RefreshService
	logger  arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(store interfaces.SnapshotStore, refresh interfaces.RefreshService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		store:   store,
		refresh: refresh,
		logger:  logger,
	}
}

// GetStatusHandler handles GET /. It always succeeds: with a snapshot it
// reports the data summary, without one it reports that the first load is
// still pending.
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snap, _ := h.store.Read()
	if snap == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "running",
			"message": "Waiting for data to load...",
			"refresh": h.refresh.Status(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"message":   "Order assistant is active",
		"data_info": snap.Info(),
		"refresh":   h.refresh.Status(),
	})
}

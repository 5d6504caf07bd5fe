package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/interfaces"
)

// RefreshHandler handles manual data refresh requests
type RefreshHandler struct {
	refresh interfaces.RefreshService
	logger  arbor.ILogger
}

// NewRefreshHandler creates a new RefreshHandler
func NewRefreshHandler(refresh interfaces.RefreshService, logger arbor.ILogger) *RefreshHandler {
	return &RefreshHandler{
		refresh: refresh,
		logger:  logger,
	}
}

// TriggerRefreshHandler handles POST /refresh-data. The cycle runs out of
// band; the response returns immediately without waiting for it.
func (h *RefreshHandler) TriggerRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.refresh.TriggerNow()

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Data refresh started in background",
	})
}

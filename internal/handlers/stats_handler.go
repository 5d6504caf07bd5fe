package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/interfaces"
	"github.com/ternarybob/ordo/internal/models"
)

// StatsHandler reports snapshot statistics
type StatsHandler struct {
	store  interfaces.SnapshotStore
	logger arbor.ILogger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(store interfaces.SnapshotStore, logger arbor.ILogger) *StatsHandler {
	return &StatsHandler{
		store:  store,
		logger: logger,
	}
}

// GetStatsHandler handles GET /data-stats. Reports count, last-updated time
// and one sample record, or an explicit no-data message when the snapshot
// is absent.
func (h *StatsHandler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snap, _ := h.store.Read()
	if snap == nil {
		WriteJSON(w, http.StatusOK, map[string]string{
			"message": "No data available",
		})
		return
	}

	var sample models.OrderRecord
	if len(snap.Orders) > 0 {
		sample = snap.Orders[0]
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total_orders": snap.TotalOrders,
		"last_updated": snap.LastUpdated,
		"sample_order": sample,
	})
}

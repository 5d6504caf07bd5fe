package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/interfaces"
	"github.com/ternarybob/ordo/internal/models"
)

// QueryRequest is the POST /query request body
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the POST /query response body
type QueryResponse struct {
	Answer    string          `json:"answer"`
	DataInfo  models.DataInfo `json:"data_info"`
	Timestamp string          `json:"timestamp"`
}

// QueryHandler handles question-answering HTTP requests
type QueryHandler struct {
	store     interfaces.SnapshotStore
	responder interfaces.AnswerService
	logger    arbor.ILogger
}

// NewQueryHandler creates a new QueryHandler
func NewQueryHandler(store interfaces.SnapshotStore, responder interfaces.AnswerService, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		store:     store,
		responder: responder,
		logger:    logger,
	}
}

// QueryOrdersHandler handles POST /query. Requires a snapshot to exist;
// responds 503 before the first successful refresh, 400 on malformed input.
func (h *QueryHandler) QueryOrdersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode query request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "Query field is required")
		return
	}

	snap, err := h.store.Read()
	if err != nil {
		h.logger.Error().Err(err).Msg("Snapshot read failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if snap == nil {
		WriteError(w, http.StatusServiceUnavailable, "Data not loaded yet. Please try again.")
		return
	}

	h.logger.Info().
		Int("query_length", len(req.Query)).
		Int("total_orders", snap.TotalOrders).
		Msg("Processing query")

	answer := h.responder.Answer(r.Context(), req.Query, snap)

	WriteJSON(w, http.StatusOK, QueryResponse{
		Answer:    answer,
		DataInfo:  snap.Info(),
		Timestamp: models.FormatTimestamp(time.Now()),
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/ordo/internal/common"
	"github.com/ternarybob/ordo/internal/interfaces"
	"github.com/ternarybob/ordo/internal/models"
)

// mockStore implements interfaces.SnapshotStore for testing
type mockStore struct {
	readFunc func() (*models.Snapshot, error)
}

func (m *mockStore) Write(orders []models.OrderRecord) error { return nil }

func (m *mockStore) Read() (*models.Snapshot, error) {
	if m.readFunc != nil {
		return m.readFunc()
	}
	return nil, nil
}

// mockRefresh implements interfaces.RefreshService for testing
type mockRefresh struct {
	triggered int
}

func (m *mockRefresh) RunCycle() error { return nil }
func (m *mockRefresh) Start() error    { return nil }
func (m *mockRefresh) Stop() error     { return nil }
func (m *mockRefresh) TriggerNow()     { m.triggered++ }
func (m *mockRefresh) Status() interfaces.RefreshStatus {
	return interfaces.RefreshStatus{Running: true, Interval: "5m0s"}
}

// mockResponder implements interfaces.AnswerService for testing
type mockResponder struct {
	answerFunc func(ctx context.Context, query string, snapshot *models.Snapshot) string
}

func (m *mockResponder) Answer(ctx context.Context, query string, snapshot *models.Snapshot) string {
	if m.answerFunc != nil {
		return m.answerFunc(ctx, query, snapshot)
	}
	return "answer"
}

func testSnapshot(n int) *models.Snapshot {
	orders := make([]models.OrderRecord, n)
	for i := range orders {
		orders[i] = models.OrderRecord{"id": float64(i + 1), "customer": "Ali", "amount": 120.5}
	}
	return &models.Snapshot{
		Orders:      orders,
		LastUpdated: "2024-03-07 14:05:09",
		TotalOrders: n,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ---- Status handler ----

func TestStatusHandler_WithSnapshot(t *testing.T) {
	store := &mockStore{readFunc: func() (*models.Snapshot, error) {
		return testSnapshot(3), nil
	}}
	handler := NewStatusHandler(store, &mockRefresh{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.GetStatusHandler(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "running", body["status"])

	dataInfo := body["data_info"].(map[string]interface{})
	assert.Equal(t, float64(3), dataInfo["total_orders"])
	assert.Equal(t, "2024-03-07 14:05:09", dataInfo["last_updated"])
}

func TestStatusHandler_WithoutSnapshot(t *testing.T) {
	handler := NewStatusHandler(&mockStore{}, &mockRefresh{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.GetStatusHandler(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "Waiting for data to load...", body["message"])
	assert.NotContains(t, body, "data_info")
}

func TestStatusHandler_RejectsPost(t *testing.T) {
	handler := NewStatusHandler(&mockStore{}, &mockRefresh{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.GetStatusHandler(rec, httptest.NewRequest("POST", "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ---- Query handler ----

func TestQueryHandler_Success(t *testing.T) {
	store := &mockStore{readFunc: func() (*models.Snapshot, error) {
		return testSnapshot(3), nil
	}}
	responder := &mockResponder{
		answerFunc: func(ctx context.Context, query string, snapshot *models.Snapshot) string {
			assert.Equal(t, "how many orders?", query)
			assert.Equal(t, 3, snapshot.TotalOrders)
			return "You have 3 orders."
		},
	}
	handler := NewQueryHandler(store, responder, common.GetLogger())

	req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"query":"how many orders?"}`))
	rec := httptest.NewRecorder()
	handler.QueryOrdersHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "You have 3 orders.", body["answer"])
	assert.NotEmpty(t, body["timestamp"])

	dataInfo := body["data_info"].(map[string]interface{})
	assert.Equal(t, float64(3), dataInfo["total_orders"])
}

func TestQueryHandler_NotReadyBeforeFirstRefresh(t *testing.T) {
	handler := NewQueryHandler(&mockStore{}, &mockResponder{}, common.GetLogger())

	req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"query":"anything"}`))
	rec := httptest.NewRecorder()
	handler.QueryOrdersHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Data not loaded yet")
}

func TestQueryHandler_InvalidBody(t *testing.T) {
	handler := NewQueryHandler(&mockStore{}, &mockResponder{}, common.GetLogger())

	req := httptest.NewRequest("POST", "/query", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler.QueryOrdersHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandler_EmptyQuery(t *testing.T) {
	handler := NewQueryHandler(&mockStore{}, &mockResponder{}, common.GetLogger())

	req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()
	handler.QueryOrdersHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandler_RejectsGet(t *testing.T) {
	handler := NewQueryHandler(&mockStore{}, &mockResponder{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.QueryOrdersHandler(rec, httptest.NewRequest("GET", "/query", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ---- Refresh handler ----

func TestRefreshHandler_ReturnsImmediately(t *testing.T) {
	refresh := &mockRefresh{}
	handler := NewRefreshHandler(refresh, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.TriggerRefreshHandler(rec, httptest.NewRequest("POST", "/refresh-data", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Data refresh started in background", body["message"])
	assert.Equal(t, 1, refresh.triggered)
}

func TestRefreshHandler_RejectsGet(t *testing.T) {
	handler := NewRefreshHandler(&mockRefresh{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.TriggerRefreshHandler(rec, httptest.NewRequest("GET", "/refresh-data", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ---- Stats handler ----

func TestStatsHandler_WithOrders(t *testing.T) {
	store := &mockStore{readFunc: func() (*models.Snapshot, error) {
		return testSnapshot(3), nil
	}}
	handler := NewStatsHandler(store, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.GetStatsHandler(rec, httptest.NewRequest("GET", "/data-stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["total_orders"])
	assert.Equal(t, "2024-03-07 14:05:09", body["last_updated"])

	sample := body["sample_order"].(map[string]interface{})
	assert.Equal(t, float64(1), sample["id"])
	assert.Equal(t, "Ali", sample["customer"])
}

func TestStatsHandler_EmptySnapshot(t *testing.T) {
	store := &mockStore{readFunc: func() (*models.Snapshot, error) {
		return testSnapshot(0), nil
	}}
	handler := NewStatsHandler(store, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.GetStatsHandler(rec, httptest.NewRequest("GET", "/data-stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["total_orders"])
	assert.Nil(t, body["sample_order"])
}

func TestStatsHandler_NoData(t *testing.T) {
	handler := NewStatsHandler(&mockStore{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.GetStatsHandler(rec, httptest.NewRequest("GET", "/data-stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "No data available", body["message"])
	assert.NotContains(t, body, "total_orders")
}

// ---- System API handler ----

func TestAPIHandler_Health(t *testing.T) {
	handler := NewAPIHandler(common.GetLogger())

	rec := httptest.NewRecorder()
	handler.HealthHandler(rec, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestAPIHandler_Version(t *testing.T) {
	handler := NewAPIHandler(common.GetLogger())

	rec := httptest.NewRecorder()
	handler.VersionHandler(rec, httptest.NewRequest("GET", "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["version"])
}

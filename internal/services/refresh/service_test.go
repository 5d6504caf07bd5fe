package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/ordo/internal/common"
	"github.com/ternarybob/ordo/internal/models"
)

// mockSource implements interfaces.OrderSource for testing
type mockSource struct {
	fetchFunc func(ctx context.Context) ([]models.OrderRecord, error)
}

func (m *mockSource) FetchAll(ctx context.Context) ([]models.OrderRecord, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	return []models.OrderRecord{}, nil
}

func (m *mockSource) Ping(ctx context.Context) error { return nil }
func (m *mockSource) Close() error                   { return nil }

// mockStore implements interfaces.SnapshotStore for testing
type mockStore struct {
	mu        sync.Mutex
	snapshot  *models.Snapshot
	writeErr  error
	writes    int
	lastWrite []models.OrderRecord
}

func (m *mockStore) Write(orders []models.OrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.lastWrite = orders
	m.snapshot = models.NewSnapshot(orders)
	return nil
}

func (m *mockStore) Read() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *mockStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func TestRunCycle_WritesFetchedOrders(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) ([]models.OrderRecord, error) {
			return []models.OrderRecord{
				{"id": 1, "customer": "Ali", "amount": 120.5},
				{"id": 2, "customer": "Sara", "amount": 80.0},
				{"id": 3, "customer": "Bilal", "amount": 44.0},
			}, nil
		},
	}
	store := &mockStore{}
	svc := NewService(source, store, 5*time.Minute, common.GetLogger())

	require.NoError(t, svc.RunCycle())

	snap, _ := store.Read()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.TotalOrders)

	status := svc.Status()
	assert.Equal(t, int64(1), status.Cycles)
	assert.Empty(t, status.LastError)
	assert.NotNil(t, status.LastRun)
}

func TestRunCycle_FetchFailureKeepsPriorSnapshot(t *testing.T) {
	store := &mockStore{}
	require.NoError(t, store.Write([]models.OrderRecord{{"id": 1}}))
	before, _ := store.Read()

	source := &mockSource{
		fetchFunc: func(ctx context.Context) ([]models.OrderRecord, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(source, store, 5*time.Minute, common.GetLogger())

	err := svc.RunCycle()
	assert.Error(t, err)

	after, _ := store.Read()
	assert.Equal(t, before, after, "failed cycle must leave the prior snapshot in place")

	status := svc.Status()
	assert.Contains(t, status.LastError, "connection refused")
}

func TestRunCycle_WriteFailureReported(t *testing.T) {
	source := &mockSource{}
	store := &mockStore{writeErr: errors.New("disk full")}
	svc := NewService(source, store, 5*time.Minute, common.GetLogger())

	err := svc.RunCycle()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot write failed")
}

func TestTriggerNow_RunsCycleOutOfBand(t *testing.T) {
	done := make(chan struct{})
	source := &mockSource{
		fetchFunc: func(ctx context.Context) ([]models.OrderRecord, error) {
			defer close(done)
			return []models.OrderRecord{{"id": 1}}, nil
		},
	}
	store := &mockStore{}
	svc := NewService(source, store, 5*time.Minute, common.GetLogger())

	svc.TriggerNow()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manual refresh cycle did not run")
	}

	assert.Eventually(t, func() bool {
		return store.writeCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartStop(t *testing.T) {
	svc := NewService(&mockSource{}, &mockStore{}, time.Hour, common.GetLogger())

	require.NoError(t, svc.Start())
	assert.True(t, svc.Status().Running)

	// Double start is rejected
	assert.Error(t, svc.Start())

	require.NoError(t, svc.Stop())
	assert.False(t, svc.Status().Running)

	// Stopping twice is a no-op
	assert.NoError(t, svc.Stop())
}

func TestRunCycle_RepeatedFailuresKeepCounting(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) ([]models.OrderRecord, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := NewService(source, &mockStore{}, 5*time.Minute, common.GetLogger())

	for i := 0; i < 3; i++ {
		assert.Error(t, svc.RunCycle())
	}

	status := svc.Status()
	assert.Equal(t, int64(3), status.Cycles)
	assert.Contains(t, status.LastError, "timeout")
}

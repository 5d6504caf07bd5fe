package interfaces

import (
	"context"

	"github.com/ternarybob/ordo/internal/models"
)

// OrderSource fetches order rows from the external relational database.
// Implementations report connection and query problems as errors; callers
// are expected to tolerate a failed fetch and keep serving the last good
// snapshot.
type OrderSource interface {
	// FetchAll executes the fixed table query and returns every row as a
	// column-name-to-value mapping with timestamps normalized to the
	// service-wide fixed format.
	FetchAll(ctx context.Context) ([]models.OrderRecord, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}

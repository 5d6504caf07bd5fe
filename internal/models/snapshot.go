package models

import "time"

// TimestampFormat is the fixed format for every timestamp the service
// persists or returns: snapshot metadata, normalized row values, and
// query response stamps.
const TimestampFormat = "2006-01-02 15:04:05"

// OrderRecord is one row from the source table, keyed by column name.
// The source schema is not controlled by this service, so no fixed
// structure is enforced; values are strings, numbers, bools, or
// timestamps already rendered in TimestampFormat.
type OrderRecord map[string]interface{}

// Snapshot is the full cached copy of the source table plus refresh
// metadata. It is replaced wholesale on every refresh cycle.
type Snapshot struct {
	Orders      []OrderRecord `json:"orders"`
	LastUpdated string        `json:"last_updated"`
	TotalOrders int           `json:"total_orders"`
}

// NewSnapshot builds a snapshot stamped with the current time.
// TotalOrders always equals len(orders).
func NewSnapshot(orders []OrderRecord) *Snapshot {
	if orders == nil {
		orders = []OrderRecord{}
	}
	return &Snapshot{
		Orders:      orders,
		LastUpdated: FormatTimestamp(time.Now()),
		TotalOrders: len(orders),
	}
}

// FormatTimestamp renders t in the service-wide fixed format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}

// DataInfo is the snapshot metadata echoed on status and query responses.
type DataInfo struct {
	TotalOrders int    `json:"total_orders"`
	LastUpdated string `json:"last_updated"`
}

// Info returns the metadata summary for this snapshot.
func (s *Snapshot) Info() DataInfo {
	return DataInfo{
		TotalOrders: s.TotalOrders,
		LastUpdated: s.LastUpdated,
	}
}

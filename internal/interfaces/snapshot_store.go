package interfaces

import (
	"github.com/ternarybob/ordo/internal/models"
)

// SnapshotStore owns the on-disk snapshot document. The refresh service is
// the only writer; request handlers read a point-in-time copy that is
// re-parsed from storage on every call, so readers never share mutable
// state with an in-flight write.
type SnapshotStore interface {
	// Write replaces the document wholesale with the given orders plus
	// freshly stamped metadata. Safe under concurrent writers
	// (last write wins); a failed write leaves the prior document intact.
	Write(orders []models.OrderRecord) error

	// Read returns the parsed document, or (nil, nil) when no document
	// exists yet or it cannot be parsed. Absence is a normal state before
	// the first successful refresh, not an error.
	Read() (*models.Snapshot, error)
}

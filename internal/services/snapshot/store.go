package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/models"
)

// Store persists the order snapshot as a single JSON document on disk.
// Writes replace the document wholesale via a temp file and atomic rename,
// so a reader re-parsing the file never observes a partially written
// snapshot. A mutex serializes writers; when the timed loop and a manual
// refresh race, last write wins.
type Store struct {
	path    string
	logger  arbor.ILogger
	writeMu sync.Mutex
}

// NewStore creates a snapshot store backed by the document at path.
func NewStore(path string, logger arbor.ILogger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Write replaces the snapshot document with the given orders plus freshly
// stamped metadata. A failed write leaves the prior document untouched.
func (s *Store) Write(orders []models.OrderRecord) error {
	snap := models.NewSnapshot(orders)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// Write to a temp file in the same directory so the rename stays on one
	// filesystem and is atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp snapshot file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	s.logger.Info().
		Int("total_orders", snap.TotalOrders).
		Str("last_updated", snap.LastUpdated).
		Msg("Snapshot written")

	return nil
}

// Read re-parses the snapshot document. Returns (nil, nil) when the
// document does not exist yet or cannot be parsed; absence is a normal
// state before the first successful refresh.
func (s *Store) Read() (*models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", s.path).Msg("Snapshot not present yet")
			return nil, nil
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read snapshot file")
		return nil, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Snapshot file is corrupt, treating as absent")
		return nil, nil
	}

	return &snap, nil
}

package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/interfaces"
)

// Service runs fetch-and-write refresh cycles: one synchronous cycle at
// startup (invoked by the caller via RunCycle), then a fixed-interval cron
// loop for the life of the process. Manual triggers run out of band on
// their own goroutine; the snapshot store serializes the actual writes.
type Service struct {
	source   interfaces.OrderSource
	store    interfaces.SnapshotStore
	interval time.Duration
	logger   arbor.ILogger
	cron     *cron.Cron

	mu           sync.Mutex // Protects isProcessing and status fields
	isProcessing bool
	running      bool
	lastRun      *time.Time
	lastError    string
	cycles       int64
}

// NewService creates a refresh service over the given source and store.
func NewService(source interfaces.OrderSource, store interfaces.SnapshotStore, interval time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		source:   source,
		store:    store,
		interval: interval,
		logger:   logger,
		cron:     cron.New(),
	}
}

// RunCycle performs one fetch-and-write cycle synchronously. A fetch or
// write failure is returned to the caller but leaves the prior snapshot in
// place; the loop simply retries on the next tick.
func (s *Service) RunCycle() error {
	start := time.Now()
	s.logger.Info().Msg("Refresh cycle started")

	ctx := context.Background()
	orders, err := s.source.FetchAll(ctx)
	if err != nil {
		s.recordCycle(err)
		s.logger.Error().Err(err).Msg("Refresh cycle failed: fetch error, keeping previous snapshot")
		return fmt.Errorf("fetch failed: %w", err)
	}

	if err := s.store.Write(orders); err != nil {
		s.recordCycle(err)
		s.logger.Error().Err(err).Msg("Refresh cycle failed: snapshot write error, keeping previous snapshot")
		return fmt.Errorf("snapshot write failed: %w", err)
	}

	s.recordCycle(nil)
	s.logger.Info().
		Int("total_orders", len(orders)).
		Dur("duration", time.Since(start)).
		Msg("Refresh cycle completed")

	return nil
}

// Start begins the background interval loop. The loop never terminates on
// its own; it runs until Stop is called during process shutdown.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("refresh service already running")
	}
	s.running = true
	s.mu.Unlock()

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.runScheduledCycle); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	s.cron.Start()

	s.logger.Info().
		Str("interval", s.interval.String()).
		Msg("Background refresh started")

	return nil
}

// Stop halts the background loop
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.cron.Stop()
	s.logger.Info().Msg("Background refresh stopped")
	return nil
}

// TriggerNow schedules one out-of-band cycle and returns immediately.
// The cycle runs concurrently with the timed loop; the store's write lock
// makes the outcome last-write-wins rather than a merge.
func (s *Service) TriggerNow() {
	s.logger.Info().Msg("Manual refresh triggered")
	go func() {
		defer s.recoverPanic("manual refresh")
		_ = s.RunCycle()
	}()
}

// Status reports loop state for the health endpoint
func (s *Service) Status() interfaces.RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return interfaces.RefreshStatus{
		Running:   s.running,
		Interval:  s.interval.String(),
		LastRun:   s.lastRun,
		LastError: s.lastError,
		Cycles:    s.cycles,
	}
}

// runScheduledCycle is the cron entry point. Overlapping timed cycles are
// skipped rather than queued; a skipped cycle is made up on the next tick.
func (s *Service) runScheduledCycle() {
	defer s.recoverPanic("scheduled refresh")

	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Debug().Msg("Previous refresh cycle still running, skipping this tick")
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	_ = s.RunCycle()
}

func (s *Service) recordCycle(err error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cycles++
	s.lastRun = &now
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

func (s *Service) recoverPanic(what string) {
	if r := recover(); r != nil {
		s.logger.Error().
			Str("panic", fmt.Sprintf("%v", r)).
			Msg("PANIC RECOVERED in " + what)
	}
}

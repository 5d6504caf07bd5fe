package interfaces

import "time"

// RefreshStatus describes the state of the background refresh loop.
type RefreshStatus struct {
	Running   bool       `json:"running"`
	Interval  string     `json:"interval"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Cycles    int64      `json:"cycles"`
}

// RefreshService runs fetch-and-write cycles against the snapshot store:
// one synchronous cycle at startup, then a fixed-interval background loop
// for the life of the process, plus out-of-band manual triggers.
type RefreshService interface {
	// RunCycle performs one fetch-and-write cycle synchronously.
	RunCycle() error

	// Start begins the background interval loop.
	Start() error

	// Stop halts the background loop. Part of process shutdown only.
	Stop() error

	// TriggerNow schedules one out-of-band cycle and returns immediately.
	TriggerNow()

	// Status reports loop state for the health endpoint.
	Status() RefreshStatus
}

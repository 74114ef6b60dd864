package storage

import "github.com/streetracer/sim/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(session *core.Session, track *core.Track) error
	EndSession() error

	// Entity registration
	AddVehicle(v *core.Vehicle) error

	// State recording
	RecordVehicleState(s *core.VehicleState) error
	RecordPerformance(p *core.Performance) error
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to a replay frontend.
type Uploadable interface {
	GetExportedFilePath() string
}

package memory

import (
	"sync"

	"github.com/streetracer/sim/internal/config"
	"github.com/streetracer/sim/pkg/core"
)

// VehicleRecord groups a vehicle with all its time-series data
type VehicleRecord struct {
	Vehicle core.Vehicle
	States  []core.VehicleState
}

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session
	track   *core.Track

	vehicles map[uint16]*VehicleRecord // keyed by vehicle ID

	performances []core.Performance

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		vehicles: make(map[uint16]*VehicleRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(session *core.Session, track *core.Track) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = session
	b.track = track

	// Reset all collections
	b.vehicles = make(map[uint16]*VehicleRecord)
	b.performances = nil

	return nil
}

// EndSession finalizes and exports the session data
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exportJSON()
}

// AddVehicle registers a new vehicle
func (b *Backend) AddVehicle(v *core.Vehicle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.vehicles[v.ID] = &VehicleRecord{
		Vehicle: *v,
		States:  make([]core.VehicleState, 0),
	}
	return nil
}

// GetVehicle looks up a vehicle by its ID
func (b *Backend) GetVehicle(id uint16) (*core.Vehicle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if record, ok := b.vehicles[id]; ok {
		return &record.Vehicle, true
	}
	return nil, false
}

// VehicleStates returns a copy of the recorded states for a vehicle.
func (b *Backend) VehicleStates(id uint16) []core.VehicleState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.vehicles[id]
	if !ok {
		return nil
	}
	states := make([]core.VehicleState, len(record.States))
	copy(states, record.States)
	return states
}

// RecordVehicleState records a vehicle state update
func (b *Backend) RecordVehicleState(s *core.VehicleState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if record, ok := b.vehicles[s.VehicleID]; ok {
		record.States = append(record.States, *s)
	}
	return nil // silently ignore if vehicle not found
}

// PerformanceCount returns how many performance snapshots were recorded.
func (b *Backend) PerformanceCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.performances)
}

// RecordPerformance records a recorder health snapshot
func (b *Backend) RecordPerformance(p *core.Performance) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.performances = append(b.performances, *p)
	return nil
}

// GetExportedFilePath returns the path of the last exported file
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

package worker

import (
	"context"
	"time"

	"github.com/streetracer/sim/internal/cache"
	"github.com/streetracer/sim/internal/channel"
	"github.com/streetracer/sim/internal/influx"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/session"
	"github.com/streetracer/sim/internal/storage"
	"github.com/streetracer/sim/pkg/core"
)

// Dependencies holds all dependencies for the recorder manager
type Dependencies struct {
	VehicleCache   *cache.VehicleCache
	LogManager     *logging.SlogManager
	SessionContext *session.Context
	Influx         *influx.Manager // nil when live telemetry is disabled
}

// Manager drains vehicle states off the simulation channel into the
// storage backend, mirroring each state to InfluxDB when configured.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	states  channel.Channel[core.VehicleState]

	lastTick cache.SafeCounter
	done     chan struct{}
}

// NewManager creates a new recorder manager
func NewManager(deps Dependencies, backend storage.Backend, states channel.Channel[core.VehicleState]) *Manager {
	return &Manager{
		deps:    deps,
		backend: backend,
		states:  states,
		done:    make(chan struct{}),
	}
}

// Start launches the recording goroutine. It runs until the state
// channel is closed by the simulation loop.
func (m *Manager) Start() {
	recorded := statesRecordedCounter()

	go func() {
		defer close(m.done)

		for state := range m.states.Receive() {
			state := state
			if err := m.backend.RecordVehicleState(&state); err != nil {
				m.deps.LogManager.Logger().Error("Failed to record vehicle state",
					"vehicle", state.VehicleID, "tick", state.Tick, "error", err)
				continue
			}
			m.lastTick.Set(int(state.Tick))
			recorded.Add(context.Background(), 1)

			if m.deps.Influx != nil {
				m.writeTelemetry(&state)
			}
		}
	}()
}

// Wait blocks until the recording goroutine has drained the channel.
func (m *Manager) Wait() {
	<-m.done
}

// writeTelemetry mirrors a state snapshot to the vehicle_telemetry bucket.
func (m *Manager) writeTelemetry(state *core.VehicleState) {
	vehicleName := "unknown"
	if v, ok := m.deps.VehicleCache.Get(state.VehicleID); ok {
		vehicleName = v.Name
	}
	sessionName := m.deps.SessionContext.GetSession().Name

	point := influx.TelemetryPoint(sessionName, vehicleName, state)
	if err := m.deps.Influx.WritePoint(context.Background(), influx.BucketVehicleTelemetry, point); err != nil {
		m.deps.LogManager.Logger().Warn("Failed to write telemetry point", "error", err)
	}
}

// Performance builds a recorder health snapshot for the monitor.
func (m *Manager) Performance() core.Performance {
	queueLen := m.states.Len()
	if p, ok := m.backend.(WriteQueueLengthProvider); ok {
		queueLen += p.WriteQueueLength()
	}

	return core.Performance{
		Tick:                uint(m.lastTick.Value()),
		WriteQueueLength:    uint16(queueLen),
		LastWriteDurationMs: float32(m.GetLastDBWriteDuration().Milliseconds()),
	}
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// WriteQueueLengthProvider is an optional interface that backends can
// implement to expose their pending write queue length.
type WriteQueueLengthProvider interface {
	WriteQueueLength() int
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}

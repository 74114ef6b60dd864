// Package vehicle ties the engine curve, the gearbox and the integrator
// together into the single mutable simulation entity. The vehicle owns
// its state exclusively: one Update per tick, observations in between.
package vehicle

import (
	"time"

	"github.com/streetracer/sim/internal/drivetrain"
	"github.com/streetracer/sim/internal/dynamics"
	"github.com/streetracer/sim/internal/engine"
	"github.com/streetracer/sim/pkg/core"
)

// initialRPM is the engine RPM a freshly spawned vehicle idles at,
// before the first tick recomputes it from wheel speed.
const initialRPM = 5000

// Recorder receives a state snapshot after every tick. Storage backends
// satisfy it; a nil recorder simply skips recording.
type Recorder interface {
	RecordVehicleState(s *core.VehicleState) error
}

// Vehicle is one simulated car. Collaborators (recorders, displays) are
// injected per instance, not shared type-level state.
type Vehicle struct {
	id    uint16
	spec  core.VehicleSpec
	curve *engine.Curve
	box   *drivetrain.Gearbox
	integ *dynamics.Integrator

	state    core.VehicleState
	input    core.DriverInput
	recorder Recorder
	clock    func() time.Time
}

// Option configures optional vehicle collaborators.
type Option func(*Vehicle)

// WithRecorder injects the per-instance state recorder.
func WithRecorder(r Recorder) Option {
	return func(v *Vehicle) { v.recorder = r }
}

// WithClock overrides the wall clock used to stamp state snapshots.
func WithClock(now func() time.Time) Option {
	return func(v *Vehicle) { v.clock = now }
}

// New validates the spec, builds the torque/power tables and places the
// vehicle at spawn. scale converts physical metres to world units. A spec
// failure aborts creation; there is no partial or degraded vehicle.
func New(id uint16, spec core.VehicleSpec, spawn core.Position2D, scale float64, opts ...Option) (*Vehicle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	curve, err := engine.NewCurve(spec)
	if err != nil {
		return nil, err
	}

	box := drivetrain.New(spec)
	v := &Vehicle{
		id:    id,
		spec:  spec,
		curve: curve,
		box:   box,
		integ: dynamics.New(spec, curve, box, scale),
		clock: time.Now,
		state: core.VehicleState{
			VehicleID: id,
			Position:  spawn,
			EngineRPM: clamp(initialRPM, spec.Stats.MinRPM, spec.Stats.MaxRPM),
			Gear:      1,
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Accelerate sets the longitudinal intent: +1 forward, -1 backward.
func (v *Vehicle) Accelerate(direction float64) {
	v.input.Accelerate = clamp(direction, -1, 1)
}

// Steer sets the steering intent: +1 counter-clockwise, -1 clockwise.
func (v *Vehicle) Steer(direction float64) {
	v.input.Steer = clamp(direction, -1, 1)
}

// Handbrake sets the handbrake strength in [0, 1]. Recorded with the
// state but without a force contribution.
func (v *Vehicle) Handbrake(strength float64) {
	v.input.Handbrake = clamp(strength, 0, 1)
}

// Update advances the vehicle by dt seconds using the current intents
// and hands the resulting snapshot to the recorder, if any.
func (v *Vehicle) Update(dt float64) {
	v.integ.Step(&v.state, v.input, dt)
	v.state.Tick++
	v.state.Time = v.clock()

	if v.recorder != nil {
		snapshot := v.state
		// Recording must never stall the tick; backends log their own
		// failures.
		_ = v.recorder.RecordVehicleState(&snapshot)
	}
}

// State returns a copy of the current state snapshot.
func (v *Vehicle) State() core.VehicleState { return v.state }

// Identity returns the registration record storage backends expect.
func (v *Vehicle) Identity() core.Vehicle {
	return core.Vehicle{
		ID:        v.id,
		Name:      v.spec.Name,
		ClassName: "car",
		SpawnTime: v.clock(),
		Spec:      v.spec,
	}
}

// Velocity returns the signed velocity in m/s.
func (v *Vehicle) Velocity() float64 { return v.state.Velocity }

// EngineRPM returns the clamped engine RPM.
func (v *Vehicle) EngineRPM() float64 { return v.state.EngineRPM }

// Gear returns the selected gear index.
func (v *Vehicle) Gear() int { return v.state.Gear }

// Heading returns the heading in degrees (unbounded).
func (v *Vehicle) Heading() float64 { return v.state.Heading }

// Position returns the world position.
func (v *Vehicle) Position() core.Position2D { return v.state.Position }

// Curve exposes the immutable torque/power tables.
func (v *Vehicle) Curve() *engine.Curve { return v.curve }

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

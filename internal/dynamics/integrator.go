// Package dynamics implements the per-tick force, velocity, position and
// heading update. One Step call mutates exactly one VehicleState; nothing
// here blocks or allocates, so independent vehicles can step in parallel.
package dynamics

import (
	"math"

	"github.com/streetracer/sim/internal/drivetrain"
	"github.com/streetracer/sim/internal/engine"
	"github.com/streetracer/sim/pkg/core"
)

const (
	// AirDensity is the air density used for drag, kg/m³.
	AirDensity = 1.225
	// EarthAcceleration is the gravitational acceleration, m/s².
	EarthAcceleration = 9.81

	secondsInMinute = 60
)

// Integrator advances a vehicle's longitudinal and lateral state by one
// tick. The world scale (pixels per metre) is injected at construction,
// never read from a package global.
type Integrator struct {
	spec  core.VehicleSpec
	curve *engine.Curve
	box   *drivetrain.Gearbox
	scale float64
}

// New builds an integrator over an already validated spec.
func New(spec core.VehicleSpec, curve *engine.Curve, box *drivetrain.Gearbox, scale float64) *Integrator {
	return &Integrator{spec: spec, curve: curve, box: box, scale: scale}
}

// Step runs one simulation tick. dt is clamped to be non-negative; the
// frame clock is not trusted. Order matters and is fixed: traction, drag,
// velocity, RPM, gear evaluation, position, heading.
func (it *Integrator) Step(st *core.VehicleState, in core.DriverInput, dt float64) {
	if dt < 0 {
		dt = 0
	}
	st.Input = in

	mass := it.spec.Stats.Mass
	friction := it.spec.Wheels.StaticFriction

	// Traction while under throttle or rolling backward, otherwise the
	// rolling/brake resistance budget. The intent scales it, signed.
	var force float64
	if in.Accelerate > 0 || st.Velocity < 0 {
		force = it.curve.TorqueAt(st.EngineRPM) * it.box.Ratio() * it.box.FinalDrive() / it.spec.Wheels.Radius
	} else {
		force = friction * mass * EarthAcceleration
	}
	force *= in.Accelerate
	if it.box.IsShifting() && in.Accelerate > 0 {
		// Clutch is out mid-shift: no traction reaches the wheels.
		force = 0
	}

	// Aerodynamic drag. Subtracted unconditionally rather than opposing
	// the sign of velocity; v² keeps it negligible near standstill.
	drag := 0.5 * AirDensity * st.Velocity * st.Velocity *
		it.spec.Stats.FrontArea * it.spec.Stats.DragCoefficient
	force -= drag

	st.Velocity += force / mass * dt

	// Engine RPM follows from the new wheel speed through the gearing.
	revs := st.Velocity / (2 * math.Pi * it.spec.Wheels.Radius)
	rpm := revs * it.box.Ratio() * it.box.FinalDrive() * secondsInMinute
	st.EngineRPM = clamp(rpm, it.spec.Stats.MinRPM, it.spec.Stats.MaxRPM)

	// Gear decisions see the new RPM; a triggered shift takes effect on
	// the traction of following ticks.
	it.box.Advance(st.EngineRPM, dt)
	st.Gear = it.box.Gear()
	st.ShiftTimer = it.box.ShiftTimer()

	heading := st.Heading * math.Pi / 180
	st.Position.X += -math.Sin(heading) * st.Velocity * dt * it.scale
	st.Position.Y += -math.Cos(heading) * st.Velocity * dt * it.scale

	if in.Steer != 0 {
		it.steer(st, in.Steer, dt)
	}
	// With zero steering intent the heading is left untouched: steering
	// is an instantaneous driver input, not a spring-return wheel.
}

// steer applies the bicycle-model heading update bounded by lateral grip
// and by the steering geometry limit.
func (it *Integrator) steer(st *core.VehicleState, intent, dt float64) {
	wheelbase := it.spec.Geometry.Wheelbase
	maxFriction := it.spec.Wheels.StaticFriction * it.spec.Stats.Mass * EarthAcceleration

	// Radius below which the centrifugal force would exceed grip.
	radius := it.spec.Stats.Mass * st.Velocity * st.Velocity / maxFriction

	turningAngle := 90.0 // no car can corner at 90 degrees
	// When grip geometry yields no solution (radius ≤ wheelbase) the
	// source left the radius undefined; wheelbase is the safe default.
	effectiveRadius := wheelbase
	if radius > wheelbase {
		turningAngle = math.Asin(wheelbase/radius) * 180 / math.Pi
		effectiveRadius = radius
	}
	if turningAngle > it.spec.Wheels.MaxTurningAngle {
		turningAngle = it.spec.Wheels.MaxTurningAngle
		effectiveRadius = math.Sin(turningAngle*math.Pi/180) * wheelbase
	}

	angularVelocity := st.Velocity / effectiveRadius // rad/s
	st.Heading += intent * angularVelocity * (180 / math.Pi) * dt
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package core

import (
	"fmt"
	"time"
)

// VehicleSpec is the externally supplied vehicle configuration. It is
// immutable for the vehicle's lifetime. The JSON layout matches the
// per-vehicle config files (stats / geometry / wheels / transmission).
type VehicleSpec struct {
	Name                  string    `json:"full_name"`
	Stats                 Stats     `json:"stats"`
	Geometry              Geometry  `json:"geometry"`
	Wheels                Wheels    `json:"wheels"`
	Transmission          []float64 `json:"transmission"`
	TransmissionBase      float64   `json:"transmission_base"`
	TransmissionShiftTime float64   `json:"transmission_shift_time"`
}

// Stats holds the engine and body parameters.
type Stats struct {
	Mass              float64   `json:"mass"` // kg
	MinRPM            float64   `json:"min_rpm"`
	MaxRPM            float64   `json:"max_rpm"`
	TorqueSamples     []float64 `json:"torque_samples"` // N·m, dyno samples
	PowerSamples      []float64 `json:"power_samples"`
	SamplingStart     float64   `json:"sampling_start"`     // RPM of the first sample
	SamplingPrecision float64   `json:"sampling_precision"` // RPM spacing between samples
	FrontArea         float64   `json:"front_area"`         // m²
	DragCoefficient   float64   `json:"drag_coefficient"`
}

// Geometry holds the body dimensions in metres.
type Geometry struct {
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	Wheelbase float64 `json:"wheelbase"`
}

// Wheels holds the wheel and grip parameters.
type Wheels struct {
	Radius          float64 `json:"radius"`            // m
	StaticFriction  float64 `json:"static_friction"`   // unitless coefficient
	MaxTurningAngle float64 `json:"max_turning_angle"` // degrees
}

// ConfigError reports an invalid vehicle specification. It is fatal at
// construction time; no vehicle is created from a spec that produces one.
type ConfigError struct {
	Vehicle string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("vehicle %q: %s", e.Vehicle, e.Reason)
}

// Validate checks every precondition the simulation divides or indexes by.
// A spec that passes Validate never produces Inf/NaN in vehicle state.
func (s VehicleSpec) Validate() error {
	name := s.Name
	if name == "" {
		name = "unknown"
	}
	fail := func(reason string) error {
		return &ConfigError{Vehicle: name, Reason: reason}
	}

	if len(s.Stats.TorqueSamples) == 0 {
		return fail("no torque samples")
	}
	if len(s.Stats.TorqueSamples) != len(s.Stats.PowerSamples) {
		return fail("inconsistent amount of torque and power samples")
	}
	if s.Stats.SamplingPrecision <= 0 {
		return fail("sampling_precision must be positive")
	}
	if s.Stats.Mass <= 0 {
		return fail("mass must be positive")
	}
	if s.Stats.MaxRPM <= 0 || s.Stats.MaxRPM <= s.Stats.MinRPM {
		return fail("max_rpm must be positive and above min_rpm")
	}
	if s.Wheels.Radius <= 0 {
		return fail("wheel radius must be positive")
	}
	if s.Geometry.Wheelbase <= 0 {
		return fail("wheelbase must be positive")
	}
	// Index 0 is the neutral placeholder; driving gears start at 1.
	if len(s.Transmission) < 2 {
		return fail("transmission needs at least one driving gear")
	}
	for i, ratio := range s.Transmission[1:] {
		if ratio == 0 {
			return fail(fmt.Sprintf("gear ratio %d is zero", i+1))
		}
	}
	if s.TransmissionBase == 0 {
		return fail("transmission_base must be non-zero")
	}
	if s.TransmissionShiftTime < 0 {
		return fail("transmission_shift_time must not be negative")
	}
	return nil
}

// Vehicle is the identity record handed to storage backends when a
// vehicle spawns. ID is the simulation's identifier for this entity.
type Vehicle struct {
	ID        uint16
	Name      string
	ClassName string
	SpawnTime time.Time
	Spec      VehicleSpec
}

// VehicleState represents vehicle state at a point in time.
// VehicleID references the Vehicle's ID.
type VehicleState struct {
	VehicleID  uint16
	Time       time.Time
	Tick       uint
	Position   Position2D
	Heading    float64 // degrees, unbounded (never wrapped to [0,360))
	Velocity   float64 // m/s, signed, positive = forward
	EngineRPM  float64 // clamped to [min_rpm, max_rpm]
	Gear       int
	ShiftTimer float64 // seconds remaining in the shift lockout, 0 = engaged
	Input      DriverInput
}

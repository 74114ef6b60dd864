// Package engine builds dense torque and power lookup tables from the
// sparse dynamometer samples in a vehicle spec. The tables are built once
// at vehicle construction and are read-only afterwards, so they may be
// shared freely between independently simulated vehicles.
package engine

import (
	"math"

	"github.com/streetracer/sim/pkg/core"
)

// Curve holds torque and power values for every integer RPM in
// [0, maxRPM]. Both tables have length maxRPM+1. RPM values outside the
// sampled domain are extrapolated from the boundary spline segments and
// may be non-physical; this mirrors the dyno-sheet fitting the simulation
// was designed around and is a documented limitation, not a bug.
type Curve struct {
	Torque []float64 // N·m, indexed by integer RPM
	Power  []float64 // indexed by integer RPM

	maxRPM int
}

// NewCurve fits a cubic interpolant through the spec's torque and power
// samples at x_i = sampling_start + i·sampling_precision and evaluates it
// at every integer RPM. The builder is stateless and deterministic.
func NewCurve(spec core.VehicleSpec) (*Curve, error) {
	name := spec.Name
	if name == "" {
		name = "unknown"
	}

	torque := spec.Stats.TorqueSamples
	power := spec.Stats.PowerSamples
	if len(torque) == 0 || len(torque) != len(power) {
		return nil, &core.ConfigError{
			Vehicle: name,
			Reason:  "inconsistent amount of torque and power samples",
		}
	}
	if spec.Stats.SamplingPrecision <= 0 {
		return nil, &core.ConfigError{
			Vehicle: name,
			Reason:  "sampling_precision must be positive",
		}
	}

	xs := make([]float64, len(torque))
	for i := range xs {
		xs[i] = spec.Stats.SamplingStart + float64(i)*spec.Stats.SamplingPrecision
	}
	torqueFit := newCubicSpline(xs, torque)
	powerFit := newCubicSpline(xs, power)

	maxRPM := int(spec.Stats.MaxRPM)
	c := &Curve{
		Torque: make([]float64, maxRPM+1),
		Power:  make([]float64, maxRPM+1),
		maxRPM: maxRPM,
	}
	for rpm := 0; rpm <= maxRPM; rpm++ {
		c.Torque[rpm] = torqueFit.at(float64(rpm))
		c.Power[rpm] = powerFit.at(float64(rpm))
	}
	return c, nil
}

// TorqueAt returns the engine torque at the given RPM, looked up at the
// nearest integer RPM.
func (c *Curve) TorqueAt(rpm float64) float64 {
	return c.Torque[c.index(rpm)]
}

// PowerAt returns the engine power output at the given RPM.
func (c *Curve) PowerAt(rpm float64) float64 {
	return c.Power[c.index(rpm)]
}

// MaxRPM returns the highest RPM covered by the tables.
func (c *Curve) MaxRPM() int { return c.maxRPM }

func (c *Curve) index(rpm float64) int {
	i := int(math.Round(rpm))
	if i < 0 {
		return 0
	}
	if i > c.maxRPM {
		return c.maxRPM
	}
	return i
}

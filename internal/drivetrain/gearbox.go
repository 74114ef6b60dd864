// Package drivetrain models gear selection as a two-state machine driven
// by engine RPM thresholds: Engaged (shift timer zero) and Shifting
// (timer counting down, clutch out).
package drivetrain

import "github.com/streetracer/sim/pkg/core"

// downshiftFactor scales the RPM the engine would land on after an
// upshift; dropping below it means the previous gear is the better fit.
const downshiftFactor = 0.9

// Gearbox tracks the engaged gear and the shift lockout. Index 0 of the
// ratio table is a neutral placeholder; driving gears are 1..len-1. The
// gear index never leaves that range.
type Gearbox struct {
	ratios     []float64
	finalDrive float64
	shiftTime  float64
	maxRPM     float64

	gear       int
	shiftTimer float64
}

// New builds a gearbox from the spec, engaged in gear 1.
func New(spec core.VehicleSpec) *Gearbox {
	return &Gearbox{
		ratios:     spec.Transmission,
		finalDrive: spec.TransmissionBase,
		shiftTime:  spec.TransmissionShiftTime,
		maxRPM:     spec.Stats.MaxRPM,
		gear:       1,
	}
}

// Gear returns the currently selected gear index.
func (g *Gearbox) Gear() int { return g.gear }

// Ratio returns the ratio of the currently selected gear.
func (g *Gearbox) Ratio() float64 { return g.ratios[g.gear] }

// FinalDrive returns the fixed final-drive ratio.
func (g *Gearbox) FinalDrive() float64 { return g.finalDrive }

// IsShifting reports whether a gear change is in progress. While shifting
// under positive throttle the drivetrain delivers no traction.
func (g *Gearbox) IsShifting() bool { return g.shiftTimer > 0 }

// ShiftTimer returns the seconds remaining in the shift lockout.
func (g *Gearbox) ShiftTimer() float64 { return g.shiftTimer }

// Advance runs the state machine for one tick against the freshly
// recomputed engine RPM. While shifting it only counts the lockout down;
// otherwise it evaluates the thresholds. Upshift is checked first, so it
// wins if a degenerate ratio table ever satisfies both conditions.
func (g *Gearbox) Advance(rpm, dt float64) {
	if g.shiftTimer > 0 {
		g.shiftTimer -= dt
		if g.shiftTimer < 0 {
			g.shiftTimer = 0
		}
		return
	}

	switch {
	case rpm >= g.maxRPM && g.gear < len(g.ratios)-1:
		g.gear++
		g.shiftTimer = g.shiftTime
	case g.gear > 1 && rpm < downshiftFactor*g.maxRPM*g.ratios[g.gear]/g.ratios[g.gear-1]:
		g.gear--
		g.shiftTimer = g.shiftTime
	}
}

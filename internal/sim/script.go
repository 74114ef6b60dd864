package sim

import "github.com/streetracer/sim/pkg/core"

// Script is a scripted drive: a sequence of intent segments played back
// against the simulation clock.
type Script struct {
	segments []core.ScriptSegment
}

// NewScript builds a script from config segments. Segments with a
// non-positive duration are skipped.
func NewScript(segments []core.ScriptSegment) *Script {
	s := &Script{}
	for _, seg := range segments {
		if seg.Duration <= 0 {
			continue
		}
		s.segments = append(s.segments, seg)
	}
	return s
}

// At returns the driver intent active at simulation time t seconds.
// Past the final segment the driver coasts with zero intent.
func (s *Script) At(t float64) core.DriverInput {
	elapsed := 0.0
	for _, seg := range s.segments {
		elapsed += seg.Duration
		if t < elapsed {
			return core.DriverInput{
				Accelerate: seg.Accelerate,
				Steer:      seg.Steer,
				Handbrake:  seg.Handbrake,
			}
		}
	}
	return core.DriverInput{}
}

// TotalDuration returns the scripted drive length in seconds.
func (s *Script) TotalDuration() float64 {
	total := 0.0
	for _, seg := range s.segments {
		total += seg.Duration
	}
	return total
}

// Empty reports whether the script has no segments.
func (s *Script) Empty() bool { return len(s.segments) == 0 }

// Package meters formats dashboard readings: an integer, zero-padded to
// a fixed width, followed by a unit suffix. Readings are plain strings
// for whatever display collaborator wants them.
package meters

import "fmt"

// Meter formats integer readings. It remembers the last value so
// unchanged readings don't re-render.
type Meter struct {
	format string
	last   int
	text   string
}

// New creates a meter padding values to the given width with zeros and
// appending the suffix, e.g. New(3, "KPH").Format(42) == "042KPH".
func New(padding int, suffix string) *Meter {
	return &Meter{
		format: fmt.Sprintf("%%0%dd%s", padding, suffix),
		last:   -1,
	}
}

// Format returns the formatted reading without updating the meter.
func (m *Meter) Format(val int) string {
	return fmt.Sprintf(m.format, val)
}

// Set updates the reading and reports whether the display changed.
func (m *Meter) Set(val int) bool {
	if val == m.last {
		return false
	}
	m.last = val
	m.text = m.Format(val)
	return true
}

// Text returns the last rendered reading.
func (m *Meter) Text() string { return m.text }

// Speedmeter keeps track of speed in km/h.
func Speedmeter() *Meter { return New(3, "KPH") }

// Tachometer keeps track of engine RPM.
func Tachometer() *Meter { return New(4, "RPM") }

// GearIndicator shows the selected gear.
func GearIndicator() *Meter { return New(1, "") }

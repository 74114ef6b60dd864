package core

// Position2D represents a position in world (pixel) coordinates.
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DriverInput is the driver intent snapshot consumed each tick.
// Accelerate and Steer are in [-1, 1], Handbrake in [0, 1].
// Handbrake is carried and recorded but contributes no force.
type DriverInput struct {
	Accelerate float64 `json:"accelerate"`
	Steer      float64 `json:"steer"`
	Handbrake  float64 `json:"handbrake"`
}

// ScriptSegment is one leg of a scripted drive: hold the given intent
// for Duration seconds.
type ScriptSegment struct {
	Duration   float64 `json:"duration" mapstructure:"duration"`
	Accelerate float64 `json:"accelerate" mapstructure:"accelerate"`
	Steer      float64 `json:"steer" mapstructure:"steer"`
	Handbrake  float64 `json:"handbrake" mapstructure:"handbrake"`
}

// Performance is a periodic snapshot of recorder health.
type Performance struct {
	Tick                uint
	WriteQueueLength    uint16
	LastWriteDurationMs float32
}

package core

import "time"

// Session describes one recorded simulation run.
type Session struct {
	Name           string
	StartTime      time.Time
	TickRate       float64 // simulation ticks per second
	PixelsPerMetre float64 // world units per physical metre
}

// Track describes the world the session runs on. OriginLon/OriginLat
// georeference the world's (0,0) pixel for track export; both zero means
// the track is not georeferenced.
type Track struct {
	Name      string
	Width     float64 // pixels
	Height    float64 // pixels
	OriginLon float64
	OriginLat float64
}

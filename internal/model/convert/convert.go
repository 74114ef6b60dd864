// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/streetracer/sim/internal/model"
	"github.com/streetracer/sim/pkg/core"
)

// position2DToPoint converts a core.Position2D to a geom.Point
func position2DToPoint(p core.Position2D) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}}
	return geom.NewPoint(coords)
}

// pointToPosition2D converts a geom.Point to a core.Position2D
func pointToPosition2D(p geom.Point) core.Position2D {
	coord, ok := p.Coordinates()
	if !ok {
		return core.Position2D{}
	}
	return core.Position2D{X: coord.XY.X, Y: coord.XY.Y}
}

// CoreToVehicle converts a core.Vehicle to a GORM model.Vehicle.
// core.Vehicle.ID maps to GORM Vehicle.ObjectID and the full spec is
// stored as JSON alongside the identity row.
func CoreToVehicle(v core.Vehicle) model.Vehicle {
	spec, err := json.Marshal(v.Spec)
	if err != nil {
		spec = []byte("{}")
	}

	return model.Vehicle{
		ObjectID:    v.ID,
		SpawnTime:   v.SpawnTime,
		ClassName:   v.ClassName,
		DisplayName: v.Name,
		Spec:        datatypes.JSON(spec),
	}
}

// VehicleToCore converts a GORM model.Vehicle to a core.Vehicle.
// GORM Vehicle.ObjectID maps to core Vehicle.ID.
func VehicleToCore(v model.Vehicle) core.Vehicle {
	var spec core.VehicleSpec
	if len(v.Spec) > 0 {
		_ = json.Unmarshal(v.Spec, &spec)
	}

	return core.Vehicle{
		ID:        v.ObjectID,
		Name:      v.DisplayName,
		ClassName: v.ClassName,
		SpawnTime: v.SpawnTime,
		Spec:      spec,
	}
}

// CoreToVehicleState converts a core.VehicleState to a GORM model.VehicleState.
func CoreToVehicleState(s core.VehicleState) model.VehicleState {
	return model.VehicleState{
		VehicleObjectID: s.VehicleID,
		Time:            s.Time,
		Tick:            s.Tick,
		Position:        position2DToPoint(s.Position),
		Heading:         s.Heading,
		Velocity:        s.Velocity,
		EngineRPM:       s.EngineRPM,
		Gear:            uint8(s.Gear),
		ShiftTimer:      s.ShiftTimer,
		Accelerate:      s.Input.Accelerate,
		Steer:           s.Input.Steer,
		Handbrake:       s.Input.Handbrake,
	}
}

// VehicleStateToCore converts a GORM model.VehicleState to a core.VehicleState.
// VehicleObjectID in GORM maps directly to VehicleID in core.
func VehicleStateToCore(s model.VehicleState) core.VehicleState {
	return core.VehicleState{
		VehicleID:  s.VehicleObjectID,
		Time:       s.Time,
		Tick:       s.Tick,
		Position:   pointToPosition2D(s.Position),
		Heading:    s.Heading,
		Velocity:   s.Velocity,
		EngineRPM:  s.EngineRPM,
		Gear:       int(s.Gear),
		ShiftTimer: s.ShiftTimer,
		Input: core.DriverInput{
			Accelerate: s.Accelerate,
			Steer:      s.Steer,
			Handbrake:  s.Handbrake,
		},
	}
}

// CoreToSession converts a core.Session to a GORM model.Session.
func CoreToSession(s core.Session) model.Session {
	return model.Session{
		SessionName:    s.Name,
		StartTime:      s.StartTime,
		TickRate:       float32(s.TickRate),
		PixelsPerMetre: float32(s.PixelsPerMetre),
	}
}

// SessionToCore converts a GORM model.Session to a core.Session.
func SessionToCore(s *model.Session) core.Session {
	return core.Session{
		Name:           s.SessionName,
		StartTime:      s.StartTime,
		TickRate:       float64(s.TickRate),
		PixelsPerMetre: float64(s.PixelsPerMetre),
	}
}

// CoreToTrack converts a core.Track to a GORM model.Track.
// The geographic anchor is carried both as raw lat/lon and as a point
// geometry for spatial queries.
func CoreToTrack(t core.Track) model.Track {
	return model.Track{
		Name:      t.Name,
		Width:     float32(t.Width),
		Height:    float32(t.Height),
		Latitude:  float32(t.OriginLat),
		Longitude: float32(t.OriginLon),
		Location: position2DToPoint(core.Position2D{
			X: t.OriginLon,
			Y: t.OriginLat,
		}),
	}
}

// TrackToCore converts a GORM model.Track to a core.Track.
func TrackToCore(t *model.Track) core.Track {
	return core.Track{
		Name:      t.Name,
		Width:     float64(t.Width),
		Height:    float64(t.Height),
		OriginLat: float64(t.Latitude),
		OriginLon: float64(t.Longitude),
	}
}

// CoreToPerformance converts a core.Performance to a GORM model.SessionPerformance.
func CoreToPerformance(p core.Performance) model.SessionPerformance {
	return model.SessionPerformance{
		Tick:                p.Tick,
		WriteQueueLength:    p.WriteQueueLength,
		LastWriteDurationMs: p.LastWriteDurationMs,
	}
}

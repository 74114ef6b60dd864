package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/streetracer/sim/pkg/core"
)

// GEO POINTS
// Exported geometry is always in EPSG:3857 so the WKT in the recording
// files can be dropped onto a web map without reprojection.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PositionFromString parses an "x,y" string into a core.Position2D.
// Used for the spawn point from config.
func PositionFromString(coords string) (core.Position2D, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	return core.Position2D{X: x, Y: y}, nil
}

// Coords3857From4326 creates a projected point from a longitude and latitude
func Coords3857From4326(
	longitude float64,
	latitude float64,
) (
	point geom.Point,
	err error,
) {
	var x, y float64
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(longitude, latitude, 0)
	point = geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
			Z:  0,
		},
	)
	return point, nil
}

// TrackLineString builds the driven path as a LineString. Positions are
// converted from world pixels to metres and anchored at the track's
// geographic origin (projected to 3857) when one is configured.
func TrackLineString(states []core.VehicleState, pixelsPerMetre float64, originLon, originLat float64) (geom.LineString, error) {
	if len(states) < 2 {
		return geom.LineString{}, errors.New("need at least two states for a track path")
	}
	if pixelsPerMetre <= 0 {
		return geom.LineString{}, errors.New("pixelsPerMetre must be positive")
	}

	var originX, originY float64
	if originLon != 0 || originLat != 0 {
		anchor, err := Coords3857From4326(originLon, originLat)
		if err != nil {
			return geom.LineString{}, err
		}
		coord, ok := anchor.Coordinates()
		if !ok {
			return geom.LineString{}, ErrInvalidCoordinates
		}
		originX = coord.XY.X
		originY = coord.XY.Y
	}

	coords := make([]float64, 0, len(states)*2)
	for _, st := range states {
		coords = append(coords,
			originX+st.Position.X/pixelsPerMetre,
			originY+st.Position.Y/pixelsPerMetre,
		)
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// TrackPathWKT renders the driven path as WKT for the JSON export.
func TrackPathWKT(states []core.VehicleState, pixelsPerMetre float64, originLon, originLat float64) (string, error) {
	ls, err := TrackLineString(states, pixelsPerMetre, originLon, originLat)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}

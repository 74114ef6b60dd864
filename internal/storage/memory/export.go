package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/streetracer/sim/internal/geo"
)

// SessionExport is the root JSON structure of a recorded run
type SessionExport struct {
	SessionName    string        `json:"sessionName"`
	TrackName      string        `json:"trackName"`
	StartTime      string        `json:"startTime"`
	TickRate       float64       `json:"tickRate"`
	PixelsPerMetre float64       `json:"pixelsPerMetre"`
	EndTick        uint          `json:"endTick"`
	Vehicles       []VehicleJSON `json:"vehicles"`
	Performance    [][]any       `json:"performance"`
	TrackPath      string        `json:"trackPath,omitempty"` // WKT, EPSG:3857
}

// VehicleJSON represents one vehicle and its per-tick states
type VehicleJSON struct {
	ID        uint16  `json:"id"`
	Name      string  `json:"name"`
	Class     string  `json:"class,omitempty"`
	Positions [][]any `json:"positions"`
}

// exportJSON writes the session data to a gzipped JSON file
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	// Build filename
	sessionName := strings.ReplaceAll(b.session.Name, " ", "_")
	sessionName = strings.ReplaceAll(sessionName, ":", "_")
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", sessionName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", sessionName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() SessionExport {
	export := SessionExport{
		SessionName:    b.session.Name,
		TrackName:      b.track.Name,
		StartTime:      b.session.StartTime.UTC().Format("2006-01-02T15:04:05Z"),
		TickRate:       b.session.TickRate,
		PixelsPerMetre: b.session.PixelsPerMetre,
		Vehicles:       make([]VehicleJSON, 0),
		Performance:    make([][]any, 0),
	}

	var maxTick uint = 0

	for _, record := range b.vehicles {
		entity := VehicleJSON{
			ID:        record.Vehicle.ID,
			Name:      record.Vehicle.Name,
			Class:     record.Vehicle.ClassName,
			Positions: make([][]any, 0, len(record.States)),
		}

		for _, state := range record.States {
			pos := []any{
				[]float64{state.Position.X, state.Position.Y},
				state.Heading,
				state.Velocity,
				state.EngineRPM,
				state.Gear,
			}
			entity.Positions = append(entity.Positions, pos)
			if state.Tick > maxTick {
				maxTick = state.Tick
			}
		}

		export.Vehicles = append(export.Vehicles, entity)

		// Driven path as WKT, only exportable once two states exist
		if export.TrackPath == "" && len(record.States) >= 2 {
			wkt, err := geo.TrackPathWKT(
				record.States,
				b.session.PixelsPerMetre,
				b.track.OriginLon,
				b.track.OriginLat,
			)
			if err == nil {
				export.TrackPath = wkt
			}
		}
	}

	export.EndTick = maxTick

	// Format: [tick, writeQueueLength, lastWriteDurationMs]
	for _, perf := range b.performances {
		export.Performance = append(export.Performance, []any{
			perf.Tick,
			perf.WriteQueueLength,
			perf.LastWriteDurationMs,
		})
	}

	return export
}

func (b *Backend) writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/streetracer/sim/internal/config"
	"github.com/streetracer/sim/pkg/core"
)

func populatedBackend(t *testing.T, compress bool) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: compress})

	sess, track := testSession()
	if err := b.StartSession(sess, track); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := b.AddVehicle(&core.Vehicle{ID: 1, Name: "McLaren F1", ClassName: "car"}); err != nil {
		t.Fatalf("AddVehicle failed: %v", err)
	}
	for i := 1; i <= 5; i++ {
		b.RecordVehicleState(&core.VehicleState{
			VehicleID: 1,
			Tick:      uint(i),
			Position:  core.Position2D{X: float64(i * 10), Y: float64(i * -5)},
			Velocity:  float64(i),
			EngineRPM: 1000 + float64(i)*500,
			Gear:      1,
		})
	}
	b.RecordPerformance(&core.Performance{Tick: 5, WriteQueueLength: 1, LastWriteDurationMs: 0.5})
	return b, dir
}

func TestEndSession_ExportsJSON(t *testing.T) {
	b, dir := populatedBackend(t, false)

	if err := b.EndSession(); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	path := b.GetExportedFilePath()
	if path == "" {
		t.Fatal("expected an export path")
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("export path %q not under output dir %q", path, dir)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("expected .json suffix, got %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}

	var export SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	verifyExport(t, export)
}

func TestEndSession_ExportsGzip(t *testing.T) {
	b, _ := populatedBackend(t, true)

	if err := b.EndSession(); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	path := b.GetExportedFilePath()
	if !strings.HasSuffix(path, ".json.gz") {
		t.Errorf("expected .json.gz suffix, got %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening export failed: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("export is not valid gzip: %v", err)
	}
	defer gz.Close()

	var export SessionExport
	if err := json.NewDecoder(gz).Decode(&export); err != nil {
		t.Fatalf("decompressed export is not valid JSON: %v", err)
	}
	verifyExport(t, export)
}

func verifyExport(t *testing.T, export SessionExport) {
	t.Helper()

	if export.SessionName != "McLarenF1_20260824_120000" {
		t.Errorf("unexpected session name %q", export.SessionName)
	}
	if export.TrackName != "Default Strip" {
		t.Errorf("unexpected track name %q", export.TrackName)
	}
	if export.TickRate != 60 {
		t.Errorf("expected tick rate 60, got %v", export.TickRate)
	}
	if export.EndTick != 5 {
		t.Errorf("expected end tick 5, got %d", export.EndTick)
	}
	if len(export.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(export.Vehicles))
	}

	veh := export.Vehicles[0]
	if veh.ID != 1 || veh.Name != "McLaren F1" || veh.Class != "car" {
		t.Errorf("unexpected vehicle identity %+v", veh)
	}
	if len(veh.Positions) != 5 {
		t.Errorf("expected 5 position entries, got %d", len(veh.Positions))
	}

	if len(export.Performance) != 1 {
		t.Errorf("expected 1 performance entry, got %d", len(export.Performance))
	}
	if !strings.HasPrefix(export.TrackPath, "LINESTRING") {
		t.Errorf("expected WKT track path, got %q", export.TrackPath)
	}
}

func TestEndSession_SanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})

	sess, track := testSession()
	sess.Name = "My Session: test"
	b.StartSession(sess, track)
	b.AddVehicle(&core.Vehicle{ID: 1})

	if err := b.EndSession(); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	path := b.GetExportedFilePath()
	base := path[strings.LastIndex(path, "/")+1:]
	if strings.ContainsAny(base, " :") {
		t.Errorf("filename %q contains unsanitized characters", base)
	}
}

func TestEndSession_EmptySession(t *testing.T) {
	b, _ := populatedBackend(t, false)
	sess, track := testSession()
	b.StartSession(sess, track) // reset, no vehicles

	if err := b.EndSession(); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	data, err := os.ReadFile(b.GetExportedFilePath())
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}
	var export SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(export.Vehicles) != 0 {
		t.Errorf("expected no vehicles, got %d", len(export.Vehicles))
	}
	if export.EndTick != 0 {
		t.Errorf("expected end tick 0, got %d", export.EndTick)
	}
	if export.TrackPath != "" {
		t.Errorf("expected empty track path, got %q", export.TrackPath)
	}
}

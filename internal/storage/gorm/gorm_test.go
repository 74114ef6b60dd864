package gormstorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetracer/sim/internal/cache"
	"github.com/streetracer/sim/internal/database"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/model"
	"github.com/streetracer/sim/internal/session"
	"github.com/streetracer/sim/pkg/core"
)

func testBackend(t *testing.T) *Backend {
	t.Helper()

	// File-backed SQLite keeps each test isolated; the shared in-memory
	// DSN would leak tables between parallel tests.
	db, err := database.GetSqliteDBStandalone(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	b := New(Dependencies{
		DB:             db,
		VehicleCache:   cache.NewVehicleCache(),
		LogManager:     logging.NewSlogManager(),
		SessionContext: session.NewContext(),
	})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func startTestSession(t *testing.T, b *Backend) *core.Session {
	t.Helper()
	sess := &core.Session{
		Name:           "McLarenF1_20260824_120000",
		StartTime:      time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		TickRate:       60,
		PixelsPerMetre: 16.5,
	}
	track := &core.Track{Name: "Default Strip", Width: 1280, Height: 720}
	require.NoError(t, b.StartSession(sess, track))
	return sess
}

func TestInit_RequiresDB(t *testing.T) {
	b := New(Dependencies{LogManager: logging.NewSlogManager()})

	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database connection provided")
}

func TestStartSession_PersistsSessionAndTrack(t *testing.T) {
	b := testBackend(t)
	startTestSession(t, b)

	var sessions []model.Session
	require.NoError(t, b.deps.DB.Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.Equal(t, "McLarenF1_20260824_120000", sessions[0].SessionName)
	assert.Equal(t, float32(60), sessions[0].TickRate)

	var tracks []model.Track
	require.NoError(t, b.deps.DB.Find(&tracks).Error)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Default Strip", tracks[0].Name)

	assert.NotZero(t, b.sessionID.Load())
	assert.Equal(t, "McLarenF1_20260824_120000", b.deps.SessionContext.GetSession().Name)
}

func TestStartSession_ReusesExistingTrack(t *testing.T) {
	b := testBackend(t)
	startTestSession(t, b)

	sess2 := &core.Session{Name: "second", StartTime: time.Now(), TickRate: 60}
	track := &core.Track{Name: "Default Strip", Width: 1280, Height: 720}
	require.NoError(t, b.StartSession(sess2, track))

	var count int64
	require.NoError(t, b.deps.DB.Model(&model.Track{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "same track name must not insert twice")
}

func TestEndSession_FlushesQueues(t *testing.T) {
	b := testBackend(t)
	startTestSession(t, b)

	require.NoError(t, b.AddVehicle(&core.Vehicle{
		ID:        1,
		Name:      "McLaren F1",
		ClassName: "car",
		SpawnTime: time.Now(),
	}))
	for i := 1; i <= 5; i++ {
		require.NoError(t, b.RecordVehicleState(&core.VehicleState{
			VehicleID: 1,
			Time:      time.Now(),
			Tick:      uint(i),
			Position:  core.Position2D{X: float64(i), Y: float64(-i)},
			Velocity:  float64(i),
			Gear:      1,
		}))
	}
	require.NoError(t, b.RecordPerformance(&core.Performance{Tick: 5, WriteQueueLength: 0}))

	require.NoError(t, b.EndSession())

	sessionID := uint(b.sessionID.Load())

	var vehicles []model.Vehicle
	require.NoError(t, b.deps.DB.Find(&vehicles).Error)
	require.Len(t, vehicles, 1)
	assert.Equal(t, sessionID, vehicles[0].SessionID)
	assert.Equal(t, uint16(1), vehicles[0].ObjectID)

	var states []model.VehicleState
	require.NoError(t, b.deps.DB.Order("tick").Find(&states).Error)
	require.Len(t, states, 5)
	assert.Equal(t, sessionID, states[0].SessionID)
	assert.Equal(t, uint(5), states[4].Tick)

	var perfs []model.SessionPerformance
	require.NoError(t, b.deps.DB.Find(&perfs).Error)
	assert.Len(t, perfs, 1)

	assert.Zero(t, b.WriteQueueLength(), "flush must drain the state queue")
	assert.Greater(t, int64(b.GetLastDBWriteDuration()), int64(0))
}

func TestAddVehicle_PopulatesCache(t *testing.T) {
	b := testBackend(t)
	startTestSession(t, b)

	require.NoError(t, b.AddVehicle(&core.Vehicle{ID: 3, Name: "TestCar"}))

	v, ok := b.deps.VehicleCache.Get(3)
	require.True(t, ok)
	assert.Equal(t, "TestCar", v.Name)
}

func TestWriteQueueLength(t *testing.T) {
	b := testBackend(t)
	startTestSession(t, b)

	assert.Zero(t, b.WriteQueueLength())

	b.RecordVehicleState(&core.VehicleState{VehicleID: 1, Tick: 1})
	b.RecordVehicleState(&core.VehicleState{VehicleID: 1, Tick: 2})

	assert.Equal(t, 2, b.WriteQueueLength())
}

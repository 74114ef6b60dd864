// Package gormstorage implements the queue-and-batch write path shared by
// the SQLite and Postgres backends. States are pushed onto in-process
// queues and a background goroutine drains them into the database in
// transactions.
package gormstorage

import (
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/streetracer/sim/internal/cache"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/model"
	"github.com/streetracer/sim/internal/model/convert"
	"github.com/streetracer/sim/internal/queue"
	"github.com/streetracer/sim/internal/session"
	"github.com/streetracer/sim/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB             *gorm.DB
	VehicleCache   *cache.VehicleCache
	LogManager     *logging.SlogManager
	SessionContext *session.Context
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Vehicles      *queue.Queue[model.Vehicle]
	VehicleStates *queue.Queue[model.VehicleState]
	Performances  *queue.Queue[model.SessionPerformance]
}

func newQueues() *queues {
	return &queues{
		Vehicles:      queue.New[model.Vehicle](),
		VehicleStates: queue.New[model.VehicleState](),
		Performances:  queue.New[model.SessionPerformance](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps              Dependencies
	queues            *queues
	sessionID         atomic.Uint64
	stopChan          chan struct{}
	dbReady           bool
	lastWriteDuration atomic.Int64 // nanoseconds
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB
// writer goroutine. The DB connection must be injected via Dependencies.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		return fmt.Errorf("no database connection provided")
	}

	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true

	b.startDBWriters()
	return nil
}

// setupDB migrates the recording schema.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.LogManager

	if db.Name() == "postgres" {
		if err := db.Exec(`CREATE Extension IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS Extension: %w", err)
		}
		log.WriteLog("setupDB", "PostGIS Extension created", "INFO")
	}

	log.WriteLog("setupDB", "Migrating schema", "INFO")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.WriteLog("setupDB", "Database setup complete", "INFO")
	return nil
}

// Close flushes pending writes and stops the DB writer goroutine.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	if b.dbReady {
		b.flushQueues()
	}
	return nil
}

// StartSession performs track get-or-insert and session create in the DB.
func (b *Backend) StartSession(coreSession *core.Session, coreTrack *core.Track) error {
	if b.deps.DB == nil {
		return nil
	}

	db := b.deps.DB

	gormSession := convert.CoreToSession(*coreSession)
	gormTrack := convert.CoreToTrack(*coreTrack)

	// Track get-or-insert
	if _, err := gormTrack.GetOrInsert(db); err != nil {
		return fmt.Errorf("failed to get or insert track: %w", err)
	}

	// Session create
	gormSession.Track = gormTrack
	if err := db.Create(&gormSession).Error; err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}

	// Store session ID for the DB writer goroutine
	b.sessionID.Store(uint64(gormSession.ID))

	if b.deps.SessionContext != nil {
		b.deps.SessionContext.SetSession(coreSession, coreTrack)
	}

	return nil
}

// SetSessionID sets the current session ID for the DB writer (used by CLI tools).
func (b *Backend) SetSessionID(id uint) {
	b.sessionID.Store(uint64(id))
}

// EndSession performs a final synchronous flush of all queues.
func (b *Backend) EndSession() error {
	if !b.dbReady {
		return nil
	}
	b.flushQueues()
	return nil
}

// AddVehicle converts a core vehicle to GORM and pushes to the write queue.
func (b *Backend) AddVehicle(v *core.Vehicle) error {
	gormObj := convert.CoreToVehicle(*v)
	b.queues.Vehicles.Push(gormObj)
	if b.deps.VehicleCache != nil {
		b.deps.VehicleCache.Add(*v)
	}
	return nil
}

// RecordVehicleState converts and queues a vehicle state.
func (b *Backend) RecordVehicleState(s *core.VehicleState) error {
	gormObj := convert.CoreToVehicleState(*s)
	b.queues.VehicleStates.Push(gormObj)
	return nil
}

// RecordPerformance converts and queues a recorder health snapshot.
func (b *Backend) RecordPerformance(p *core.Performance) error {
	gormObj := convert.CoreToPerformance(*p)
	gormObj.Time = time.Now()
	b.queues.Performances.Push(gormObj)
	return nil
}

// WriteQueueLength reports how many vehicle states are waiting for the
// next write cycle.
func (b *Backend) WriteQueueLength() int {
	if b.queues == nil {
		return 0
	}
	return b.queues.VehicleStates.Len()
}

// GetLastDBWriteDuration returns how long the most recent write cycle took.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return time.Duration(b.lastWriteDuration.Load())
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string), prepare func([]T)) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.Drain()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
}

// flushQueues runs one write cycle over every queue.
func (b *Backend) flushQueues() {
	log := b.deps.LogManager.WriteLog
	sessionID := uint(b.sessionID.Load())

	stampVehicles := func(items []model.Vehicle) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampVehicleStates := func(items []model.VehicleState) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampPerformances := func(items []model.SessionPerformance) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}

	start := time.Now()
	writeQueue(b.deps.DB, b.queues.Vehicles, "vehicles", log, stampVehicles)
	writeQueue(b.deps.DB, b.queues.VehicleStates, "vehicle states", log, stampVehicleStates)
	writeQueue(b.deps.DB, b.queues.Performances, "performance snapshots", log, stampPerformances)
	b.lastWriteDuration.Store(int64(time.Since(start)))
}

// startDBWriters starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriters() {
	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			b.flushQueues()

			time.Sleep(2 * time.Second)
		}
	}()
}

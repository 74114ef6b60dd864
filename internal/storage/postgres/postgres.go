// Package postgres implements the storage.Backend interface on a
// PostgreSQL server, wrapping the GORM backend via composition. The
// connection is established through the database manager, which falls
// back to in-memory SQLite when the server is unreachable.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streetracer/sim/internal/cache"
	"github.com/streetracer/sim/internal/database"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/session"
	gormstorage "github.com/streetracer/sim/internal/storage/gorm"
)

// Backend wraps the GORM backend for Postgres-specific behavior.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
}

// New creates a new Postgres storage backend.
func New(dbLog zerolog.Logger, vehicleCache *cache.VehicleCache, logManager *logging.SlogManager, sessionCtx *session.Context) (*Backend, error) {
	manager := database.NewManager(dbLog)
	if err := manager.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	gormBackend := gormstorage.New(gormstorage.Dependencies{
		DB:             manager.DB,
		VehicleCache:   vehicleCache,
		LogManager:     logManager,
		SessionContext: sessionCtx,
	})

	return &Backend{
		Backend: gormBackend,
		manager: manager,
	}, nil
}

// FellBackToLocal reports whether the manager could not reach Postgres
// and is writing to local SQLite instead.
func (b *Backend) FellBackToLocal() bool {
	return b.manager.ShouldSaveLocal
}

// DB exposes the underlying connection for server-side maintenance such
// as hypertable configuration.
func (b *Backend) DB() *gorm.DB {
	return b.manager.DB
}

package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streetracer/sim/internal/cache"
	"github.com/streetracer/sim/internal/config"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/session"
	"github.com/streetracer/sim/internal/storage/memory"
	"github.com/streetracer/sim/internal/storage/postgres"
	sqlitestorage "github.com/streetracer/sim/internal/storage/sqlite"
)

// Dependencies holds shared collaborators for backend construction.
type Dependencies struct {
	VehicleCache   *cache.VehicleCache
	LogManager     *logging.SlogManager
	SessionContext *session.Context
	DBLogger       zerolog.Logger
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(deps.DBLogger, deps.VehicleCache, deps.LogManager, deps.SessionContext)
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, deps.VehicleCache, deps.LogManager, deps.SessionContext)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

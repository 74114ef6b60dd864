package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/streetracer/sim/internal/influx"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/session"
	"github.com/streetracer/sim/internal/storage"
	"github.com/streetracer/sim/internal/worker"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	DB             *gorm.DB // nil for non-database backends
	LogManager     *logging.SlogManager
	SessionContext *session.Context
	WorkerManager  *worker.Manager
	Backend        storage.Backend
	Influx         *influx.Manager // nil when live telemetry is disabled
	StatusDir      string
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// ValidateHypertables validates and creates TimescaleDB hypertables for
// the time-series tables. Only meaningful on a Postgres backend with
// the TimescaleDB extension installed.
func (s *Service) ValidateHypertables(tables map[string][]string) error {
	functionName := "validateHypertables"

	for table := range tables {
		hypertable := any(nil)
		s.deps.DB.Exec(`SELECT x.* FROM timescaledb_information.hypertables WHERE hypertable_name = ?`, table).Scan(&hypertable)
		if hypertable != nil {
			s.deps.LogManager.WriteLog(functionName, fmt.Sprintf(`Table %s is already configured`, table), "INFO")
			continue
		}

		queryCreateHypertable := fmt.Sprintf(`
				SELECT create_hypertable('%s', 'time', chunk_time_interval => interval '1 day', if_not_exists => true);
			`, table)
		err := s.deps.DB.Exec(queryCreateHypertable).Error
		if err != nil {
			s.deps.LogManager.WriteLog(functionName, fmt.Sprintf(`Failed to create hypertable for %s. Err: %s`, table, err), "ERROR")
			return err
		}
		s.deps.LogManager.WriteLog(functionName, fmt.Sprintf(`Created hypertable for %s`, table), "INFO")

		queryCompressHypertable := fmt.Sprintf(`
				ALTER TABLE %s SET (
					timescaledb.compress,
					timescaledb.compress_segmentby = ?);
			`, table)
		err = s.deps.DB.Exec(
			queryCompressHypertable,
			strings.Join(tables[table], ","),
		).Error
		if err != nil {
			s.deps.LogManager.WriteLog(functionName, fmt.Sprintf(`Failed to enable compression for %s. Err: %s`, table, err), "ERROR")
			return err
		}
		s.deps.LogManager.WriteLog(functionName, fmt.Sprintf(`Enabled hypertable compression for %s`, table), "INFO")
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "function", "startStatusMonitor")

		statusFile, err := os.Create(s.deps.StatusDir + "/status.txt")
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(1000 * time.Millisecond)

				perf := s.deps.WorkerManager.Performance()

				if statusFile != nil {
					statusStr, err := json.MarshalIndent(perf, "", "  ")
					if err != nil {
						statusStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.WriteString(string(statusStr) + "\n")
				}

				if err := s.deps.Backend.RecordPerformance(&perf); err != nil {
					logger.Error("Error recording performance snapshot", "error", err)
				}

				if s.deps.Influx != nil {
					sessionName := s.deps.SessionContext.GetSession().Name
					point := influx.PerformancePoint(sessionName, &perf)
					if err := s.deps.Influx.WritePoint(context.Background(), influx.BucketSessionPerformance, point); err != nil {
						logger.Warn("Error writing performance point", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}

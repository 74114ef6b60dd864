package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"gorm.io/gorm"

	"github.com/streetracer/sim/internal/api"
	"github.com/streetracer/sim/internal/cache"
	"github.com/streetracer/sim/internal/channel"
	"github.com/streetracer/sim/internal/config"
	"github.com/streetracer/sim/internal/geo"
	"github.com/streetracer/sim/internal/influx"
	"github.com/streetracer/sim/internal/logging"
	"github.com/streetracer/sim/internal/monitor"
	intOtel "github.com/streetracer/sim/internal/otel"
	"github.com/streetracer/sim/internal/session"
	simpkg "github.com/streetracer/sim/internal/sim"
	"github.com/streetracer/sim/internal/storage"
	pgstorage "github.com/streetracer/sim/internal/storage/postgres"
	"github.com/streetracer/sim/internal/worker"
	"github.com/streetracer/sim/pkg/core"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"

	AppName string = "streetracer"
)

var (
	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()
	SessionLogFile   *os.File
)

func setupLogging() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var err error
	SessionLogFile, err = os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    SessionLogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else if otelCfg.Endpoint != "" {
			Logger.Info("OTel provider initialized", "file", logFilePath, "endpoint", otelCfg.Endpoint)
		} else {
			Logger.Info("OTel provider initialized", "file", logFilePath)
		}
	}

	// Re-setup logging with file output and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(SessionLogFile, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logFilePath)
}

func run() error {
	simCfg, err := config.GetSimConfig()
	if err != nil {
		return fmt.Errorf("invalid sim config: %w", err)
	}
	storageCfg := config.GetStorageConfig()
	trackCfg := config.GetTrackConfig()

	spec, err := config.LoadVehicleSpec(simCfg.VehiclesDir, simCfg.Vehicle)
	if err != nil {
		return err
	}
	spawn, err := geo.PositionFromString(simCfg.Spawn)
	if err != nil {
		return fmt.Errorf("invalid sim.spawn %q: %w", simCfg.Spawn, err)
	}

	sessionCtx := session.NewContext()
	vehicleCache := cache.NewVehicleCache()
	dbLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	backend, err := storage.NewBackend(storageCfg, storage.Dependencies{
		VehicleCache:   vehicleCache,
		LogManager:     SlogManager,
		SessionContext: sessionCtx,
		DBLogger:       dbLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer backend.Close()
	Logger.Info("Storage backend initialized", "type", storageCfg.Type)

	var influxManager *influx.Manager
	if config.GetBool("influx.enabled") {
		backupPath := filepath.Join(storageCfg.Memory.OutputDir, "influx_backup.lp.gz")
		influxManager = influx.NewManager(dbLogger, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("Live telemetry disabled", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	states := channel.New[core.VehicleState](15000)

	runner, err := simpkg.NewRunner(simCfg, spec, spawn, SessionStartTime, states, Logger)
	if err != nil {
		return err
	}

	identity := runner.Vehicle().Identity()
	sess := &core.Session{
		Name:           fmt.Sprintf("%s_%s", simCfg.Vehicle, SessionStartTime.Format("20060102_150405")),
		StartTime:      SessionStartTime,
		TickRate:       simCfg.TickRate,
		PixelsPerMetre: simCfg.PixelsPerMetre,
	}
	track := &core.Track{
		Name:      trackCfg.Name,
		Width:     trackCfg.Width,
		Height:    trackCfg.Height,
		OriginLon: trackCfg.OriginLon,
		OriginLat: trackCfg.OriginLat,
	}

	sessionCtx.SetSession(sess, track)
	if err := backend.StartSession(sess, track); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if err := backend.AddVehicle(&identity); err != nil {
		return fmt.Errorf("failed to register vehicle: %w", err)
	}
	vehicleCache.Add(identity)
	Logger.Info("Session started", "session", sess.Name, "track", track.Name, "vehicle", identity.Name)

	workerManager := worker.NewManager(worker.Dependencies{
		VehicleCache:   vehicleCache,
		LogManager:     SlogManager,
		SessionContext: sessionCtx,
		Influx:         influxManager,
	}, backend, states)
	workerManager.Start()

	var monitorDB *gorm.DB
	if pg, ok := backend.(*pgstorage.Backend); ok && !pg.FellBackToLocal() {
		monitorDB = pg.DB()
	}
	monitorService := monitor.NewService(monitor.Dependencies{
		DB:             monitorDB,
		LogManager:     SlogManager,
		SessionContext: sessionCtx,
		WorkerManager:  workerManager,
		Backend:        backend,
		Influx:         influxManager,
		StatusDir:      viper.GetString("logsDir"),
	})
	if monitorDB != nil {
		err = monitorService.ValidateHypertables(map[string][]string{
			"vehicle_states":       {"session_id", "vehicle_object_id"},
			"session_performances": {"session_id"},
		})
		if err != nil {
			Logger.Warn("Hypertable configuration failed", "error", err)
		}
	}
	monitorService.Start()

	err = runner.Run(context.Background())
	if err != nil {
		Logger.Error("Simulation loop failed", "error", err)
	}

	// Drain the recorder before finalizing the session
	workerManager.Wait()
	monitorService.Stop()

	if err := backend.EndSession(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	Logger.Info("Session recording finalized", "session", sess.Name)

	if u, ok := backend.(storage.Uploadable); ok {
		exportPath := u.GetExportedFilePath()
		Logger.Info("Recording exported", "path", exportPath)

		uploadCfg := config.GetUploadConfig()
		if uploadCfg.Enabled && exportPath != "" {
			client := api.New(uploadCfg.URL, uploadCfg.Secret)
			err := client.Upload(exportPath, api.UploadMetadata{
				TrackName:       track.Name,
				SessionName:     sess.Name,
				SessionDuration: simCfg.Duration.Seconds(),
				Tag:             uploadCfg.Tag,
			})
			if err != nil {
				Logger.Warn("Failed to upload recording", "error", err)
			} else {
				Logger.Info("Recording uploaded", "url", uploadCfg.URL)
			}
		}
	}

	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Warn("Failed to flush OTel data", "error", err)
		}
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}

	return nil
}

func main() {
	configDir := flag.String("config", "./config", "directory containing streetracer.cfg.json")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (built %s)\n", AppName, Version, BuildDate)
		return
	}

	err := config.Load(*configDir)

	setupLogging()
	if err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "dir", *configDir)
	}
	Logger.Info("Starting up...", "version", Version, "buildDate", BuildDate)

	if err := run(); err != nil {
		Logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

// Package config loads the application configuration (JSON via viper,
// every key seeded with a default) and the per-vehicle spec files.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/streetracer/sim/pkg/core"
)

// defaultPixelsPerMetre is the sprite scale the default physics were
// tuned against, a 71px car image of a 4.29m vehicle.
const defaultPixelsPerMetre = 71.0 / 4.29

// SimConfig holds the simulation loop settings.
type SimConfig struct {
	TickRate       float64
	Duration       time.Duration
	Realtime       bool
	Vehicle        string
	VehiclesDir    string
	Spawn          string // "x,y" in world pixels
	PixelsPerMetre float64
	Script         []core.ScriptSegment
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings.
type SQLiteConfig struct {
	DumpInterval time.Duration
	DumpPath     string
}

// StorageConfig selects and configures the recording backend.
type StorageConfig struct {
	Type   string
	Memory MemoryConfig
	SQLite SQLiteConfig
}

// OTelConfig holds OpenTelemetry export settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// UploadConfig holds replay frontend upload settings.
type UploadConfig struct {
	Enabled bool
	URL     string
	Secret  string
	Tag     string
}

// TrackConfig describes the simulated world.
type TrackConfig struct {
	Name      string
	Width     float64
	Height    float64
	OriginLon float64
	OriginLat float64
}

// Load reads configuration from the JSON file in configDir and sets
// default values for every key.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./racerlogs")

	viper.SetDefault("sim.tickRate", 60.0)
	viper.SetDefault("sim.duration", "60s")
	viper.SetDefault("sim.realtime", false)
	viper.SetDefault("sim.vehicle", "McLarenF1")
	viper.SetDefault("sim.vehiclesDir", "./config/vehicles")
	viper.SetDefault("sim.spawn", "640,650")
	viper.SetDefault("sim.pixelsPerMetre", defaultPixelsPerMetre)

	viper.SetDefault("track.name", "Default Strip")
	viper.SetDefault("track.width", 1280.0)
	viper.SetDefault("track.height", 720.0)
	viper.SetDefault("track.originLon", 0.0)
	viper.SetDefault("track.originLat", 0.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "./recordings/session.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "streetracer")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "streetracer-telemetry")

	viper.SetDefault("upload.enabled", false)
	viper.SetDefault("upload.url", "http://localhost:5000")
	viper.SetDefault("upload.secret", "")
	viper.SetDefault("upload.tag", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "streetracer-sim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("streetracer.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string { return viper.GetString(key) }

// GetInt returns an int config value.
func GetInt(key string) int { return viper.GetInt(key) }

// GetBool returns a bool config value.
func GetBool(key string) bool { return viper.GetBool(key) }

// GetSimConfig returns the simulation loop settings.
func GetSimConfig() (SimConfig, error) {
	cfg := SimConfig{
		TickRate:       viper.GetFloat64("sim.tickRate"),
		Duration:       viper.GetDuration("sim.duration"),
		Realtime:       viper.GetBool("sim.realtime"),
		Vehicle:        viper.GetString("sim.vehicle"),
		VehiclesDir:    viper.GetString("sim.vehiclesDir"),
		Spawn:          viper.GetString("sim.spawn"),
		PixelsPerMetre: viper.GetFloat64("sim.pixelsPerMetre"),
	}
	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("sim.tickRate must be positive, got %v", cfg.TickRate)
	}
	if cfg.PixelsPerMetre <= 0 {
		return cfg, fmt.Errorf("sim.pixelsPerMetre must be positive, got %v", cfg.PixelsPerMetre)
	}
	if err := viper.UnmarshalKey("sim.script", &cfg.Script); err != nil {
		return cfg, fmt.Errorf("error parsing sim.script: %w", err)
	}
	return cfg, nil
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetUploadConfig returns the replay frontend upload settings.
func GetUploadConfig() UploadConfig {
	return UploadConfig{
		Enabled: viper.GetBool("upload.enabled"),
		URL:     viper.GetString("upload.url"),
		Secret:  viper.GetString("upload.secret"),
		Tag:     viper.GetString("upload.tag"),
	}
}

// GetTrackConfig returns the simulated world settings.
func GetTrackConfig() TrackConfig {
	return TrackConfig{
		Name:      viper.GetString("track.name"),
		Width:     viper.GetFloat64("track.width"),
		Height:    viper.GetFloat64("track.height"),
		OriginLon: viper.GetFloat64("track.originLon"),
		OriginLat: viper.GetFloat64("track.originLat"),
	}
}

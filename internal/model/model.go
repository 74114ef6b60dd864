package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Track{},
	&Session{},
	&Vehicle{},
	&VehicleState{},
	&SessionPerformance{},
}

var DatabaseModelsSQLite = []interface{}{
	&Track{},
	&Session{},
	&Vehicle{},
	&VehicleState{},
	&SessionPerformance{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// SessionPerformance is the model for recorder performance metrics
type SessionPerformance struct {
	Time                time.Time `json:"time" gorm:"type:timestamptz;index:idx_time"`
	SessionID           uint      `json:"sessionId" gorm:"index:idx_sessionperformance_session_id"`
	Session             Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick                uint      `json:"tick"`
	WriteQueueLength    uint16    `json:"writeQueueLength"`
	LastWriteDurationMs float32   `json:"lastWriteDurationMs"`
}

func (*SessionPerformance) TableName() string {
	return "session_performances"
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Track is the main model for a track
type Track struct {
	gorm.Model
	Name      string     `json:"name" gorm:"size:127"`
	Width     float32    `json:"width"`  // pixels
	Height    float32    `json:"height"` // pixels
	Latitude  float32    `json:"latitude" gorm:"-"`
	Longitude float32    `json:"longitude" gorm:"-"`
	Location  geom.Point `json:"location"`
	Sessions  []Session
}

func (*Track) TableName() string {
	return "tracks"
}

func (t *Track) GetOrInsert(db *gorm.DB) (
	created bool,
	err error,
) {
	var existingTrack Track
	err = db.Where("name = ?", t.Name).First(&existingTrack).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// insert
			err = db.Create(t).Error
			return true, err
		}
		return false, err
	}
	// overwrite with db record if found
	*t = existingTrack
	return false, nil
}

// Session is the main model for a recorded run
type Session struct {
	gorm.Model
	SessionName    string    `json:"sessionName" gorm:"size:200"`
	StartTime      time.Time `json:"sessionStart" gorm:"type:timestamptz;index:idx_session_start"`
	TrackID        uint
	Track          Track   `gorm:"foreignkey:TrackID"`
	TickRate       float32 `json:"tickRate" gorm:"default:60"`
	PixelsPerMetre float32 `json:"pixelsPerMetre"`
	SimVersion     string  `json:"simVersion" gorm:"size:64;default:1.0.0"`
	Tag            string  `json:"tag" gorm:"size:127"`

	Performances []SessionPerformance
}

func (*Session) TableName() string {
	return "sessions"
}

// Vehicle is a simulated car participating in a session
// Uses composite primary key (SessionID, ObjectID) - ObjectID is the sim-assigned sequential ID
type Vehicle struct {
	SessionID   uint           `json:"sessionId" gorm:"primaryKey;autoIncrement:false"`
	ObjectID    uint16         `json:"objectId" gorm:"primaryKey;autoIncrement:false"` // sim-assigned sequential ID
	Session     Session        `gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	SpawnTime   time.Time      `json:"spawnTime" gorm:"type:timestamptz;NOT NULL;index:idx_vehicle_spawn_time"` // Wall time when vehicle entered the session
	ClassName   string         `json:"className" gorm:"size:64"`                                               // Vehicle class: car, truck, etc.
	DisplayName string         `json:"displayName" gorm:"size:64"`                                             // Human readable name from the spec file
	Spec        datatypes.JSON `json:"spec" gorm:"type:jsonb;default:'{}'"`                                    // Full vehicle spec as JSON
}

func (*Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) Get(db *gorm.DB) (err error) {
	err = db.Where(&v).Order(
		"spawn_time DESC",
	).First(&v).Error
	return err
}

// VehicleState tracks vehicle state at a point in time
// References Vehicle by (SessionID, VehicleObjectID) composite FK
type VehicleState struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time            time.Time `json:"time" gorm:"type:timestamptz;"` // Wall time when state was recorded
	SessionID       uint      `json:"sessionId" gorm:"index:idx_vehiclestate_session_id"`
	Session         Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick            uint      `json:"tick" gorm:"index:idx_vehiclestate_tick"` // Tick number in the simulation timeline
	VehicleObjectID uint16    `json:"vehicleObjectId" gorm:"index:idx_vehiclestate_vehicle_object_id"`
	Vehicle         Vehicle   `gorm:"foreignkey:SessionID,VehicleObjectID;references:SessionID,ObjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Position   geom.Point `json:"position"`             // Position in world (pixel) coordinates as 2D point
	Heading    float64    `json:"heading"`              // Heading in degrees, unbounded
	Velocity   float64    `json:"velocity"`             // Signed velocity in m/s, positive = forward
	EngineRPM  float64    `json:"engineRpm"`            // Engine RPM, clamped to the spec's operating range
	Gear       uint8      `json:"gear"`                 // Engaged gear, 1-indexed
	ShiftTimer float64    `json:"shiftTimer"`           // Seconds remaining in shift lockout, 0 = engaged
	Accelerate float64    `json:"accelerate"`           // Throttle/brake intent [-1, 1]
	Steer      float64    `json:"steer"`                // Steering intent [-1, 1]
	Handbrake  float64    `json:"handbrake"`            // Handbrake intent [0, 1]
}

func (*VehicleState) TableName() string {
	return "vehicle_states"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DeviceStatusOnline  = "online"
	DeviceStatusOffline = "offline"
)

// Device is a registered dryer. DeviceID is the external hardware identifier
// (e.g. "SD-1042") the device itself reports with; ID is the internal key.
type Device struct {
	BaseModel
	DeviceID     string         `gorm:"type:text;uniqueIndex;not null"   json:"deviceId"`
	Name         string         `gorm:"type:text;not null"               json:"name"`
	Model        string         `gorm:"type:text"                        json:"model"`
	Status       string         `gorm:"type:text;default:offline"        json:"status"`
	Capabilities datatypes.JSON `gorm:"type:jsonb"                       json:"capabilities,omitempty"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null"         json:"userId"`
	User         *User          `gorm:"foreignKey:UserID"                json:"user,omitempty"`

	DryingCycles   []DryingCycle   `gorm:"foreignKey:DeviceID" json:"dryingCycles,omitempty"`
	SensorReadings []SensorReading `gorm:"foreignKey:DeviceID" json:"sensorReadings,omitempty"`
}

// DeviceRef is the denormalized device info embedded in cycle and reading
// responses.
type DeviceRef struct {
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
}

func (d *Device) Ref() DeviceRef {
	return DeviceRef{DeviceID: d.DeviceID, Name: d.Name}
}

// LiveDeviceStatus is the ephemeral device state kept under
// device:status:<deviceId>. Refreshed on every sensor ingest, expires after
// an hour of silence.
type LiveDeviceStatus struct {
	Status      string       `json:"status"`
	LastSeen    time.Time    `json:"lastSeen"`
	LastReading *ReadingData `json:"lastReading,omitempty"`
}

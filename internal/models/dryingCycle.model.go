package models

import "time"

// Cycle status values. A cycle is created in_progress (pending exists only as
// a transient creation state, there is no approval step) and leaves it exactly
// once, to completed or error.
const (
	CycleStatusPending    = "pending"
	CycleStatusInProgress = "in_progress"
	CycleStatusCompleted  = "completed"
	CycleStatusError      = "error"
)

// Drying modes. Stored as free-form strings so firmware can introduce new
// modes without a schema change; unknown modes fall back to Normal timings.
const (
	ModeQuick     = "Quick"
	ModeDelicate  = "Delicate"
	ModeNormal    = "Normal"
	ModeHeavyDuty = "Heavy Duty"
	ModeEco       = "Eco"
)

// DryingCycle is the durable record of one dryer run. EndTime, Duration and
// EnergyUsed are set if and only if Status is completed. Rows are never
// deleted in normal operation; they are the history the dashboard charts.
type DryingCycle struct {
	BaseModel
	DeviceID    int        `gorm:"index;not null"      json:"-"`
	Device      *Device    `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	Mode        string     `gorm:"type:text;not null"  json:"mode"`
	Temperature float64    `gorm:"not null"            json:"temperature"`
	FanSpeed    int        `gorm:"not null"            json:"fanSpeed"`
	AIEnabled   bool       `gorm:"default:true"        json:"aiEnabled"`
	EcoMode     bool       `gorm:"default:false"       json:"ecoMode"`
	StartTime   time.Time  `gorm:"not null;index"      json:"startTime"`
	EndTime     *time.Time `                           json:"endTime,omitempty"`
	Duration    *int       `                           json:"duration,omitempty"`
	EnergyUsed  *float64   `                           json:"energyUsed,omitempty"`
	Status      string     `gorm:"type:text;default:in_progress;index" json:"status"`
}

func (c *DryingCycle) IsCompleted() bool {
	return c.Status == CycleStatusCompleted
}

func (c *DryingCycle) IsActive() bool {
	return c.Status == CycleStatusInProgress
}

// ActiveCycleSnapshot is the ephemeral state of an in-progress cycle, kept
// under drying:active:<cycleId>. It is a cache, not a second source of truth:
// if absent, the durable DryingCycle row is authoritative. Overwritten in
// place on every read and device report, deleted the instant the cycle
// completes.
type ActiveCycleSnapshot struct {
	CycleID     int       `json:"cycleId"`
	Device      DeviceRef `json:"device"`
	Mode        string    `json:"mode"`
	Temperature float64   `json:"temperature"`
	FanSpeed    int       `json:"fanSpeed"`
	AIEnabled   bool      `json:"aiEnabled"`
	EcoMode     bool      `json:"ecoMode"`

	// Progress is 0-100. Time-derived values cap at 99; only an explicit
	// device report of 100 completes the cycle.
	Progress int `json:"progress"`

	// EstimatedTotalMinutes is fixed at cycle start; EstimatedTimeRemaining
	// is refreshed on every read and never drops below 1 while active.
	EstimatedTotalMinutes  int       `json:"estimatedTotalMinutes"`
	EstimatedTimeRemaining int       `json:"estimatedTimeRemaining"`
	StartedAt              time.Time `json:"startedAt"`

	CurrentMoisture    *float64 `json:"currentMoisture,omitempty"`
	CurrentTemperature *float64 `json:"currentTemperature,omitempty"`
	CurrentWeight      *float64 `json:"currentWeight,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`
}

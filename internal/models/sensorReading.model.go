package models

import "time"

// ReadingData is one raw sensor sample as reported by a device.
type ReadingData struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Moisture    float64 `json:"moisture"`
	Weight      float64 `json:"weight"`
}

type SensorReading struct {
	BaseModel
	DeviceID    int       `gorm:"index;not null"      json:"-"`
	Device      *Device   `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	Temperature float64   `gorm:"not null"            json:"temperature"`
	Humidity    float64   `gorm:"not null"            json:"humidity"`
	Moisture    float64   `gorm:"not null"            json:"moisture"`
	Weight      float64   `gorm:"not null"            json:"weight"`
	Timestamp   time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (r *SensorReading) Data() ReadingData {
	return ReadingData{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Moisture:    r.Moisture,
		Weight:      r.Weight,
	}
}

package seed

import (
	"time"

	"smartdry/config"
	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/simulator"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}

// Seed loads a demo user with two dryers, a week of sensor history, a few
// finished cycles and their notifications. Development only.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	sim := simulator.New(20250829)

	user := User{
		FirstName:  "Dev",
		LastName:   "User",
		Email:      stringPtr("dev@example.com"),
		OIDCUserID: "dev-local",
		IsActive:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		return log.Err("failed to seed user", err)
	}

	devices := []Device{
		{
			DeviceID:     "SD-1042",
			Name:         "Basement Dryer",
			Model:        "SmartDry 3000",
			Status:       DeviceStatusOffline,
			Capabilities: datatypes.JSON([]byte(`{"moistureSensor":true,"maxTemp":85}`)),
			UserID:       user.ID,
		},
		{
			DeviceID:     sim.GenerateDeviceID(),
			Name:         sim.RandomDeviceName(),
			Model:        sim.RandomModel(),
			Status:       DeviceStatusOffline,
			Capabilities: datatypes.JSON([]byte(`{"moistureSensor":true,"maxTemp":75}`)),
			UserID:       user.ID,
		},
	}
	for i := range devices {
		if err := db.Create(&devices[i]).Error; err != nil {
			return log.Err("failed to seed device", err, "deviceID", devices[i].DeviceID)
		}
	}

	// A week of readings per device, one drying run per day.
	for _, device := range devices {
		for day := 7; day >= 1; day-- {
			start := time.Now().AddDate(0, 0, -day)
			reading := sim.InitialReading()
			for tick := range 12 {
				row := SensorReading{
					DeviceID:    device.ID,
					Temperature: reading.Temperature,
					Humidity:    reading.Humidity,
					Moisture:    reading.Moisture,
					Weight:      reading.Weight,
					Timestamp:   start.Add(time.Duration(tick*5) * time.Minute),
				}
				if err := db.Create(&row).Error; err != nil {
					return log.Err("failed to seed sensor reading", err)
				}
				reading = sim.NextReading(reading, 65)
			}
		}
	}

	// Finished cycles with plausible durations and energy use.
	cycles := []DryingCycle{
		{
			DeviceID:    devices[0].ID,
			Mode:        ModeQuick,
			Temperature: 65,
			FanSpeed:    3,
			AIEnabled:   true,
			StartTime:   time.Now().Add(-48 * time.Hour),
			EndTime:     timePtr(time.Now().Add(-48*time.Hour + 26*time.Minute)),
			Duration:    intPtr(26),
			EnergyUsed:  floatPtr(0.72),
			Status:      CycleStatusCompleted,
		},
		{
			DeviceID:    devices[0].ID,
			Mode:        ModeHeavyDuty,
			Temperature: 75,
			FanSpeed:    4,
			AIEnabled:   true,
			EcoMode:     true,
			StartTime:   time.Now().Add(-24 * time.Hour),
			EndTime:     timePtr(time.Now().Add(-24*time.Hour + 85*time.Minute)),
			Duration:    intPtr(85),
			EnergyUsed:  floatPtr(1.38),
			Status:      CycleStatusCompleted,
		},
		{
			DeviceID:    devices[1].ID,
			Mode:        ModeNormal,
			Temperature: 60,
			FanSpeed:    2,
			AIEnabled:   true,
			StartTime:   time.Now().Add(-12 * time.Hour),
			EndTime:     timePtr(time.Now().Add(-12*time.Hour + 51*time.Minute)),
			Duration:    intPtr(51),
			EnergyUsed:  floatPtr(1.08),
			Status:      CycleStatusCompleted,
		},
	}
	for i := range cycles {
		if err := db.Create(&cycles[i]).Error; err != nil {
			return log.Err("failed to seed cycle", err)
		}
	}

	notifications := []Notification{
		{
			UserID:  user.ID,
			Title:   "Drying Cycle Complete",
			Message: "Basement Dryer finished its Quick cycle using 0.72 kWh",
			Type:    NotificationTypeSuccess,
			Read:    true,
		},
		{
			UserID:  user.ID,
			Title:   "Drying Cycle Complete",
			Message: "Basement Dryer finished its Heavy Duty cycle using 1.38 kWh",
			Type:    NotificationTypeSuccess,
		},
	}
	for i := range notifications {
		if err := db.Create(&notifications[i]).Error; err != nil {
			return log.Err("failed to seed notification", err)
		}
	}

	log.Info("Seed complete",
		"devices", len(devices), "cycles", len(cycles), "notifications", len(notifications))
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

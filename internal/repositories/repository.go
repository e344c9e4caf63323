package repositories

import (
	"smartdry/internal/database"
)

type Repository struct {
	User          UserRepository
	Device        DeviceRepository
	Cycle         CycleRepository
	Snapshot      SnapshotRepository
	SensorReading SensorReadingRepository
	Notification  NotificationRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:          NewUserRepository(db),
		Device:        NewDeviceRepository(db),
		Cycle:         NewCycleRepository(db),
		Snapshot:      NewSnapshotRepository(db),
		SensorReading: NewSensorReadingRepository(db),
		Notification:  NewNotificationRepository(db),
	}
}

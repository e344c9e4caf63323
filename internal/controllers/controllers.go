package controllers

import (
	"smartdry/internal/events"
	"smartdry/internal/repositories"
	"smartdry/internal/services"

	cycleController "smartdry/internal/controllers/cycles"
	deviceController "smartdry/internal/controllers/devices"
	notificationController "smartdry/internal/controllers/notifications"
	sensorController "smartdry/internal/controllers/sensors"
	userController "smartdry/internal/controllers/users"
)

type Controllers struct {
	User         userController.UserControllerInterface
	Device       deviceController.DeviceControllerInterface
	Cycle        cycleController.CycleControllerInterface
	Sensor       sensorController.SensorControllerInterface
	Notification notificationController.NotificationControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
) Controllers {
	notification := notificationController.New(repos, services.Slack, eventBus)

	return Controllers{
		User:         userController.New(repos, services.Identity),
		Device:       deviceController.New(repos, services.Transaction),
		Cycle:        cycleController.New(repos, notification, eventBus),
		Sensor:       sensorController.New(repos, eventBus),
		Notification: notification,
	}
}

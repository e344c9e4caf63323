package jobs

import (
	"context"

	"smartdry/internal/events"
	"smartdry/internal/logger"
	"smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"
)

// DeviceOfflineJob flips devices back to offline when their live status key
// has expired. A dryer that stops reporting keeps its durable online flag
// until this sweep notices the cache entry is gone.
type DeviceOfflineJob struct {
	deviceRepo repositories.DeviceRepository
	eventBus   *events.EventBus
	log        logger.Logger
	schedule   services.Schedule
}

func NewDeviceOfflineJob(
	deviceRepo repositories.DeviceRepository,
	eventBus *events.EventBus,
	schedule services.Schedule,
) *DeviceOfflineJob {
	log := logger.New("deviceOfflineJob")
	log.Info("Creating new device offline job", "schedule", schedule)

	return &DeviceOfflineJob{
		deviceRepo: deviceRepo,
		eventBus:   eventBus,
		log:        log,
		schedule:   schedule,
	}
}

func (j *DeviceOfflineJob) Name() string {
	return "DeviceOfflineSweep"
}

func (j *DeviceOfflineJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	devices, err := j.deviceRepo.ListByStatus(ctx, models.DeviceStatusOnline)
	if err != nil {
		return log.Err("failed to list online devices", err)
	}

	marked := 0
	for i := range devices {
		device := &devices[i]

		_, found, err := j.deviceRepo.GetLiveStatus(ctx, device.DeviceID)
		if err != nil {
			log.Warn("failed to read live status", "deviceID", device.DeviceID, "error", err)
			continue
		}
		if found {
			continue
		}

		device.Status = models.DeviceStatusOffline
		if err := j.deviceRepo.Update(ctx, device); err != nil {
			log.Warn("failed to mark device offline", "deviceID", device.DeviceID, "error", err)
			continue
		}
		marked++

		if j.eventBus != nil {
			event := events.Event{
				Type:    events.DEVICE_OFFLINE,
				Channel: events.DEVICES_CHANNEL,
				UserID:  &device.UserID,
				Data: map[string]any{
					"deviceId": device.DeviceID,
				},
			}
			if err := j.eventBus.Publish(events.DEVICES_CHANNEL, event); err != nil {
				log.Warn("failed to publish device offline event",
					"deviceID", device.DeviceID, "error", err)
			}
		}
	}

	log.Info("Device offline sweep completed", "checked", len(devices), "marked", marked)
	return nil
}

func (j *DeviceOfflineJob) Schedule() services.Schedule {
	return j.schedule
}

package sensorController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartdry/internal/events"
	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// EventPublisher is satisfied by *events.EventBus.
type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type SensorControllerInterface interface {
	Ingest(ctx context.Context, deviceID string, data ReadingData) (*SensorReading, error)
	List(ctx context.Context, user *User, deviceID string, limit int) ([]SensorReading, error)
	Predict(ctx context.Context, user *User, deviceID string) (*DryingPrediction, error)
}

type SensorController struct {
	deviceRepo  repositories.DeviceRepository
	readingRepo repositories.SensorReadingRepository
	eventBus    EventPublisher
	log         logger.Logger
}

func New(repos repositories.Repository, eventBus EventPublisher) SensorControllerInterface {
	return &SensorController{
		deviceRepo:  repos.Device,
		readingRepo: repos.SensorReading,
		eventBus:    eventBus,
		log:         logger.New("sensorController"),
	}
}

// Ingest persists a device-reported sample and refreshes the ephemeral live
// status. Ingest is device-originated, not user-originated, so it resolves
// the device by its hardware identifier without an ownership check.
func (c *SensorController) Ingest(
	ctx context.Context,
	deviceID string,
	data ReadingData,
) (*SensorReading, error) {
	log := c.log.Function("Ingest")

	if err := validateReading(data); err != nil {
		return nil, err
	}

	device, err := c.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: device %s", ErrNotFound, deviceID)
		}
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to look up device",
			"error", err, "deviceID", deviceID)
	}

	reading := &SensorReading{
		DeviceID:    device.ID,
		Temperature: data.Temperature,
		Humidity:    data.Humidity,
		Moisture:    data.Moisture,
		Weight:      data.Weight,
	}

	if err := c.readingRepo.Create(ctx, reading); err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to persist sensor reading",
			"error", err, "deviceID", deviceID)
	}

	c.refreshLiveStatus(ctx, device, data)

	if c.eventBus != nil {
		event := events.Event{
			Type: events.SENSOR_READING,
			Data: map[string]any{
				"deviceId": deviceID,
				"moisture": data.Moisture,
			},
		}
		if err := c.eventBus.Publish(events.DEVICES_CHANNEL, event); err != nil {
			log.Warn("failed to publish sensor event", "deviceID", deviceID, "error", err)
		}
	}

	return reading, nil
}

// refreshLiveStatus bumps the ephemeral status key and, when the durable row
// still says offline, flips it to online. Status cache failures degrade to
// the durable status.
func (c *SensorController) refreshLiveStatus(
	ctx context.Context,
	device *Device,
	data ReadingData,
) {
	log := c.log.Function("refreshLiveStatus")

	status := &LiveDeviceStatus{
		Status:      DeviceStatusOnline,
		LastSeen:    time.Now(),
		LastReading: &data,
	}
	if err := c.deviceRepo.SetLiveStatus(ctx, device.DeviceID, status); err != nil {
		log.Warn("failed to refresh live device status", "deviceID", device.DeviceID, "error", err)
	}

	if device.Status != DeviceStatusOnline {
		device.Status = DeviceStatusOnline
		if err := c.deviceRepo.Update(ctx, device); err != nil {
			log.Warn("failed to mark device online", "deviceID", device.DeviceID, "error", err)
		}
	}
}

func (c *SensorController) List(
	ctx context.Context,
	user *User,
	deviceID string,
	limit int,
) ([]SensorReading, error) {
	device, err := c.getOwned(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	readings, err := c.readingRepo.ListByDevice(ctx, device.ID, limit)
	if err != nil {
		return nil, c.log.Function("List").
			ErrorWithType(ErrStoreUnavailable, "failed to list sensor readings",
				"error", err, "deviceID", deviceID)
	}

	return readings, nil
}

// Predict estimates drying time for the current load from the latest sensor
// sample. It is a heuristic for the dashboard's "what if I start now" card,
// not the authority on cycle duration.
func (c *SensorController) Predict(
	ctx context.Context,
	user *User,
	deviceID string,
) (*DryingPrediction, error) {
	device, err := c.getOwned(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	readings, err := c.readingRepo.ListByDevice(ctx, device.ID, 1)
	if err != nil {
		return nil, c.log.Function("Predict").
			ErrorWithType(ErrStoreUnavailable, "failed to read latest sample",
				"error", err, "deviceID", deviceID)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: no sensor readings for device %s", ErrNotFound, deviceID)
	}

	latest := readings[0].Data()
	prediction := PredictDryingTime(latest)
	prediction.DeviceID = deviceID

	return &prediction, nil
}

func (c *SensorController) getOwned(
	ctx context.Context,
	user *User,
	deviceID string,
) (*Device, error) {
	device, err := c.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: device %s", ErrNotFound, deviceID)
		}
		return nil, c.log.ErrorWithType(ErrStoreUnavailable, "failed to look up device",
			"error", err, "deviceID", deviceID)
	}

	if device.UserID != user.ID {
		return nil, fmt.Errorf("%w: device %s", ErrNotFound, deviceID)
	}

	return device, nil
}

func validateReading(data ReadingData) error {
	if data.Humidity < 0 || data.Humidity > 100 {
		return fmt.Errorf("%w: humidity must be 0-100, got %.1f", ErrInvalidInput, data.Humidity)
	}
	if data.Moisture < 0 || data.Moisture > 100 {
		return fmt.Errorf("%w: moisture must be 0-100, got %.1f", ErrInvalidInput, data.Moisture)
	}
	if data.Weight < 0 {
		return fmt.Errorf("%w: weight cannot be negative", ErrInvalidInput)
	}
	return nil
}

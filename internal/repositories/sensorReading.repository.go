package repositories

import (
	"context"

	"smartdry/internal/constants"
	"smartdry/internal/database"
	"smartdry/internal/logger"
	. "smartdry/internal/models"

	"github.com/google/uuid"
)

type SensorReadingRepository interface {
	Create(ctx context.Context, reading *SensorReading) error
	ListByDevice(ctx context.Context, deviceID int, limit int) ([]SensorReading, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]SensorReading, error)
}

type sensorReadingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSensorReadingRepository(db database.DB) SensorReadingRepository {
	return &sensorReadingRepository{
		db:  db,
		log: logger.New("sensorReadingRepository"),
	}
}

func (r *sensorReadingRepository) Create(ctx context.Context, reading *SensorReading) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(reading).Error; err != nil {
		return log.Err("failed to create sensor reading", err, "deviceID", reading.DeviceID)
	}

	// The cached window is stale the moment a new reading lands; drop it and
	// let the next list read repopulate.
	if err := database.NewCacheBuilder(r.db.Cache.Device, reading.DeviceID).
		WithPrefix(constants.DeviceSensorCachePrefix).
		WithContext(ctx).
		Delete(); err != nil {
		log.Warn("failed to invalidate sensor reading cache", "deviceID", reading.DeviceID, "error", err)
	}

	return nil
}

func (r *sensorReadingRepository) ListByDevice(
	ctx context.Context,
	deviceID int,
	limit int,
) ([]SensorReading, error) {
	log := r.log.Function("ListByDevice")

	if limit <= 0 || limit > constants.MaxSensorReadingLimit {
		limit = constants.DefaultSensorReadingLimit
	}

	var cached []SensorReading
	found, err := database.NewCacheBuilder(r.db.Cache.Device, deviceID).
		WithPrefix(constants.DeviceSensorCachePrefix).
		WithContext(ctx).
		Get(&cached)
	if err == nil && found && len(cached) >= limit {
		return cached[:limit], nil
	}

	var readings []SensorReading
	if err := r.db.SQLWithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error; err != nil {
		return nil, log.Err("failed to list sensor readings", err, "deviceID", deviceID)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Device, deviceID).
		WithPrefix(constants.DeviceSensorCachePrefix).
		WithStruct(readings).
		WithTTL(constants.DeviceSensorCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache sensor readings", "deviceID", deviceID, "error", err)
	}

	return readings, nil
}

func (r *sensorReadingRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]SensorReading, error) {
	if limit <= 0 || limit > constants.MaxSensorReadingLimit {
		limit = constants.DefaultSensorReadingLimit
	}

	var readings []SensorReading
	if err := r.db.SQLWithContext(ctx).
		Preload("Device").
		Joins("JOIN devices ON devices.id = sensor_readings.device_id").
		Where("devices.user_id = ?", userID).
		Order("sensor_readings.timestamp DESC").
		Limit(limit).
		Find(&readings).Error; err != nil {
		return nil, r.log.Function("ListByUser").
			Err("failed to list sensor readings", err, "userID", userID)
	}

	return readings, nil
}

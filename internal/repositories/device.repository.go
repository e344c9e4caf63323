package repositories

import (
	"context"

	"smartdry/internal/constants"
	"smartdry/internal/database"
	"smartdry/internal/logger"
	. "smartdry/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, id int) (*Device, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*Device, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Device, error)
	ListByStatus(ctx context.Context, status string) ([]Device, error)
	Update(ctx context.Context, device *Device) error
	DeleteWithAssociations(ctx context.Context, tx *gorm.DB, device *Device) error

	GetLiveStatus(ctx context.Context, deviceID string) (*LiveDeviceStatus, bool, error)
	SetLiveStatus(ctx context.Context, deviceID string, status *LiveDeviceStatus) error
}

type deviceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewDeviceRepository(db database.DB) DeviceRepository {
	return &deviceRepository{
		db:  db,
		log: logger.New("deviceRepository"),
	}
}

func (r *deviceRepository) Create(ctx context.Context, device *Device) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(device).Error; err != nil {
		return log.Err("failed to create device", err, "deviceID", device.DeviceID)
	}

	return nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id int) (*Device, error) {
	var device Device
	if err := r.db.SQLWithContext(ctx).First(&device, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, r.log.Function("GetByID").
			Err("failed to get device", err, "id", id)
	}

	return &device, nil
}

func (r *deviceRepository) GetByDeviceID(ctx context.Context, deviceID string) (*Device, error) {
	var device Device
	if err := r.db.SQLWithContext(ctx).First(&device, "device_id = ?", deviceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, r.log.Function("GetByDeviceID").
			Err("failed to get device", err, "deviceID", deviceID)
	}

	return &device, nil
}

func (r *deviceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Device, error) {
	var devices []Device
	if err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&devices).Error; err != nil {
		return nil, r.log.Function("ListByUser").
			Err("failed to list devices", err, "userID", userID)
	}

	return devices, nil
}

func (r *deviceRepository) ListByStatus(ctx context.Context, status string) ([]Device, error) {
	var devices []Device
	if err := r.db.SQLWithContext(ctx).
		Where("status = ?", status).
		Find(&devices).Error; err != nil {
		return nil, r.log.Function("ListByStatus").
			Err("failed to list devices by status", err, "status", status)
	}

	return devices, nil
}

func (r *deviceRepository) Update(ctx context.Context, device *Device) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(device).Error; err != nil {
		return log.Err("failed to update device", err, "deviceID", device.DeviceID)
	}

	return nil
}

// DeleteWithAssociations removes the device along with its sensor readings
// and drying cycles inside the caller's transaction. Any active-cycle
// snapshot left behind in the cache is evicted by the hourly sweep.
func (r *deviceRepository) DeleteWithAssociations(
	ctx context.Context,
	tx *gorm.DB,
	device *Device,
) error {
	log := r.log.Function("DeleteWithAssociations")

	if err := tx.WithContext(ctx).
		Where("device_id = ?", device.ID).
		Delete(&SensorReading{}).Error; err != nil {
		return log.Err("failed to delete sensor readings", err, "deviceID", device.DeviceID)
	}

	if err := tx.WithContext(ctx).
		Where("device_id = ?", device.ID).
		Delete(&DryingCycle{}).Error; err != nil {
		return log.Err("failed to delete drying cycles", err, "deviceID", device.DeviceID)
	}

	if err := tx.WithContext(ctx).Delete(&Device{}, "id = ?", device.ID).Error; err != nil {
		return log.Err("failed to delete device", err, "deviceID", device.DeviceID)
	}

	return nil
}

func (r *deviceRepository) GetLiveStatus(
	ctx context.Context,
	deviceID string,
) (*LiveDeviceStatus, bool, error) {
	var status LiveDeviceStatus
	found, err := database.NewCacheBuilder(r.db.Cache.Device, deviceID).
		WithPrefix(constants.DeviceStatusCachePrefix).
		WithContext(ctx).
		Get(&status)
	if err != nil {
		return nil, false, r.log.Function("GetLiveStatus").
			Err("failed to get live device status", err, "deviceID", deviceID)
	}
	if !found {
		return nil, false, nil
	}

	return &status, true, nil
}

func (r *deviceRepository) SetLiveStatus(
	ctx context.Context,
	deviceID string,
	status *LiveDeviceStatus,
) error {
	if err := database.NewCacheBuilder(r.db.Cache.Device, deviceID).
		WithPrefix(constants.DeviceStatusCachePrefix).
		WithStruct(status).
		WithTTL(constants.DeviceStatusCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("SetLiveStatus").
			Err("failed to set live device status", err, "deviceID", deviceID)
	}

	return nil
}

package jobs

import (
	"context"
	"testing"

	. "smartdry/internal/models"
	"smartdry/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDeviceRepo struct {
	devices    map[string]*Device
	liveStatus map[string]*LiveDeviceStatus
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{
		devices:    make(map[string]*Device),
		liveStatus: make(map[string]*LiveDeviceStatus),
	}
}

func (f *fakeDeviceRepo) Create(ctx context.Context, device *Device) error {
	f.devices[device.DeviceID] = device
	return nil
}

func (f *fakeDeviceRepo) GetByID(ctx context.Context, id int) (*Device, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*Device, error) {
	device, ok := f.devices[deviceID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return device, nil
}

func (f *fakeDeviceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Device, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) ListByStatus(ctx context.Context, status string) ([]Device, error) {
	var devices []Device
	for _, device := range f.devices {
		if device.Status == status {
			devices = append(devices, *device)
		}
	}
	return devices, nil
}

func (f *fakeDeviceRepo) Update(ctx context.Context, device *Device) error {
	f.devices[device.DeviceID] = device
	return nil
}

func (f *fakeDeviceRepo) DeleteWithAssociations(
	ctx context.Context,
	tx *gorm.DB,
	device *Device,
) error {
	return nil
}

func (f *fakeDeviceRepo) GetLiveStatus(
	ctx context.Context,
	deviceID string,
) (*LiveDeviceStatus, bool, error) {
	status, ok := f.liveStatus[deviceID]
	return status, ok, nil
}

func (f *fakeDeviceRepo) SetLiveStatus(
	ctx context.Context,
	deviceID string,
	status *LiveDeviceStatus,
) error {
	f.liveStatus[deviceID] = status
	return nil
}

func TestDeviceOfflineSweep(t *testing.T) {
	repo := newFakeDeviceRepo()
	userID := uuid.New()
	repo.devices["SD-1001"] = &Device{
		BaseModel: BaseModel{ID: 1},
		DeviceID:  "SD-1001",
		Status:    DeviceStatusOnline,
		UserID:    userID,
	}
	repo.devices["SD-1002"] = &Device{
		BaseModel: BaseModel{ID: 2},
		DeviceID:  "SD-1002",
		Status:    DeviceStatusOnline,
		UserID:    userID,
	}
	repo.liveStatus["SD-1001"] = &LiveDeviceStatus{Status: DeviceStatusOnline}

	job := NewDeviceOfflineJob(repo, nil, services.Hourly)
	require.NoError(t, job.Execute(context.Background()))

	assert.Equal(t, DeviceStatusOnline, repo.devices["SD-1001"].Status,
		"device with a live status key stays online")
	assert.Equal(t, DeviceStatusOffline, repo.devices["SD-1002"].Status,
		"device whose live status expired is marked offline")
}

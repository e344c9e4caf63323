package deviceController

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("already registered")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type RegisterDeviceRequest struct {
	DeviceID     string         `json:"deviceId"`
	Name         string         `json:"name"`
	Model        string         `json:"model,omitempty"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

type UpdateDeviceRequest struct {
	Name         *string        `json:"name,omitempty"`
	Model        *string        `json:"model,omitempty"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

// DeviceView is a device joined with its ephemeral live status. LiveStatus is
// nil when the device has not reported within the status TTL.
type DeviceView struct {
	Device
	LiveStatus *LiveDeviceStatus `json:"liveStatus,omitempty"`
}

type DeviceControllerInterface interface {
	Register(ctx context.Context, user *User, request *RegisterDeviceRequest) (*Device, error)
	FindOrRegister(ctx context.Context, user *User, request *RegisterDeviceRequest) (*Device, error)
	Get(ctx context.Context, user *User, deviceID string) (*DeviceView, error)
	List(ctx context.Context, user *User) ([]DeviceView, error)
	Update(ctx context.Context, user *User, deviceID string, request *UpdateDeviceRequest) (*Device, error)
	Delete(ctx context.Context, user *User, deviceID string) error
}

// transactionExecutor is the slice of TransactionService the controller needs.
type transactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type DeviceController struct {
	deviceRepo  repositories.DeviceRepository
	transaction transactionExecutor
	log         logger.Logger
}

func New(
	repos repositories.Repository,
	transaction *services.TransactionService,
) DeviceControllerInterface {
	return &DeviceController{
		deviceRepo:  repos.Device,
		transaction: transaction,
		log:         logger.New("deviceController"),
	}
}

func (c *DeviceController) Register(
	ctx context.Context,
	user *User,
	request *RegisterDeviceRequest,
) (*Device, error) {
	log := c.log.Function("Register")

	if request.DeviceID == "" {
		return nil, fmt.Errorf("%w: deviceId is required", ErrInvalidInput)
	}
	if request.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	existing, err := c.deviceRepo.GetByDeviceID(ctx, request.DeviceID)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: device %s", ErrDuplicate, request.DeviceID)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to check for existing device",
			"error", err, "deviceID", request.DeviceID)
	}

	device := &Device{
		DeviceID: request.DeviceID,
		Name:     request.Name,
		Model:    request.Model,
		Status:   DeviceStatusOffline,
		UserID:   user.ID,
	}

	if len(request.Capabilities) > 0 {
		capabilities, err := json.Marshal(request.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("%w: capabilities must be a JSON object", ErrInvalidInput)
		}
		device.Capabilities = capabilities
	}

	if err := c.deviceRepo.Create(ctx, device); err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to register device",
			"error", err, "deviceID", request.DeviceID)
	}

	log.Info("Device registered", "deviceID", device.DeviceID, "userID", user.ID)
	return device, nil
}

// FindOrRegister is the idempotent variant simulated devices use: re-running
// a simulator against the same device ID returns the existing registration
// instead of failing. A device ID owned by another user is still a conflict.
func (c *DeviceController) FindOrRegister(
	ctx context.Context,
	user *User,
	request *RegisterDeviceRequest,
) (*Device, error) {
	log := c.log.Function("FindOrRegister")

	if request.DeviceID == "" {
		return nil, fmt.Errorf("%w: deviceId is required", ErrInvalidInput)
	}

	existing, err := c.deviceRepo.GetByDeviceID(ctx, request.DeviceID)
	if err == nil && existing != nil {
		if existing.UserID != user.ID {
			return nil, fmt.Errorf("%w: device %s", ErrDuplicate, request.DeviceID)
		}
		log.Info("Device already registered", "deviceID", existing.DeviceID, "userID", user.ID)
		return existing, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to check for existing device",
			"error", err, "deviceID", request.DeviceID)
	}

	return c.Register(ctx, user, request)
}

func (c *DeviceController) Get(
	ctx context.Context,
	user *User,
	deviceID string,
) (*DeviceView, error) {
	device, err := c.getOwned(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	view := &DeviceView{Device: *device}
	c.attachLiveStatus(ctx, view)

	return view, nil
}

func (c *DeviceController) List(ctx context.Context, user *User) ([]DeviceView, error) {
	devices, err := c.deviceRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, c.log.Function("List").
			ErrorWithType(ErrStoreUnavailable, "failed to list devices", "error", err, "userID", user.ID)
	}

	views := make([]DeviceView, 0, len(devices))
	for i := range devices {
		view := DeviceView{Device: devices[i]}
		c.attachLiveStatus(ctx, &view)
		views = append(views, view)
	}

	return views, nil
}

func (c *DeviceController) Update(
	ctx context.Context,
	user *User,
	deviceID string,
	request *UpdateDeviceRequest,
) (*Device, error) {
	log := c.log.Function("Update")

	device, err := c.getOwned(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		if *request.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		device.Name = *request.Name
	}
	if request.Model != nil {
		device.Model = *request.Model
	}
	if request.Capabilities != nil {
		capabilities, err := json.Marshal(request.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("%w: capabilities must be a JSON object", ErrInvalidInput)
		}
		device.Capabilities = capabilities
	}

	if err := c.deviceRepo.Update(ctx, device); err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to update device",
			"error", err, "deviceID", deviceID)
	}

	return device, nil
}

func (c *DeviceController) Delete(ctx context.Context, user *User, deviceID string) error {
	log := c.log.Function("Delete")

	device, err := c.getOwned(ctx, user, deviceID)
	if err != nil {
		return err
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.deviceRepo.DeleteWithAssociations(ctx, tx, device)
	})
	if err != nil {
		return log.ErrorWithType(ErrStoreUnavailable, "failed to delete device",
			"error", err, "deviceID", deviceID)
	}

	log.Info("Device deleted", "deviceID", deviceID, "userID", user.ID)
	return nil
}

func (c *DeviceController) getOwned(
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

// attachLiveStatus is best effort; a cache miss or error leaves the durable
// status standing.
func (c *DeviceController) attachLiveStatus(ctx context.Context, view *DeviceView) {
	status, found, err := c.deviceRepo.GetLiveStatus(ctx, view.DeviceID)
	if err != nil {
		c.log.Function("attachLiveStatus").
			Warn("failed to read live device status", "deviceID", view.DeviceID, "error", err)
		return
	}
	if found {
		view.LiveStatus = status
		view.Status = status.Status
	}
}

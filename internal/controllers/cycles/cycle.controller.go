package cycleController

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"smartdry/internal/events"
	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidState     = errors.New("invalid state")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Notifier is the slice of the notification controller the lifecycle needs.
type Notifier interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message, notificationType string) error
}

// EventPublisher is satisfied by *events.EventBus.
type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type StartCycleRequest struct {
	DeviceID    string   `json:"deviceId"`
	Mode        string   `json:"mode"`
	Temperature *float64 `json:"temperature"`
	FanSpeed    *int     `json:"fanSpeed"`
	AIEnabled   *bool    `json:"aiEnabled,omitempty"`
	EcoMode     *bool    `json:"ecoMode,omitempty"`
}

type UpdateProgressRequest struct {
	Progress    *int     `json:"progress"`
	Moisture    *float64 `json:"moisture,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
}

// ProgressResponse is the progress view for one cycle. Snapshot is set while
// the cycle is active; Cycle carries the durable record otherwise. Progress
// and EstimatedTimeRemaining are nil when the cycle is in an inconsistent
// state (durable row active but no snapshot) and no honest number exists.
type ProgressResponse struct {
	CycleID                int                  `json:"cycleId"`
	Status                 string               `json:"status"`
	Progress               *int                 `json:"progress,omitempty"`
	EstimatedTimeRemaining *int                 `json:"estimatedTimeRemaining,omitempty"`
	Snapshot               *ActiveCycleSnapshot `json:"snapshot,omitempty"`
	Cycle                  *DryingCycle         `json:"cycle,omitempty"`
}

type CycleControllerInterface interface {
	Start(ctx context.Context, user *User, request *StartCycleRequest) (*DryingCycle, error)
	GetProgress(ctx context.Context, user *User, cycleID int) (*ProgressResponse, error)
	UpdateProgress(
		ctx context.Context,
		deviceID string,
		cycleID int,
		request *UpdateProgressRequest,
	) (*ProgressResponse, error)
	Get(ctx context.Context, user *User, cycleID int) (*DryingCycle, error)
	List(ctx context.Context, user *User, filter repositories.CycleFilter) ([]DryingCycle, error)
}

type CycleController struct {
	cycleRepo    repositories.CycleRepository
	deviceRepo   repositories.DeviceRepository
	snapshotRepo repositories.SnapshotRepository
	notifier     Notifier
	eventBus     EventPublisher
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	notifier Notifier,
	eventBus EventPublisher,
) CycleControllerInterface {
	return &CycleController{
		cycleRepo:    repos.Cycle,
		deviceRepo:   repos.Device,
		snapshotRepo: repos.Snapshot,
		notifier:     notifier,
		eventBus:     eventBus,
		log:          logger.New("cycleController"),
	}
}

// Start validates ownership, computes the duration estimate, writes the
// durable row and seeds the ephemeral snapshot. The snapshot write is best
// effort; GetProgress falls back to the durable record when it is missing.
func (c *CycleController) Start(
	ctx context.Context,
	user *User,
	request *StartCycleRequest,
) (*DryingCycle, error) {
	log := c.log.Function("Start")

	if err := validateStartRequest(request); err != nil {
		return nil, err
	}

	device, err := c.deviceRepo.GetByDeviceID(ctx, request.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: device %s", ErrNotFound, request.DeviceID)
		}
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to look up device", "error", err,
			"deviceID", request.DeviceID)
	}

	// Devices owned by other users are indistinguishable from unknown ones
	if device.UserID != user.ID {
		return nil, fmt.Errorf("%w: device %s", ErrNotFound, request.DeviceID)
	}

	aiEnabled := true
	if request.AIEnabled != nil {
		aiEnabled = *request.AIEnabled
	}
	ecoMode := false
	if request.EcoMode != nil {
		ecoMode = *request.EcoMode
	}

	now := time.Now()
	totalMinutes := EstimateDuration(request.Mode, aiEnabled, ecoMode)

	cycle := &DryingCycle{
		DeviceID:    device.ID,
		Mode:        request.Mode,
		Temperature: *request.Temperature,
		FanSpeed:    *request.FanSpeed,
		AIEnabled:   aiEnabled,
		EcoMode:     ecoMode,
		StartTime:   now,
		Status:      CycleStatusInProgress,
	}

	if err := c.cycleRepo.Create(ctx, cycle); err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to create drying cycle", "error", err,
			"deviceID", request.DeviceID)
	}
	cycle.Device = device

	snapshot := &ActiveCycleSnapshot{
		CycleID:                cycle.ID,
		Device:                 device.Ref(),
		Mode:                   cycle.Mode,
		Temperature:            cycle.Temperature,
		FanSpeed:               cycle.FanSpeed,
		AIEnabled:              aiEnabled,
		EcoMode:                ecoMode,
		Progress:               0,
		EstimatedTotalMinutes:  totalMinutes,
		EstimatedTimeRemaining: totalMinutes,
		StartedAt:              now,
		LastUpdated:            now,
	}

	if err := c.snapshotRepo.Set(ctx, snapshot); err != nil {
		log.Warn("failed to seed active cycle snapshot", "cycleID", cycle.ID, "error", err)
	}

	if c.notifier != nil {
		message := fmt.Sprintf("%s started a %s cycle (est. %d min)", device.Name, cycle.Mode, totalMinutes)
		if err := c.notifier.Emit(ctx, user.ID, "Drying Cycle Started", message, NotificationTypeInfo); err != nil {
			log.Warn("failed to emit start notification", "cycleID", cycle.ID, "error", err)
		}
	}

	c.publishEvent(events.CYCLE_STARTED, user.ID, map[string]any{
		"cycleId":  cycle.ID,
		"deviceId": device.DeviceID,
		"mode":     cycle.Mode,
	})

	log.Info("Drying cycle started",
		"cycleID", cycle.ID, "deviceID", device.DeviceID, "mode", cycle.Mode,
		"estimatedMinutes", totalMinutes)
	return cycle, nil
}

// GetProgress recomputes the time-derived progress and refreshes the snapshot
// in place, so repeated polls self-correct without a background ticker. When
// the snapshot is gone the durable record answers: completed cycles get a
// synthesized 100%/0-remaining view, anything else is surfaced as-is.
func (c *CycleController) GetProgress(
	ctx context.Context,
	user *User,
	cycleID int,
) (*ProgressResponse, error) {
	log := c.log.Function("GetProgress")

	cycle, err := c.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cycle %d", ErrNotFound, cycleID)
		}
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to look up cycle", "error", err,
			"cycleID", cycleID)
	}

	if cycle.Device == nil || cycle.Device.UserID != user.ID {
		return nil, fmt.Errorf("%w: cycle %d", ErrNotFound, cycleID)
	}

	snapshot, found, err := c.snapshotRepo.Get(ctx, cycleID)
	if err != nil {
		log.Warn("failed to read active cycle snapshot, falling back to durable record",
			"cycleID", cycleID, "error", err)
		found = false
	}

	if found && cycle.IsCompleted() {
		// Crash between finalize and snapshot delete leaves an orphan; the
		// durable record wins and the orphan is reaped here.
		if err := c.snapshotRepo.Delete(ctx, cycleID); err != nil {
			log.Warn("failed to delete stale snapshot", "cycleID", cycleID, "error", err)
		}
		found = false
	}

	if found {
		now := time.Now()
		// Device reports can run ahead of the clock; never walk them back
		snapshot.Progress = max(snapshot.Progress,
			Progress(snapshot.StartedAt, snapshot.EstimatedTotalMinutes, now))
		snapshot.EstimatedTimeRemaining = TimeRemaining(
			snapshot.StartedAt, snapshot.EstimatedTotalMinutes, now)
		snapshot.LastUpdated = now

		if err := c.snapshotRepo.Set(ctx, snapshot); err != nil {
			log.Warn("failed to refresh snapshot", "cycleID", cycleID, "error", err)
		}

		return &ProgressResponse{
			CycleID:                cycleID,
			Status:                 CycleStatusInProgress,
			Progress:               &snapshot.Progress,
			EstimatedTimeRemaining: &snapshot.EstimatedTimeRemaining,
			Snapshot:               snapshot,
		}, nil
	}

	if cycle.IsCompleted() {
		progress := 100
		remaining := 0
		return &ProgressResponse{
			CycleID:                cycleID,
			Status:                 CycleStatusCompleted,
			Progress:               &progress,
			EstimatedTimeRemaining: &remaining,
			Cycle:                  cycle,
		}, nil
	}

	// Active durable row with no snapshot is inconsistent; surface it without
	// inventing numbers.
	log.Warn("cycle has no snapshot and is not completed", "cycleID", cycleID, "status", cycle.Status)
	return &ProgressResponse{
		CycleID: cycleID,
		Status:  cycle.Status,
		Cycle:   cycle,
	}, nil
}

// UpdateProgress applies a device progress report. A report of exactly 100 is
// the only thing that ever completes a cycle; time-derived estimates cap at
// 99 and wait for the device to confirm dryness.
func (c *CycleController) UpdateProgress(
	ctx context.Context,
	deviceID string,
	cycleID int,
	request *UpdateProgressRequest,
) (*ProgressResponse, error) {
	log := c.log.Function("UpdateProgress")

	if request.Progress == nil {
		return nil, fmt.Errorf("%w: progress is required", ErrInvalidInput)
	}
	if *request.Progress < 0 || *request.Progress > 100 {
		return nil, fmt.Errorf("%w: progress must be 0-100, got %d", ErrInvalidInput, *request.Progress)
	}

	snapshot, found, err := c.snapshotRepo.Get(ctx, cycleID)
	if err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to read snapshot", "error", err,
			"cycleID", cycleID)
	}
	if !found {
		return nil, fmt.Errorf("%w: cycle not active", ErrInvalidState)
	}

	if deviceID != "" && snapshot.Device.DeviceID != deviceID {
		return nil, fmt.Errorf("%w: cycle %d", ErrNotFound, cycleID)
	}

	now := time.Now()
	if request.Moisture != nil {
		snapshot.CurrentMoisture = request.Moisture
	}
	if request.Temperature != nil {
		snapshot.CurrentTemperature = request.Temperature
	}
	if request.Weight != nil {
		snapshot.CurrentWeight = request.Weight
	}
	snapshot.LastUpdated = now

	if *request.Progress == 100 {
		return c.finalize(ctx, cycleID, snapshot, now)
	}

	snapshot.Progress = *request.Progress
	snapshot.EstimatedTimeRemaining = TimeRemaining(
		snapshot.StartedAt, snapshot.EstimatedTotalMinutes, now)

	// The snapshot write is the entire effect of a non-final report; a
	// failure here is fatal, unlike the best-effort refresh on reads.
	if err := c.snapshotRepo.Set(ctx, snapshot); err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to write snapshot", "error", err,
			"cycleID", cycleID)
	}

	return &ProgressResponse{
		CycleID:                cycleID,
		Status:                 CycleStatusInProgress,
		Progress:               &snapshot.Progress,
		EstimatedTimeRemaining: &snapshot.EstimatedTimeRemaining,
		Snapshot:               snapshot,
	}, nil
}

func (c *CycleController) finalize(
	ctx context.Context,
	cycleID int,
	snapshot *ActiveCycleSnapshot,
	now time.Time,
) (*ProgressResponse, error) {
	log := c.log.Function("finalize")

	cycle, err := c.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cycle %d", ErrNotFound, cycleID)
		}
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to look up cycle", "error", err,
			"cycleID", cycleID)
	}

	if cycle.IsCompleted() {
		if err := c.snapshotRepo.Delete(ctx, cycleID); err != nil {
			log.Warn("failed to delete stale snapshot", "cycleID", cycleID, "error", err)
		}
		return nil, fmt.Errorf("%w: cycle already completed", ErrInvalidState)
	}

	duration := int(math.Round(now.Sub(cycle.StartTime).Minutes()))
	energyUsed := EstimateEnergy(cycle.Mode, cycle.AIEnabled, cycle.EcoMode)

	updates := map[string]any{
		"status":      CycleStatusCompleted,
		"end_time":    now,
		"duration":    duration,
		"energy_used": energyUsed,
	}
	if err := c.cycleRepo.Update(ctx, cycleID, updates); err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to finalize cycle", "error", err,
			"cycleID", cycleID)
	}

	cycle.Status = CycleStatusCompleted
	cycle.EndTime = &now
	cycle.Duration = &duration
	cycle.EnergyUsed = &energyUsed

	if err := c.snapshotRepo.Delete(ctx, cycleID); err != nil {
		log.Warn("failed to delete snapshot after completion", "cycleID", cycleID, "error", err)
	}

	if c.notifier != nil && cycle.Device != nil {
		message := fmt.Sprintf("%s finished its %s cycle in %d minutes (%.2f kWh)",
			cycle.Device.Name, cycle.Mode, duration, energyUsed)
		if err := c.notifier.Emit(ctx, cycle.Device.UserID, "Drying Cycle Complete", message,
			NotificationTypeSuccess); err != nil {
			log.Warn("failed to emit completion notification", "cycleID", cycleID, "error", err)
		}
	}

	var ownerID uuid.UUID
	if cycle.Device != nil {
		ownerID = cycle.Device.UserID
	}
	c.publishEvent(events.CYCLE_COMPLETED, ownerID, map[string]any{
		"cycleId":    cycleID,
		"deviceId":   snapshot.Device.DeviceID,
		"duration":   duration,
		"energyUsed": energyUsed,
	})

	progress := 100
	remaining := 0

	log.Info("Drying cycle completed",
		"cycleID", cycleID, "duration", duration, "energyUsed", energyUsed)
	return &ProgressResponse{
		CycleID:                cycleID,
		Status:                 CycleStatusCompleted,
		Progress:               &progress,
		EstimatedTimeRemaining: &remaining,
		Cycle:                  cycle,
	}, nil
}

func (c *CycleController) Get(
	ctx context.Context,
	user *User,
	cycleID int,
) (*DryingCycle, error) {
	cycle, err := c.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cycle %d", ErrNotFound, cycleID)
		}
		return nil, c.log.Function("Get").
			ErrorWithType(ErrStoreUnavailable, "failed to look up cycle", "error", err, "cycleID", cycleID)
	}

	if cycle.Device == nil || cycle.Device.UserID != user.ID {
		return nil, fmt.Errorf("%w: cycle %d", ErrNotFound, cycleID)
	}

	return cycle, nil
}

func (c *CycleController) List(
	ctx context.Context,
	user *User,
	filter repositories.CycleFilter,
) ([]DryingCycle, error) {
	cycles, err := c.cycleRepo.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, c.log.Function("List").
			ErrorWithType(ErrStoreUnavailable, "failed to list cycles", "error", err, "userID", user.ID)
	}

	return cycles, nil
}

func (c *CycleController) publishEvent(
	eventType events.MessageType,
	userID uuid.UUID,
	data map[string]any,
) {
	if c.eventBus == nil {
		return
	}

	event := events.Event{Type: eventType, Data: data}
	if userID != uuid.Nil {
		event.UserID = &userID
	}

	if err := c.eventBus.Publish(events.CYCLES_CHANNEL, event); err != nil {
		c.log.Function("publishEvent").
			Warn("failed to publish cycle event", "eventType", eventType, "error", err)
	}
}

func validateStartRequest(request *StartCycleRequest) error {
	if request.DeviceID == "" {
		return fmt.Errorf("%w: deviceId is required", ErrInvalidInput)
	}
	if request.Mode == "" {
		return fmt.Errorf("%w: mode is required", ErrInvalidInput)
	}
	if request.Temperature == nil {
		return fmt.Errorf("%w: temperature is required", ErrInvalidInput)
	}
	if request.FanSpeed == nil {
		return fmt.Errorf("%w: fanSpeed is required", ErrInvalidInput)
	}
	if *request.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive", ErrInvalidInput)
	}
	if *request.FanSpeed < 1 {
		return fmt.Errorf("%w: fanSpeed must be at least 1", ErrInvalidInput)
	}
	return nil
}

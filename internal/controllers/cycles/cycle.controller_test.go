package cycleController

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartdry/internal/events"
	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCycleRepo struct {
	cycles    map[int]*DryingCycle
	nextID    int
	updates   map[string]any
	createErr error
	updateErr error
}

func newFakeCycleRepo() *fakeCycleRepo {
	return &fakeCycleRepo{cycles: make(map[int]*DryingCycle), nextID: 1}
}

func (f *fakeCycleRepo) Create(ctx context.Context, cycle *DryingCycle) error {
	if f.createErr != nil {
		return f.createErr
	}
	cycle.ID = f.nextID
	f.nextID++
	// Store the pointer so the Device association the controller attaches is
	// visible on later reads, mirroring the Preload the real repo does
	f.cycles[cycle.ID] = cycle
	return nil
}

func (f *fakeCycleRepo) GetByID(ctx context.Context, id int) (*DryingCycle, error) {
	cycle, ok := f.cycles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cycle
	return &copied, nil
}

func (f *fakeCycleRepo) Update(ctx context.Context, id int, updates map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cycle, ok := f.cycles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.updates = updates
	if status, ok := updates["status"].(string); ok {
		cycle.Status = status
	}
	if endTime, ok := updates["end_time"].(time.Time); ok {
		cycle.EndTime = &endTime
	}
	if duration, ok := updates["duration"].(int); ok {
		cycle.Duration = &duration
	}
	if energy, ok := updates["energy_used"].(float64); ok {
		cycle.EnergyUsed = &energy
	}
	return nil
}

func (f *fakeCycleRepo) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter repositories.CycleFilter,
) ([]DryingCycle, error) {
	var cycles []DryingCycle
	for _, cycle := range f.cycles {
		if cycle.Device != nil && cycle.Device.UserID == userID {
			cycles = append(cycles, *cycle)
		}
	}
	return cycles, nil
}

func (f *fakeCycleRepo) ListActiveByDevice(ctx context.Context, deviceID int) ([]DryingCycle, error) {
	return nil, nil
}

type fakeDeviceRepo struct {
	devices map[string]*Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: make(map[string]*Device)}
}

func (f *fakeDeviceRepo) Create(ctx context.Context, device *Device) error { return nil }

func (f *fakeDeviceRepo) GetByID(ctx context.Context, id int) (*Device, error) {
	for _, device := range f.devices {
		if device.ID == id {
			return device, nil
		}
	}
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
	return nil, nil
}

func (f *fakeDeviceRepo) Update(ctx context.Context, device *Device) error { return nil }
func (f *fakeDeviceRepo) Delete(ctx context.Context, id int) error         { return nil }

func (f *fakeDeviceRepo) DeleteWithAssociations(
	ctx context.Context,
	tx *gorm.DB,
	device *Device,
) error {
	delete(f.devices, device.DeviceID)
	return nil
}

func (f *fakeDeviceRepo) GetLiveStatus(
	ctx context.Context,
	deviceID string,
) (*LiveDeviceStatus, bool, error) {
	return nil, false, nil
}

func (f *fakeDeviceRepo) SetLiveStatus(
	ctx context.Context,
	deviceID string,
	status *LiveDeviceStatus,
) error {
	return nil
}

type fakeSnapshotRepo struct {
	snapshots map[int]*ActiveCycleSnapshot
	getErr    error
	setErr    error
	deleted   []int
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[int]*ActiveCycleSnapshot)}
}

func (f *fakeSnapshotRepo) Get(
	ctx context.Context,
	cycleID int,
) (*ActiveCycleSnapshot, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	snapshot, ok := f.snapshots[cycleID]
	if !ok {
		return nil, false, nil
	}
	copied := *snapshot
	return &copied, true, nil
}

func (f *fakeSnapshotRepo) Set(ctx context.Context, snapshot *ActiveCycleSnapshot) error {
	if f.setErr != nil {
		return f.setErr
	}
	stored := *snapshot
	f.snapshots[snapshot.CycleID] = &stored
	return nil
}

func (f *fakeSnapshotRepo) Delete(ctx context.Context, cycleID int) error {
	delete(f.snapshots, cycleID)
	f.deleted = append(f.deleted, cycleID)
	return nil
}

func (f *fakeSnapshotRepo) ActiveCycleIDs(ctx context.Context) ([]int, error) {
	var ids []int
	for id := range f.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

type emittedNotification struct {
	userID  uuid.UUID
	title   string
	message string
	ntype   string
}

type fakeNotifier struct {
	emitted []emittedNotification
	err     error
}

func (f *fakeNotifier) Emit(
	ctx context.Context,
	userID uuid.UUID,
	title, message, notificationType string,
) error {
	if f.err != nil {
		return f.err
	}
	f.emitted = append(f.emitted, emittedNotification{userID, title, message, notificationType})
	return nil
}

type fakeEventBus struct {
	published []events.Event
}

func (f *fakeEventBus) Publish(channel events.Channel, event events.Event) error {
	event.Channel = channel
	f.published = append(f.published, event)
	return nil
}

type cycleTestEnv struct {
	controller *CycleController
	cycles     *fakeCycleRepo
	devices    *fakeDeviceRepo
	snapshots  *fakeSnapshotRepo
	notifier   *fakeNotifier
	eventBus   *fakeEventBus
	user       *User
	device     *Device
}

func newCycleTestEnv(t *testing.T) *cycleTestEnv {
	t.Helper()

	userID := uuid.New()
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: userID}, FirstName: "Deb", LastName: "Tester"}
	device := &Device{
		BaseModel: BaseModel{ID: 1},
		DeviceID:  "SD-1042",
		Name:      "Basement Dryer",
		UserID:    userID,
	}

	cycles := newFakeCycleRepo()
	devices := newFakeDeviceRepo()
	devices.devices[device.DeviceID] = device
	snapshots := newFakeSnapshotRepo()
	notifier := &fakeNotifier{}
	eventBus := &fakeEventBus{}

	controller := &CycleController{
		cycleRepo:    cycles,
		deviceRepo:   devices,
		snapshotRepo: snapshots,
		notifier:     notifier,
		eventBus:     eventBus,
		log:          logger.New("cycleControllerTest"),
	}

	return &cycleTestEnv{
		controller: controller,
		cycles:     cycles,
		devices:    devices,
		snapshots:  snapshots,
		notifier:   notifier,
		eventBus:   eventBus,
		user:       user,
		device:     device,
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func validStartRequest() *StartCycleRequest {
	return &StartCycleRequest{
		DeviceID:    "SD-1042",
		Mode:        ModeQuick,
		Temperature: floatPtr(65),
		FanSpeed:    intPtr(3),
	}
}

func TestStart_Success(t *testing.T) {
	env := newCycleTestEnv(t)
	ctx := context.Background()

	cycle, err := env.controller.Start(ctx, env.user, validStartRequest())
	require.NoError(t, err)

	assert.Equal(t, CycleStatusInProgress, cycle.Status)
	assert.Equal(t, ModeQuick, cycle.Mode)
	assert.True(t, cycle.AIEnabled, "AI defaults on")
	assert.False(t, cycle.EcoMode, "eco defaults off")
	assert.WithinDuration(t, time.Now(), cycle.StartTime, time.Second)

	snapshot, ok := env.snapshots.snapshots[cycle.ID]
	require.True(t, ok, "snapshot seeded")
	assert.Equal(t, 0, snapshot.Progress)
	assert.Equal(t, 26, snapshot.EstimatedTotalMinutes, "Quick with AI: 30 * 0.85 rounded")
	assert.Equal(t, 26, snapshot.EstimatedTimeRemaining)
	assert.Equal(t, "SD-1042", snapshot.Device.DeviceID)

	require.Len(t, env.notifier.emitted, 1)
	assert.Equal(t, "Drying Cycle Started", env.notifier.emitted[0].title)
	assert.Equal(t, NotificationTypeInfo, env.notifier.emitted[0].ntype)
	assert.Equal(t, env.user.ID, env.notifier.emitted[0].userID)

	require.Len(t, env.eventBus.published, 1)
	assert.Equal(t, events.CYCLE_STARTED, env.eventBus.published[0].Type)
}

func TestStart_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StartCycleRequest)
	}{
		{name: "missing deviceId", mutate: func(r *StartCycleRequest) { r.DeviceID = "" }},
		{name: "missing mode", mutate: func(r *StartCycleRequest) { r.Mode = "" }},
		{name: "missing temperature", mutate: func(r *StartCycleRequest) { r.Temperature = nil }},
		{name: "missing fanSpeed", mutate: func(r *StartCycleRequest) { r.FanSpeed = nil }},
		{name: "non-positive temperature", mutate: func(r *StartCycleRequest) { r.Temperature = floatPtr(0) }},
		{name: "zero fanSpeed", mutate: func(r *StartCycleRequest) { r.FanSpeed = intPtr(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCycleTestEnv(t)
			request := validStartRequest()
			tt.mutate(request)

			_, err := env.controller.Start(context.Background(), env.user, request)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestStart_UnknownDevice(t *testing.T) {
	env := newCycleTestEnv(t)
	request := validStartRequest()
	request.DeviceID = "SD-9999"

	_, err := env.controller.Start(context.Background(), env.user, request)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStart_DeviceOwnedByOtherUser(t *testing.T) {
	env := newCycleTestEnv(t)
	stranger := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	_, err := env.controller.Start(context.Background(), stranger, validStartRequest())
	assert.ErrorIs(t, err, ErrNotFound, "foreign devices look like missing devices")
}

func TestStart_SnapshotWriteFailureIsSwallowed(t *testing.T) {
	env := newCycleTestEnv(t)
	env.snapshots.setErr = errors.New("cache down")

	cycle, err := env.controller.Start(context.Background(), env.user, validStartRequest())
	require.NoError(t, err, "durable write succeeded, cache degradation is tolerated")
	assert.Equal(t, CycleStatusInProgress, cycle.Status)
}

func TestStart_DurableWriteFailureIsFatal(t *testing.T) {
	env := newCycleTestEnv(t)
	env.cycles.createErr = errors.New("db down")

	_, err := env.controller.Start(context.Background(), env.user, validStartRequest())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Empty(t, env.snapshots.snapshots, "no snapshot without a durable row")
}

func startActiveCycle(t *testing.T, env *cycleTestEnv, startedAgo time.Duration) *DryingCycle {
	t.Helper()

	cycle, err := env.controller.Start(context.Background(), env.user, validStartRequest())
	require.NoError(t, err)

	// Rewind the clock on both stores to simulate elapsed drying time
	startedAt := time.Now().Add(-startedAgo)
	env.cycles.cycles[cycle.ID].StartTime = startedAt
	snapshot := env.snapshots.snapshots[cycle.ID]
	snapshot.StartedAt = startedAt
	cycle.StartTime = startedAt

	return cycle
}

func TestGetProgress_RefreshesSnapshotInPlace(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 13*time.Minute)

	response, err := env.controller.GetProgress(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)

	require.NotNil(t, response.Progress)
	assert.Equal(t, 50, *response.Progress, "13 of 26 minutes elapsed")
	require.NotNil(t, response.EstimatedTimeRemaining)
	assert.Equal(t, 13, *response.EstimatedTimeRemaining)
	assert.Equal(t, CycleStatusInProgress, response.Status)

	stored := env.snapshots.snapshots[cycle.ID]
	assert.Equal(t, 50, stored.Progress, "snapshot refreshed in place")
}

func TestGetProgress_NeverRegressesDeviceReportedProgress(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)

	// Device reported far ahead of the time estimate
	env.snapshots.snapshots[cycle.ID].Progress = 80

	response, err := env.controller.GetProgress(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)
	require.NotNil(t, response.Progress)
	assert.Equal(t, 80, *response.Progress)
}

func TestGetProgress_TimeDerivedCapsAt99(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 3*time.Hour)

	response, err := env.controller.GetProgress(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)
	require.NotNil(t, response.Progress)
	assert.Equal(t, 99, *response.Progress, "time alone never completes a cycle")
	assert.Equal(t, 1, *response.EstimatedTimeRemaining)
	assert.Equal(t, CycleStatusInProgress, response.Status)
}

func TestGetProgress_CompletedCycleSynthesizesFinalView(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 10*time.Minute)

	_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(100)})
	require.NoError(t, err)

	response, err := env.controller.GetProgress(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, CycleStatusCompleted, response.Status)
	assert.Equal(t, 100, *response.Progress)
	assert.Equal(t, 0, *response.EstimatedTimeRemaining)
	assert.Nil(t, response.Snapshot)
	require.NotNil(t, response.Cycle)
	assert.NotNil(t, response.Cycle.EndTime)
}

func TestGetProgress_EvictsStaleSnapshot(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 10*time.Minute)

	// Crash between finalize and snapshot delete: durable says completed but
	// the snapshot survived
	now := time.Now()
	duration := 10
	energy := 0.72
	stored := env.cycles.cycles[cycle.ID]
	stored.Status = CycleStatusCompleted
	stored.EndTime = &now
	stored.Duration = &duration
	stored.EnergyUsed = &energy

	response, err := env.controller.GetProgress(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)

	assert.Equal(t, CycleStatusCompleted, response.Status)
	assert.Equal(t, 100, *response.Progress)
	assert.Contains(t, env.snapshots.deleted, cycle.ID, "orphaned snapshot reaped")
	assert.NotContains(t, env.snapshots.snapshots, cycle.ID)
}

func TestGetProgress_InconsistentCycleSurfacedAsIs(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 5*time.Minute)

	// Snapshot lost but durable row still in_progress
	delete(env.snapshots.snapshots, cycle.ID)

	response, err := env.controller.GetProgress(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)

	assert.Equal(t, CycleStatusInProgress, response.Status)
	assert.Nil(t, response.Progress, "no honest number exists, none is invented")
	require.NotNil(t, response.Cycle)
}

func TestGetProgress_UnknownCycle(t *testing.T) {
	env := newCycleTestEnv(t)

	_, err := env.controller.GetProgress(context.Background(), env.user, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProgress_ForeignCycle(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 5*time.Minute)
	stranger := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	_, err := env.controller.GetProgress(context.Background(), stranger, cycle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProgress_Validation(t *testing.T) {
	tests := []struct {
		name     string
		progress *int
	}{
		{name: "missing progress", progress: nil},
		{name: "negative progress", progress: intPtr(-1)},
		{name: "progress above 100", progress: intPtr(101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCycleTestEnv(t)
			cycle := startActiveCycle(t, env, time.Minute)

			_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
				&UpdateProgressRequest{Progress: tt.progress})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateProgress_RequiresActiveSnapshot(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)
	delete(env.snapshots.snapshots, cycle.ID)

	_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(50)})
	assert.ErrorIs(t, err, ErrInvalidState, "durable row alone does not make a cycle active")
}

func TestUpdateProgress_DeviceMismatch(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)

	_, err := env.controller.UpdateProgress(context.Background(), "SD-0001", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(50)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProgress_MergesSensorReadings(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)

	_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{
			Progress: intPtr(42),
			Moisture: floatPtr(31.5),
			Weight:   floatPtr(4.2),
		})
	require.NoError(t, err)

	snapshot := env.snapshots.snapshots[cycle.ID]
	assert.Equal(t, 42, snapshot.Progress)
	require.NotNil(t, snapshot.CurrentMoisture)
	assert.Equal(t, 31.5, *snapshot.CurrentMoisture)
	require.NotNil(t, snapshot.CurrentWeight)
	assert.Equal(t, 4.2, *snapshot.CurrentWeight)
	assert.Nil(t, snapshot.CurrentTemperature, "unreported fields stay unset")

	stored := env.cycles.cycles[cycle.ID]
	assert.Equal(t, CycleStatusInProgress, stored.Status, "durable row untouched below 100")
	assert.Nil(t, stored.EndTime)
}

func TestUpdateProgress_NinetyNineDoesNotComplete(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)

	response, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(99)})
	require.NoError(t, err)

	assert.Equal(t, CycleStatusInProgress, response.Status)
	assert.Contains(t, env.snapshots.snapshots, cycle.ID)
	assert.Empty(t, env.cycles.updates)
}

func TestUpdateProgress_HundredFinalizesCycle(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 24*time.Minute)

	response, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(100), Moisture: floatPtr(2.1)})
	require.NoError(t, err)

	assert.Equal(t, CycleStatusCompleted, response.Status)
	assert.Equal(t, 100, *response.Progress)
	assert.Equal(t, 0, *response.EstimatedTimeRemaining)

	stored := env.cycles.cycles[cycle.ID]
	assert.Equal(t, CycleStatusCompleted, stored.Status)
	require.NotNil(t, stored.EndTime)
	require.NotNil(t, stored.Duration)
	assert.Equal(t, 24, *stored.Duration)
	require.NotNil(t, stored.EnergyUsed)
	assert.InDelta(t, 0.72, *stored.EnergyUsed, 0.0001, "Quick with AI: 0.8 * 0.90")

	assert.NotContains(t, env.snapshots.snapshots, cycle.ID, "snapshot deleted on completion")

	require.Len(t, env.notifier.emitted, 2, "start and completion notifications")
	completion := env.notifier.emitted[1]
	assert.Equal(t, "Drying Cycle Complete", completion.title)
	assert.Equal(t, NotificationTypeSuccess, completion.ntype)
	assert.Equal(t, env.user.ID, completion.userID)

	require.Len(t, env.eventBus.published, 2)
	assert.Equal(t, events.CYCLE_COMPLETED, env.eventBus.published[1].Type)
}

func TestUpdateProgress_AlreadyCompleted(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 10*time.Minute)

	// Durable completed but snapshot leaked
	env.cycles.cycles[cycle.ID].Status = CycleStatusCompleted

	_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(100)})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NotContains(t, env.snapshots.snapshots, cycle.ID, "leaked snapshot evicted")
}

func TestUpdateProgress_SnapshotWriteFailureIsFatal(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)
	env.snapshots.setErr = errors.New("cache down")

	_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(50)})
	assert.ErrorIs(t, err, ErrStoreUnavailable,
		"the snapshot write is the entire effect of a non-final report")
}

func TestUpdateProgress_FinalizeDurableFailureIsFatal(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 10*time.Minute)
	env.cycles.updateErr = errors.New("db down")

	_, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(100)})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, env.snapshots.snapshots, cycle.ID,
		"snapshot survives so the device can retry completion")
}

func TestUpdateProgress_NotifierFailureDoesNotBlockCompletion(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, 10*time.Minute)
	env.notifier.err = errors.New("notification store down")

	response, err := env.controller.UpdateProgress(context.Background(), "SD-1042", cycle.ID,
		&UpdateProgressRequest{Progress: intPtr(100)})
	require.NoError(t, err, "cycle completion must succeed even if notification delivery degrades")
	assert.Equal(t, CycleStatusCompleted, response.Status)
}

func TestGet_OwnershipEnforced(t *testing.T) {
	env := newCycleTestEnv(t)
	cycle := startActiveCycle(t, env, time.Minute)

	found, err := env.controller.Get(context.Background(), env.user, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, cycle.ID, found.ID)

	stranger := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	_, err = env.controller.Get(context.Background(), stranger, cycle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

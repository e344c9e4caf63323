package jobs

import (
	"context"
	"testing"

	. "smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCycleRepo struct {
	cycles map[int]*DryingCycle
}

func (f *fakeCycleRepo) Create(ctx context.Context, cycle *DryingCycle) error { return nil }

func (f *fakeCycleRepo) GetByID(ctx context.Context, id int) (*DryingCycle, error) {
	cycle, ok := f.cycles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cycle, nil
}

func (f *fakeCycleRepo) Update(ctx context.Context, id int, updates map[string]any) error {
	return nil
}

func (f *fakeCycleRepo) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter repositories.CycleFilter,
) ([]DryingCycle, error) {
	return nil, nil
}

func (f *fakeCycleRepo) ListActiveByDevice(ctx context.Context, deviceID int) ([]DryingCycle, error) {
	return nil, nil
}

type fakeSnapshotRepo struct {
	snapshots map[int]*ActiveCycleSnapshot
	deleted   []int
}

func (f *fakeSnapshotRepo) Get(ctx context.Context, cycleID int) (*ActiveCycleSnapshot, bool, error) {
	snapshot, ok := f.snapshots[cycleID]
	return snapshot, ok, nil
}

func (f *fakeSnapshotRepo) Set(ctx context.Context, snapshot *ActiveCycleSnapshot) error {
	f.snapshots[snapshot.CycleID] = snapshot
	return nil
}

func (f *fakeSnapshotRepo) Delete(ctx context.Context, cycleID int) error {
	delete(f.snapshots, cycleID)
	f.deleted = append(f.deleted, cycleID)
	return nil
}

func (f *fakeSnapshotRepo) ActiveCycleIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0, len(f.snapshots))
	for id := range f.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSnapshotSweep(t *testing.T) {
	cycles := &fakeCycleRepo{cycles: map[int]*DryingCycle{
		1: {BaseModel: BaseModel{ID: 1}, Status: CycleStatusInProgress},
		2: {BaseModel: BaseModel{ID: 2}, Status: CycleStatusCompleted},
	}}
	snapshots := &fakeSnapshotRepo{snapshots: map[int]*ActiveCycleSnapshot{
		1: {CycleID: 1},
		2: {CycleID: 2},
		3: {CycleID: 3}, // no durable row
	}}

	job := NewSnapshotSweepJob(cycles, snapshots, services.Hourly)
	require.NoError(t, job.Execute(context.Background()))

	_, found, _ := snapshots.Get(context.Background(), 1)
	assert.True(t, found, "active cycle keeps its snapshot")

	_, found, _ = snapshots.Get(context.Background(), 2)
	assert.False(t, found, "completed cycle loses its snapshot")

	_, found, _ = snapshots.Get(context.Background(), 3)
	assert.False(t, found, "snapshot without a durable row is evicted")
}

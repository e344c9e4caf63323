package repositories

import (
	"context"

	"smartdry/internal/database"
	"smartdry/internal/logger"
	. "smartdry/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CycleFilter narrows history listings. Zero values mean no filtering; Limit
// zero means no cap.
type CycleFilter struct {
	DeviceID string
	Status   string
	Limit    int
}

type CycleRepository interface {
	Create(ctx context.Context, cycle *DryingCycle) error
	GetByID(ctx context.Context, id int) (*DryingCycle, error)
	Update(ctx context.Context, id int, updates map[string]any) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter CycleFilter) ([]DryingCycle, error)
	ListActiveByDevice(ctx context.Context, deviceID int) ([]DryingCycle, error)
}

type cycleRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCycleRepository(db database.DB) CycleRepository {
	return &cycleRepository{
		db:  db,
		log: logger.New("cycleRepository"),
	}
}

func (r *cycleRepository) Create(ctx context.Context, cycle *DryingCycle) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(cycle).Error; err != nil {
		return log.Err("failed to create drying cycle", err, "deviceID", cycle.DeviceID)
	}

	return nil
}

func (r *cycleRepository) GetByID(ctx context.Context, id int) (*DryingCycle, error) {
	var cycle DryingCycle
	if err := r.db.SQLWithContext(ctx).
		Preload("Device").
		First(&cycle, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, r.log.Function("GetByID").
			Err("failed to get drying cycle", err, "cycleID", id)
	}

	return &cycle, nil
}

func (r *cycleRepository) Update(ctx context.Context, id int, updates map[string]any) error {
	log := r.log.Function("Update")

	result := r.db.SQLWithContext(ctx).
		Model(&DryingCycle{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update drying cycle", result.Error, "cycleID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cycleRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter CycleFilter,
) ([]DryingCycle, error) {
	query := r.db.SQLWithContext(ctx).
		Preload("Device").
		Joins("JOIN devices ON devices.id = drying_cycles.device_id").
		Where("devices.user_id = ?", userID).
		Order("drying_cycles.start_time DESC")

	if filter.DeviceID != "" {
		query = query.Where("devices.device_id = ?", filter.DeviceID)
	}
	if filter.Status != "" {
		query = query.Where("drying_cycles.status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var cycles []DryingCycle
	if err := query.Find(&cycles).Error; err != nil {
		return nil, r.log.Function("ListByUser").
			Err("failed to list drying cycles", err, "userID", userID)
	}

	return cycles, nil
}

func (r *cycleRepository) ListActiveByDevice(
	ctx context.Context,
	deviceID int,
) ([]DryingCycle, error) {
	var cycles []DryingCycle
	if err := r.db.SQLWithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, CycleStatusInProgress).
		Find(&cycles).Error; err != nil {
		return nil, r.log.Function("ListActiveByDevice").
			Err("failed to list active cycles", err, "deviceID", deviceID)
	}

	return cycles, nil
}

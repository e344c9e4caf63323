package repositories

import (
	"context"
	"strconv"
	"strings"

	"smartdry/internal/constants"
	"smartdry/internal/database"
	"smartdry/internal/logger"
	. "smartdry/internal/models"
)

// SnapshotRepository manages the ephemeral drying:active:<cycleId> entries.
// Snapshots carry no TTL; the cycle lifecycle deletes them on completion and
// the sweep job reaps any that leak.
type SnapshotRepository interface {
	Get(ctx context.Context, cycleID int) (*ActiveCycleSnapshot, bool, error)
	Set(ctx context.Context, snapshot *ActiveCycleSnapshot) error
	Delete(ctx context.Context, cycleID int) error
	ActiveCycleIDs(ctx context.Context) ([]int, error)
}

type snapshotRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSnapshotRepository(db database.DB) SnapshotRepository {
	return &snapshotRepository{
		db:  db,
		log: logger.New("snapshotRepository"),
	}
}

func (r *snapshotRepository) Get(
	ctx context.Context,
	cycleID int,
) (*ActiveCycleSnapshot, bool, error) {
	var snapshot ActiveCycleSnapshot
	found, err := database.NewCacheBuilder(r.db.Cache.Cycle, cycleID).
		WithPrefix(constants.ActiveCycleCachePrefix).
		WithContext(ctx).
		Get(&snapshot)
	if err != nil {
		return nil, false, r.log.Function("Get").
			Err("failed to get active cycle snapshot", err, "cycleID", cycleID)
	}
	if !found {
		return nil, false, nil
	}

	return &snapshot, true, nil
}

func (r *snapshotRepository) Set(ctx context.Context, snapshot *ActiveCycleSnapshot) error {
	if err := database.NewCacheBuilder(r.db.Cache.Cycle, snapshot.CycleID).
		WithPrefix(constants.ActiveCycleCachePrefix).
		WithStruct(snapshot).
		WithTTL(constants.ActiveCycleCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("Set").
			Err("failed to set active cycle snapshot", err, "cycleID", snapshot.CycleID)
	}

	return nil
}

func (r *snapshotRepository) Delete(ctx context.Context, cycleID int) error {
	if err := database.NewCacheBuilder(r.db.Cache.Cycle, cycleID).
		WithPrefix(constants.ActiveCycleCachePrefix).
		WithContext(ctx).
		Delete(); err != nil {
		return r.log.Function("Delete").
			Err("failed to delete active cycle snapshot", err, "cycleID", cycleID)
	}

	return nil
}

// ActiveCycleIDs scans the cycle cache for snapshot keys and returns their
// cycle IDs. Keys with a malformed suffix are skipped with a warning.
func (r *snapshotRepository) ActiveCycleIDs(ctx context.Context) ([]int, error) {
	log := r.log.Function("ActiveCycleIDs")

	keys, err := database.ScanKeys(ctx, r.db.Cache.Cycle, constants.ActiveCycleCachePrefix+"*")
	if err != nil {
		return nil, log.Err("failed to scan active cycle keys", err)
	}

	ids := make([]int, 0, len(keys))
	for _, key := range keys {
		suffix := strings.TrimPrefix(key, constants.ActiveCycleCachePrefix)
		id, err := strconv.Atoi(suffix)
		if err != nil {
			log.Warn("skipping malformed snapshot key", "key", key)
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

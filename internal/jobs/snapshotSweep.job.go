package jobs

import (
	"context"
	"errors"

	"smartdry/internal/logger"
	"smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"

	"gorm.io/gorm"
)

// SnapshotSweepJob evicts active-cycle snapshots whose durable row has
// already completed or disappeared. Snapshots normally die with the cycle;
// the sweep catches the ones orphaned by a crash between the durable write
// and the cache delete.
type SnapshotSweepJob struct {
	cycleRepo    repositories.CycleRepository
	snapshotRepo repositories.SnapshotRepository
	log          logger.Logger
	schedule     services.Schedule
}

func NewSnapshotSweepJob(
	cycleRepo repositories.CycleRepository,
	snapshotRepo repositories.SnapshotRepository,
	schedule services.Schedule,
) *SnapshotSweepJob {
	log := logger.New("snapshotSweepJob")
	log.Info("Creating new snapshot sweep job", "schedule", schedule)

	return &SnapshotSweepJob{
		cycleRepo:    cycleRepo,
		snapshotRepo: snapshotRepo,
		log:          log,
		schedule:     schedule,
	}
}

func (j *SnapshotSweepJob) Name() string {
	return "SnapshotSweep"
}

func (j *SnapshotSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cycleIDs, err := j.snapshotRepo.ActiveCycleIDs(ctx)
	if err != nil {
		return log.Err("failed to list active cycle snapshots", err)
	}

	swept := 0
	for _, cycleID := range cycleIDs {
		cycle, err := j.cycleRepo.GetByID(ctx, cycleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := j.snapshotRepo.Delete(ctx, cycleID); err != nil {
					log.Warn("failed to evict snapshot without durable row",
						"cycleID", cycleID, "error", err)
					continue
				}
				swept++
			} else {
				log.Warn("failed to load cycle for snapshot", "cycleID", cycleID, "error", err)
			}
			continue
		}

		if cycle.Status != models.CycleStatusCompleted {
			continue
		}

		if err := j.snapshotRepo.Delete(ctx, cycleID); err != nil {
			log.Warn("failed to evict stale snapshot", "cycleID", cycleID, "error", err)
			continue
		}
		swept++
	}

	log.Info("Snapshot sweep completed", "checked", len(cycleIDs), "swept", swept)
	return nil
}

func (j *SnapshotSweepJob) Schedule() services.Schedule {
	return j.schedule
}

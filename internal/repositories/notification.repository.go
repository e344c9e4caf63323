package repositories

import (
	"context"
	"encoding/json"

	"smartdry/internal/constants"
	"smartdry/internal/database"
	"smartdry/internal/logger"
	. "smartdry/internal/models"

	"github.com/google/uuid"
)

// NotificationFilter narrows history listings. UnreadOnly hides read rows;
// Limit zero means the default page size.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter NotificationFilter) ([]Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []int) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	PushRecent(ctx context.Context, userID uuid.UUID, recent RecentNotification) error
	GetRecent(ctx context.Context, userID uuid.UUID) ([]RecentNotification, bool, error)
}

type notificationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNotificationRepository(db database.DB) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err, "userID", notification.UserID)
	}

	return nil
}

func (r *notificationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter NotificationFilter,
) ([]Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DefaultNotificationLimit
	}

	query := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit)
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, r.log.Function("ListByUser").
			Err("failed to list notifications", err, "userID", userID)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(
	ctx context.Context,
	userID uuid.UUID,
	ids []int,
) error {
	if len(ids) == 0 {
		return nil
	}

	if err := r.db.SQLWithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true).Error; err != nil {
		return r.log.Function("MarkRead").
			Err("failed to mark notifications read", err, "userID", userID)
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.SQLWithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return r.log.Function("MarkAllRead").
			Err("failed to mark all notifications read", err, "userID", userID)
	}

	return nil
}

// PushRecent prepends onto the user's ephemeral notifications:<userId> list.
// The list is unbounded on write; GetRecent trims it back down.
func (r *notificationRepository) PushRecent(
	ctx context.Context,
	userID uuid.UUID,
	recent RecentNotification,
) error {
	if err := database.NewCacheBuilder(r.db.Cache.Notification, userID).
		WithPrefix(constants.NotificationsCachePrefix).
		WithStruct(recent).
		WithContext(ctx).
		LPush(); err != nil {
		return r.log.Function("PushRecent").
			Err("failed to push recent notification", err, "userID", userID)
	}

	return nil
}

// GetRecent reads the newest entries from the ephemeral list and trims the
// list to that window so it cannot grow without bound. The second return is
// false when the list is empty or missing.
func (r *notificationRepository) GetRecent(
	ctx context.Context,
	userID uuid.UUID,
) ([]RecentNotification, bool, error) {
	log := r.log.Function("GetRecent")

	builder := database.NewCacheBuilder(r.db.Cache.Notification, userID).
		WithPrefix(constants.NotificationsCachePrefix).
		WithContext(ctx)

	entries, err := builder.LRange(0, int64(constants.RecentNotificationCount)-1)
	if err != nil {
		return nil, false, log.Err("failed to read recent notifications", err, "userID", userID)
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	if err := builder.LTrim(0, int64(constants.RecentNotificationCount)-1); err != nil {
		log.Warn("failed to trim recent notification list", "userID", userID, "error", err)
	}

	recents := make([]RecentNotification, 0, len(entries))
	for _, entry := range entries {
		var recent RecentNotification
		if err := json.Unmarshal([]byte(entry), &recent); err != nil {
			log.Warn("skipping malformed recent notification entry", "userID", userID, "error", err)
			continue
		}
		recents = append(recents, recent)
	}

	return recents, len(recents) > 0, nil
}

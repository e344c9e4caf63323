package notificationController

import (
	"context"
	"errors"
	"fmt"

	"smartdry/internal/constants"
	"smartdry/internal/events"
	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type NotificationControllerInterface interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message, notificationType string) error
	Recent(ctx context.Context, user *User) ([]RecentNotification, error)
	List(ctx context.Context, user *User, filter repositories.NotificationFilter) ([]Notification, error)
	MarkRead(ctx context.Context, user *User, ids []int) error
	MarkAllRead(ctx context.Context, user *User) error
}

type NotificationController struct {
	notificationRepo repositories.NotificationRepository
	slack            *services.SlackService
	eventBus         *events.EventBus
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	slack *services.SlackService,
	eventBus *events.EventBus,
) NotificationControllerInterface {
	return &NotificationController{
		notificationRepo: repos.Notification,
		slack:            slack,
		eventBus:         eventBus,
		log:              logger.New("notificationController"),
	}
}

// Emit writes the durable row and fans out a copy onto the user's ephemeral
// recent list. Delivery is at-least-once and fire-and-forget past the durable
// write: ephemeral, Slack and event-bus failures are logged and swallowed so
// the triggering operation (usually a cycle completing) never fails on
// notification plumbing.
func (c *NotificationController) Emit(
	ctx context.Context,
	userID uuid.UUID,
	title, message, notificationType string,
) error {
	log := c.log.Function("Emit")

	if userID == uuid.Nil {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if title == "" || message == "" {
		return fmt.Errorf("%w: title and message are required", ErrInvalidInput)
	}
	if !IsValidNotificationType(notificationType) {
		return fmt.Errorf("%w: unknown notification type %q", ErrInvalidInput, notificationType)
	}

	notification := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}

	if err := c.notificationRepo.Create(ctx, notification); err != nil {
		return log.ErrorWithType(ErrStoreUnavailable, "failed to persist notification",
			"error", err, "userID", userID)
	}

	if err := c.notificationRepo.PushRecent(ctx, userID, notification.ToRecent()); err != nil {
		log.Warn("failed to push recent notification, durable copy stands",
			"userID", userID, "error", err)
	}

	if notificationType == NotificationTypeWarning || notificationType == NotificationTypeError {
		c.slack.NotifyCycleIssue(title, message, notificationType)
	}

	if c.eventBus != nil {
		event := events.Event{
			Type:   events.NOTIFICATION_CREATED,
			UserID: &userID,
			Data: map[string]any{
				"title": title,
				"type":  notificationType,
			},
		}
		if err := c.eventBus.Publish(events.NOTIFICATIONS_CHANNEL, event); err != nil {
			log.Warn("failed to publish notification event", "userID", userID, "error", err)
		}
	}

	return nil
}

// Recent serves the polling feed from the ephemeral list, falling back to the
// durable store when the list is empty or the cache is unreachable.
func (c *NotificationController) Recent(
	ctx context.Context,
	user *User,
) ([]RecentNotification, error) {
	log := c.log.Function("Recent")

	recents, found, err := c.notificationRepo.GetRecent(ctx, user.ID)
	if err != nil {
		log.Warn("failed to read recent notification list, falling back to durable store",
			"userID", user.ID, "error", err)
	}
	if found {
		return recents, nil
	}

	notifications, err := c.notificationRepo.ListByUser(ctx, user.ID,
		repositories.NotificationFilter{Limit: constants.RecentNotificationCount})
	if err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to list notifications",
			"error", err, "userID", user.ID)
	}

	recents = make([]RecentNotification, 0, len(notifications))
	for i := range notifications {
		recents = append(recents, notifications[i].ToRecent())
	}

	return recents, nil
}

func (c *NotificationController) List(
	ctx context.Context,
	user *User,
	filter repositories.NotificationFilter,
) ([]Notification, error) {
	notifications, err := c.notificationRepo.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, c.log.Function("List").
			ErrorWithType(ErrStoreUnavailable, "failed to list notifications",
				"error", err, "userID", user.ID)
	}

	return notifications, nil
}

// MarkRead mutates only the durable store; the ephemeral recent list is not
// rewritten. Read state on the recent feed is acceptable staleness.
func (c *NotificationController) MarkRead(ctx context.Context, user *User, ids []int) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one notification id is required", ErrInvalidInput)
	}

	if err := c.notificationRepo.MarkRead(ctx, user.ID, ids); err != nil {
		return c.log.Function("MarkRead").
			ErrorWithType(ErrStoreUnavailable, "failed to mark notifications read",
				"error", err, "userID", user.ID)
	}

	return nil
}

func (c *NotificationController) MarkAllRead(ctx context.Context, user *User) error {
	if err := c.notificationRepo.MarkAllRead(ctx, user.ID); err != nil {
		return c.log.Function("MarkAllRead").
			ErrorWithType(ErrStoreUnavailable, "failed to mark all notifications read",
				"error", err, "userID", user.ID)
	}

	return nil
}

package notificationController

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	durable    []Notification
	recent     map[uuid.UUID][]RecentNotification
	createErr  error
	pushErr    error
	recentErr  error
	listErr    error
	markedRead []int
	allRead    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{recent: make(map[uuid.UUID][]RecentNotification)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	notification.ID = len(f.durable) + 1
	notification.Timestamp = time.Now()
	f.durable = append(f.durable, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter repositories.NotificationFilter,
) ([]Notification, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []Notification
	for _, n := range f.durable {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		result = append(result, n)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID uuid.UUID, ids []int) error {
	f.markedRead = append(f.markedRead, ids...)
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	f.allRead = true
	return nil
}

func (f *fakeNotificationRepo) PushRecent(
	ctx context.Context,
	userID uuid.UUID,
	recent RecentNotification,
) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.recent[userID] = append([]RecentNotification{recent}, f.recent[userID]...)
	return nil
}

func (f *fakeNotificationRepo) GetRecent(
	ctx context.Context,
	userID uuid.UUID,
) ([]RecentNotification, bool, error) {
	if f.recentErr != nil {
		return nil, false, f.recentErr
	}
	recents := f.recent[userID]
	return recents, len(recents) > 0, nil
}

func newNotificationController(repo *fakeNotificationRepo) *NotificationController {
	return &NotificationController{
		notificationRepo: repo,
		log:              logger.New("notificationControllerTest"),
	}
}

func TestEmit_WritesDurableAndEphemeral(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)
	userID := uuid.New()

	err := controller.Emit(context.Background(), userID,
		"Drying Cycle Complete", "Basement Dryer finished", NotificationTypeSuccess)
	require.NoError(t, err)

	require.Len(t, repo.durable, 1)
	assert.Equal(t, userID, repo.durable[0].UserID)
	assert.False(t, repo.durable[0].Read, "notifications start unread")

	require.Len(t, repo.recent[userID], 1)
	assert.Equal(t, "Drying Cycle Complete", repo.recent[userID][0].Title)
}

func TestEmit_Validation(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)

	tests := []struct {
		name   string
		userID uuid.UUID
		title  string
		ntype  string
	}{
		{name: "nil user", userID: uuid.Nil, title: "t", ntype: NotificationTypeInfo},
		{name: "empty title", userID: uuid.New(), title: "", ntype: NotificationTypeInfo},
		{name: "unknown type", userID: uuid.New(), title: "t", ntype: "urgent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := controller.Emit(context.Background(), tt.userID, tt.title, "m", tt.ntype)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, repo.durable)
}

func TestEmit_EphemeralFailureIsSwallowed(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.pushErr = errors.New("cache down")
	controller := newNotificationController(repo)
	userID := uuid.New()

	err := controller.Emit(context.Background(), userID, "Title", "Message", NotificationTypeInfo)
	require.NoError(t, err, "durable copy stands, ephemeral degradation is tolerated")
	require.Len(t, repo.durable, 1)
}

func TestEmit_DurableFailureIsFatal(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.createErr = errors.New("db down")
	controller := newNotificationController(repo)

	err := controller.Emit(context.Background(), uuid.New(), "Title", "Message", NotificationTypeInfo)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRecent_ServedFromEphemeralList(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, controller.Emit(context.Background(), user.ID, title, "m", NotificationTypeInfo))
	}

	recents, err := controller.Recent(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, recents, 3)
	assert.Equal(t, "third", recents[0].Title, "newest first")
}

func TestRecent_FallsBackToDurableStore(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	require.NoError(t, controller.Emit(context.Background(), user.ID, "kept", "m", NotificationTypeInfo))
	// Ephemeral list evicted (cache restart)
	delete(repo.recent, user.ID)

	recents, err := controller.Recent(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, recents, 1)
	assert.Equal(t, "kept", recents[0].Title)
}

func TestRecent_CacheErrorFallsBackToDurableStore(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	require.NoError(t, controller.Emit(context.Background(), user.ID, "kept", "m", NotificationTypeInfo))
	repo.recentErr = errors.New("cache down")

	recents, err := controller.Recent(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, recents, 1)
}

func TestMarkRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	err := controller.MarkRead(context.Background(), user, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, repo.markedRead)

	err = controller.MarkRead(context.Background(), user, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	controller := newNotificationController(repo)
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	require.NoError(t, controller.MarkAllRead(context.Background(), user))
	assert.True(t, repo.allRead)
}

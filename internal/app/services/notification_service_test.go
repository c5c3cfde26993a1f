package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

func TestNotificationService_NotifyStoresAndPublishes(t *testing.T) {
	repo := &fakeNotifications{}
	publisher := &recordingPublisher{}
	svc := NewNotificationService(repo, publisher, testLogger)

	svc.Notify(bg, models.Notification{UserID: 7, Type: models.NotifyForumReply, Title: "New reply"})
	svc.Notify(bg, models.Notification{UserID: 0, Title: "dropped"})

	require.Len(t, repo.items, 1)
	require.Len(t, publisher.events, 1)
	ev := publisher.last()
	assert.Equal(t, []int64{7}, ev.userIDs)
	assert.Equal(t, realtime.EventNotification, ev.event.Type)
	assert.Equal(t, repo.items[0].ID, ev.event.RecordID)
}

func TestNotificationService_ReadState(t *testing.T) {
	repo := &fakeNotifications{}
	publisher := &recordingPublisher{}
	svc := NewNotificationService(repo, publisher, testLogger)
	me := Actor{UserID: 7, Role: models.RoleStudent}

	for range 3 {
		svc.Notify(bg, models.Notification{UserID: 7, Title: "hi"})
	}
	svc.Notify(bg, models.Notification{UserID: 8, Title: "other"})

	count, err := svc.UnreadCount(bg, me)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkRead(bg, me, repo.items[0].ID))
	assert.ErrorIs(t, svc.MarkRead(bg, me, repo.items[3].ID), apperrors.ErrNotificationNotFound, "cannot read another user's notification")

	unread, err := svc.List(bg, me, dto.NotificationFilterRequest{Unread: true})
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)

	n, err := svc.MarkAllRead(bg, me)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	published := len(publisher.events)
	n, err = svc.MarkAllRead(bg, me)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, publisher.events, published, "nothing to publish when nothing changed")
}

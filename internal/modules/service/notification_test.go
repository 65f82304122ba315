package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

func TestNotificationService_List(t *testing.T) {
	owner := accountWithRole(model.RoleDeveloper)

	notifications := &MockNotificationRepo{}
	notifications.On("ListWithCursor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 21, false).
		Return([]model.Notification{
			{ID: uuid.New(), AccountID: owner.ID, Message: "You have been added to the project: apollo"},
		}, nil)

	svc := NewNotificationService(notifications)
	out, err := svc.List(context.Background(), ListNotificationsInput{
		ListInput: ListInput{Limit: 20},
		Caller:    owner,
	})

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.False(t, out.HasMore)
	notifications.AssertExpectations(t)
}

func TestNotificationService_MarkRead(t *testing.T) {
	owner := accountWithRole(model.RoleDeveloper)
	notificationID := uuid.New()

	t.Run("owner marks own notification read", func(t *testing.T) {
		notifications := &MockNotificationRepo{}
		notifications.On("Get", mock.Anything, notificationID, mock.Anything).
			Return(&model.Notification{ID: notificationID, AccountID: owner.ID}, nil)
		notifications.On("MarkRead", mock.Anything, notificationID).Return(nil)

		svc := NewNotificationService(notifications)
		n, err := svc.MarkRead(context.Background(), owner, notificationID)

		assert.NoError(t, err)
		assert.True(t, n.IsRead)
		notifications.AssertExpectations(t)
	})

	t.Run("another account's notification reads as absent", func(t *testing.T) {
		// The account scope hides foreign rows, so the lookup itself misses.
		notifications := &MockNotificationRepo{}
		notifications.On("Get", mock.Anything, notificationID, mock.Anything).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewNotificationService(notifications)
		_, err := svc.MarkRead(context.Background(), owner, notificationID)

		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

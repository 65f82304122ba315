package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/policy"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

type ListNotificationsInput struct {
	ListInput
	Caller *model.Account
}

type ListNotificationsOutput struct {
	Items      []model.Notification `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
	HasMore    bool                 `json:"has_more"`
}

type NotificationService interface {
	List(ctx context.Context, in ListNotificationsInput) (*ListNotificationsOutput, error)
	// MarkRead flips is_read on one of the caller's notifications. Another
	// account's notification reads as absent.
	MarkRead(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Notification, error)
}

type notificationService struct {
	notifications repo.NotificationRepo
}

func NewNotificationService(notifications repo.NotificationRepo) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, in ListNotificationsInput) (*ListNotificationsOutput, error) {
	if d := policy.Decide(in.Caller.Profile, policy.ResourceNotification, policy.OpList, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	afterT, afterID, err := in.decodeCursor()
	if err != nil {
		return nil, err
	}

	items, err := s.notifications.ListWithCursor(ctx, scope.Notifications(in.Caller), afterT, afterID, in.Limit+1, in.TimeDesc)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}

	out := &ListNotificationsOutput{}
	out.Items, out.NextCursor, out.HasMore = page(items, in.Limit,
		func(n model.Notification) time.Time { return n.CreatedAt },
		func(n model.Notification) uuid.UUID { return n.ID })
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Notification, error) {
	// The account scope makes another owner's notification unfindable, so
	// the policy's hide-existence rule falls out of the 404 below.
	n, err := s.notifications.Get(ctx, id, scope.Notifications(caller))
	if err != nil {
		return nil, storeErr(err, "notification not found")
	}

	snap := policy.Snapshot{CallerIsOwner: n.AccountID == caller.ID}
	if d := policy.Decide(caller.Profile, policy.ResourceNotification, policy.OpUpdate, snap); !d.Allow {
		if d.Hide {
			return nil, apperr.NotFound("notification not found")
		}
		return nil, apperr.Forbidden(d.Reason)
	}

	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, storeErr(err, "notification not found")
	}
	n.IsRead = true
	return n, nil
}

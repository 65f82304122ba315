package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"gorm.io/gorm"
)

type NotificationRepo interface {
	Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Notification, error)
	ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Notification, error)
	// MarkRead flips is_read only; every other field is left untouched.
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).
		Scopes(sc).
		Where("notifications.id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).Scopes(sc)
	q = applyCursor(q, "notifications", afterCreatedAt, afterID, timeDesc)

	var items []model.Notification
	return items, q.Limit(limit).Find(&items).Error
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{ID: id}).
		Update("is_read", true).Error
}

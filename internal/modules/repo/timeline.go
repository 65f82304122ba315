package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"gorm.io/gorm"
)

type TimelineRepo interface {
	ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Timeline, error)
}

type timelineRepo struct{ db *gorm.DB }

func NewTimelineRepo(db *gorm.DB) TimelineRepo {
	return &timelineRepo{db: db}
}

func (r *timelineRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Timeline, error) {
	q := r.db.WithContext(ctx).Scopes(sc)
	q = applyCursor(q, "timelines", afterCreatedAt, afterID, timeDesc)

	var items []model.Timeline
	return items, q.Limit(limit).Find(&items).Error
}

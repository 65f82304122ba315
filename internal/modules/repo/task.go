package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"gorm.io/gorm"
)

type TaskRepo interface {
	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Task, error)
	ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Task, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, t *model.Task) error
}

type taskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taskRepo) Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).
		Scopes(sc).
		Preload("Assignee").
		Where("tasks.id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Scopes(sc).Preload("Assignee")
	q = applyCursor(q, "tasks", afterCreatedAt, afterID, timeDesc)

	var items []model.Task
	return items, q.Limit(limit).Find(&items).Error
}

func (r *taskRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Task{ID: id}).Updates(fields).Error
}

func (r *taskRepo) Delete(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Delete(t).Error
}

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"gorm.io/gorm"
)

type DocumentRepo interface {
	Create(ctx context.Context, d *model.Document) error
	Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Document, error)
	ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Document, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, d *model.Document) error
	// NameExists reports whether another document in the project already
	// carries the name. The unique index is the real guarantee; this is the
	// pre-check that turns the common case into a field error.
	NameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

type documentRepo struct{ db *gorm.DB }

func NewDocumentRepo(db *gorm.DB) DocumentRepo {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).
		Scopes(sc).
		Where("documents.id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Document, error) {
	q := r.db.WithContext(ctx).Scopes(sc)
	q = applyCursor(q, "documents", afterCreatedAt, afterID, timeDesc)

	var items []model.Document
	return items, q.Limit(limit).Find(&items).Error
}

func (r *documentRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Document{ID: id}).Updates(fields).Error
}

func (r *documentRepo) Delete(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Delete(d).Error
}

func (r *documentRepo) NameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Document{}).
		Where("project_id = ? AND name = ?", projectID, name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"gorm.io/gorm"
)

type CommentRepo interface {
	Create(ctx context.Context, cm *model.Comment) error
	Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Comment, error)
	// GetAny fetches without visibility scoping; ownership violations on
	// comments answer 403, so the record must be loadable first.
	GetAny(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Comment, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, cm *model.Comment) error
}

type commentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, cm *model.Comment) error {
	return r.db.WithContext(ctx).Create(cm).Error
}

func (r *commentRepo) Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Comment, error) {
	var cm model.Comment
	err := r.db.WithContext(ctx).
		Scopes(sc).
		Where("comments.id = ?", id).
		First(&cm).Error
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (r *commentRepo) GetAny(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var cm model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cm).Error
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (r *commentRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Comment, error) {
	q := r.db.WithContext(ctx).Scopes(sc)
	q = applyCursor(q, "comments", afterCreatedAt, afterID, timeDesc)

	var items []model.Comment
	return items, q.Limit(limit).Find(&items).Error
}

func (r *commentRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Comment{ID: id}).Updates(fields).Error
}

func (r *commentRepo) Delete(ctx context.Context, cm *model.Comment) error {
	return r.db.WithContext(ctx).Delete(cm).Error
}

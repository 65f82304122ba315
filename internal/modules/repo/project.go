package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	// CreateInTx persists the project and runs hook within the same
	// transaction; a hook error rolls everything back.
	CreateInTx(ctx context.Context, p *model.Project, hook func(tx *gorm.DB) error) error
	Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Project, error)
	ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Project, error)
	// Update applies a partial field merge.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ReplaceMembers sets the team to exactly the given profiles.
	ReplaceMembers(ctx context.Context, p *model.Project, members []model.Profile) error
	Delete(ctx context.Context, p *model.Project) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) CreateInTx(ctx context.Context, p *model.Project, hook func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if hook != nil {
			return hook(tx)
		}
		return nil
	})
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Scopes(sc).
		Preload("TeamMembers").
		Preload("Timeline").
		Where("projects.id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Project, error) {
	q := r.db.WithContext(ctx).Scopes(sc).Preload("TeamMembers")
	q = applyCursor(q, "projects", afterCreatedAt, afterID, timeDesc)

	var items []model.Project
	return items, q.Limit(limit).Find(&items).Error
}

func (r *projectRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Project{ID: id}).Updates(fields).Error
}

func (r *projectRepo) ReplaceMembers(ctx context.Context, p *model.Project, members []model.Profile) error {
	return r.db.WithContext(ctx).Model(p).Association("TeamMembers").Replace(members)
}

func (r *projectRepo) Delete(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Select("TeamMembers").Delete(p).Error
}

// applyCursor narrows q to rows strictly beyond the (created_at, id) cursor
// and orders the page. An empty cursor starts from the edge.
func applyCursor(q *gorm.DB, table string, afterCreatedAt time.Time, afterID uuid.UUID, timeDesc bool) *gorm.DB {
	if !afterCreatedAt.IsZero() && afterID != uuid.Nil {
		if timeDesc {
			q = q.Where(
				"("+table+".created_at < ?) OR ("+table+".created_at = ? AND "+table+".id < ?)",
				afterCreatedAt, afterCreatedAt, afterID,
			)
		} else {
			q = q.Where(
				"("+table+".created_at > ?) OR ("+table+".created_at = ? AND "+table+".id > ?)",
				afterCreatedAt, afterCreatedAt, afterID,
			)
		}
	}
	if timeDesc {
		return q.Order(table + ".created_at DESC, " + table + ".id DESC")
	}
	return q.Order(table + ".created_at ASC, " + table + ".id ASC")
}

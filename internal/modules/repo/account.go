package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"gorm.io/gorm"
)

type AccountRepo interface {
	// Create persists the account together with its profile (1:1).
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]model.Profile, error)
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, a *model.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

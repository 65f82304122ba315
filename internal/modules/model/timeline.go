package model

import (
	"time"

	"github.com/google/uuid"
)

// Timeline is a derived entity: exactly one row per project, created in the
// same transaction as the project itself. The unique index on ProjectID is
// what enforces the one-to-one shape at the store level.
type Timeline struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Timeline <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Timeline) TableName() string { return "timelines" }

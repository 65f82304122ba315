package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Project struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	StartDate   datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate     *datatypes.Date `json:"end_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> Profile (team membership)
	TeamMembers []Profile `gorm:"many2many:project_members;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"team_members,omitempty"`

	// Project <-> Task
	Tasks []Task `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Document
	Documents []Document `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Timeline (one-to-one, created by the event pipeline)
	Timeline *Timeline `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"timeline,omitempty"`
}

func (Project) TableName() string { return "projects" }

package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Text string    `gorm:"type:text;not null" json:"text"`
	// Author and CreatedAt are immutable after creation; updates that try to
	// change them are rejected at the service layer.
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Comment <-> Account
	Author *Account `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"author,omitempty"`

	// Comment <-> Task
	Task *Task `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"task,omitempty"`

	// Comment <-> Project (denormalized; must equal Task.ProjectID)
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"project,omitempty"`
}

func (Comment) TableName() string { return "comments" }

package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_documents_project_name,priority:2" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Version     string    `gorm:"type:varchar(100)" json:"version"`
	// Object key of the uploaded file in blob storage.
	FileKey   string    `gorm:"type:varchar(255)" json:"file_key,omitempty"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_documents_project_name,priority:1" json:"project_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Document <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"project,omitempty"`
}

func (Document) TableName() string { return "documents" }

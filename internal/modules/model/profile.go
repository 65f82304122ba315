package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"account_id"`

	Role          Role   `gorm:"type:text;not null;check:role IN ('manager','qa','developer')" json:"role"`
	ContactNumber string `gorm:"type:varchar(15);not null" json:"contact_number"`
	// Object key of the profile picture in blob storage, empty when unset.
	PictureKey string `gorm:"type:varchar(255)" json:"picture_key,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Profile <-> Account
	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

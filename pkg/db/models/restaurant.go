package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is a kitchen location; its products never touch the ledger.
type Restaurant struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	LogoURL       *string   `gorm:"column:logo_url"`
	CoverImageURL *string   `gorm:"column:cover_image_url"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt    time.Time `gorm:"column:modified_at;autoUpdateTime"`
}

func (Restaurant) TableName() string { return "restaurants" }

package models

import (
	"time"

	"github.com/google/uuid"
)

// Bodegon is a physical retail location selling bodegon products.
type Bodegon struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	PhoneNumber *string   `gorm:"column:phone_number"`
	Address     *string   `gorm:"column:address"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt  time.Time `gorm:"column:modified_at;autoUpdateTime"`
}

func (Bodegon) TableName() string { return "bodegones" }

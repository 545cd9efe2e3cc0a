package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bodegonapp/bodegon-backend/pkg/enums"
)

// Category groups products within one family. Bodegon categories are global;
// restaurant categories belong to exactly one restaurant.
type Category struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Kind         enums.CategoryKind `gorm:"column:kind;not null"`
	RestaurantID *uuid.UUID         `gorm:"column:restaurant_id;type:uuid"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt   time.Time          `gorm:"column:modified_at;autoUpdateTime"`
}

func (Category) TableName() string { return "categories" }

// Subcategory always references exactly one parent category of the matching
// family.
type Subcategory struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	CategoryID   uuid.UUID  `gorm:"column:category_id;type:uuid;not null"`
	RestaurantID *uuid.UUID `gorm:"column:restaurant_id;type:uuid"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt   time.Time  `gorm:"column:modified_at;autoUpdateTime"`
}

func (Subcategory) TableName() string { return "subcategories" }

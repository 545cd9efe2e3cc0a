package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// RestaurantProduct is a catalog item bound to exactly one restaurant.
// RestaurantID is immutable after creation; availability is the single
// IsAvailable flag, no ledger entries exist for this family.
type RestaurantProduct struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Description   *string         `gorm:"column:description"`
	ImageURLs     pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	RestaurantID  uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null"`
	CategoryID    *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	SubcategoryID *uuid.UUID      `gorm:"column:subcategory_id;type:uuid"`
	IsAvailable   bool            `gorm:"column:is_available;not null;default:true"`
	CreatedBy     *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt    time.Time       `gorm:"column:modified_at;autoUpdateTime"`
}

func (RestaurantProduct) TableName() string { return "restaurant_products" }

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// BodegonProduct is a catalog item sold from physical bodegon locations.
// Per-location availability lives in the inventory ledger, never on the row.
type BodegonProduct struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string           `gorm:"column:name;not null"`
	Description     *string          `gorm:"column:description"`
	ImageURLs       pq.StringArray   `gorm:"column:image_urls;type:text[]"`
	BarCode         *string          `gorm:"column:bar_code"`
	SKU             *string          `gorm:"column:sku"`
	CategoryID      *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	SubcategoryID   *uuid.UUID       `gorm:"column:subcategory_id;type:uuid"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	IsDiscount      bool             `gorm:"column:is_discount;not null;default:false"`
	IsPromo         bool             `gorm:"column:is_promo;not null;default:false"`
	DiscountedPrice *decimal.Decimal `gorm:"column:discounted_price;type:numeric(12,2)"`
	CreatedBy       *uuid.UUID       `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt      time.Time        `gorm:"column:modified_at;autoUpdateTime"`
}

func (BodegonProduct) TableName() string { return "bodegon_products" }

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one pending row in a user's cart. Exactly one of
// BodegonProductID / RestaurantProductID is set. Price and NameSnapshot are
// captured at add time and never rewritten, so later catalog edits do not
// alter an existing line's contribution to cart totals. A line belongs to
// the pending cart while OrderID is null.
type CartLine struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	BodegonProductID    *uuid.UUID      `gorm:"column:bodegon_product_id;type:uuid"`
	RestaurantProductID *uuid.UUID      `gorm:"column:restaurant_product_id;type:uuid"`
	Quantity            int             `gorm:"column:quantity;not null"`
	Price               decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	NameSnapshot        string          `gorm:"column:name_snapshot;not null"`
	OrderID             *uuid.UUID      `gorm:"column:order_id;type:uuid"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLine) TableName() string { return "cart_lines" }

// ProductRef returns the referenced product id and its family flag.
func (l CartLine) ProductRef() (uuid.UUID, bool) {
	if l.BodegonProductID != nil {
		return *l.BodegonProductID, true
	}
	if l.RestaurantProductID != nil {
		return *l.RestaurantProductID, false
	}
	return uuid.Nil, false
}

// LineTotal is quantity times the immutable price snapshot.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

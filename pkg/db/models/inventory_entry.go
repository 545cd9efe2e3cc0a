package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryEntry marks a bodegon product as available at one location.
// Entries are written with IsAvailable true; absence of an entry is the
// normal "not available" state. A present-but-false entry reads as absent.
type InventoryEntry struct {
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;primaryKey"`
	BodegonID   uuid.UUID  `gorm:"column:bodegon_id;type:uuid;primaryKey"`
	IsAvailable bool       `gorm:"column:is_available;not null;default:true"`
	CreatedBy   *uuid.UUID `gorm:"column:created_by;type:uuid"`
	ModifiedAt  time.Time  `gorm:"column:modified_at;autoUpdateTime"`
}

func (InventoryEntry) TableName() string { return "inventory_ledger" }

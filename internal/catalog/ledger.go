package catalog

import (
	"context"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository owns the inventory ledger, the per-(product, location)
// availability rows for bodegon products. Restaurant products never touch
// this table.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository builds a ledger repository tied to the provided DB.
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// InsertEntries bulk-inserts one available ledger row per bodegon id. A
// no-op on an empty slice.
func (r *LedgerRepository) InsertEntries(ctx context.Context, productID uuid.UUID, bodegonIDs []uuid.UUID, createdBy *uuid.UUID) error {
	if len(bodegonIDs) == 0 {
		return nil
	}
	entries := make([]models.InventoryEntry, 0, len(bodegonIDs))
	for _, bodegonID := range bodegonIDs {
		entries = append(entries, models.InventoryEntry{
			ProductID:   productID,
			BodegonID:   bodegonID,
			IsAvailable: true,
			CreatedBy:   createdBy,
		})
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// DeleteForProduct removes every ledger row for the product. Deleting rows
// that do not exist is not an error.
func (r *LedgerRepository) DeleteForProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.InventoryEntry{}).
		Error
}

// ListAvailableBodegonIDs returns the bodegon ids that carry an available
// ledger row for the product, ordered by id for stable output.
func (r *LedgerRepository) ListAvailableBodegonIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.InventoryEntry{}).
		Where("product_id = ? AND is_available = ?", productID, true).
		Order("bodegon_id ASC").
		Pluck("bodegon_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

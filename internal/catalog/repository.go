package catalog

import (
	"context"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together persistence for both product families. Each
// method maps to a single statement against the remote store; there is no
// cross-statement transaction surface, which is why the service layer
// coordinates multi-step writes with explicit compensation.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBodegonProduct inserts a new bodegon product row.
func (r *Repository) CreateBodegonProduct(ctx context.Context, product *models.BodegonProduct) (*models.BodegonProduct, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveBodegonProduct updates an existing bodegon product row.
func (r *Repository) SaveBodegonProduct(ctx context.Context, product *models.BodegonProduct) (*models.BodegonProduct, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteBodegonProduct removes a bodegon product row by id.
func (r *Repository) DeleteBodegonProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BodegonProduct{}).Error
}

// FindBodegonProductByID loads a bodegon product without associations.
func (r *Repository) FindBodegonProductByID(ctx context.Context, id uuid.UUID) (*models.BodegonProduct, error) {
	var product models.BodegonProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateRestaurantProduct inserts a new restaurant product row.
func (r *Repository) CreateRestaurantProduct(ctx context.Context, product *models.RestaurantProduct) (*models.RestaurantProduct, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveRestaurantProduct updates an existing restaurant product row.
func (r *Repository) SaveRestaurantProduct(ctx context.Context, product *models.RestaurantProduct) (*models.RestaurantProduct, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteRestaurantProduct removes a restaurant product row by id.
func (r *Repository) DeleteRestaurantProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RestaurantProduct{}).Error
}

// FindRestaurantProductByID loads a restaurant product without associations.
func (r *Repository) FindRestaurantProductByID(ctx context.Context, id uuid.UUID) (*models.RestaurantProduct, error) {
	var product models.RestaurantProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CountBodegonProductsBySKU counts bodegon products carrying the sku,
// excluding the given id. Used by the advisory uniqueness pre-check; the
// store enforces no unique constraint, so a concurrent insert can still
// race past this count.
func (r *Repository) CountBodegonProductsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BodegonProduct{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).
		Error
	return count, err
}

// CountBodegonProductsByBarCode mirrors CountBodegonProductsBySKU for the
// bar code field.
func (r *Repository) CountBodegonProductsByBarCode(ctx context.Context, barCode string, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BodegonProduct{}).
		Where("bar_code = ? AND id <> ?", barCode, excludeID).
		Count(&count).
		Error
	return count, err
}

// ListRestaurantProducts returns all products owned by the restaurant,
// newest first.
func (r *Repository) ListRestaurantProducts(ctx context.Context, restaurantID uuid.UUID) ([]models.RestaurantProduct, error) {
	var rows []models.RestaurantProduct
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

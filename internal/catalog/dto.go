package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
)

// CreateProductInput carries everything needed to create a product in
// either family. Kind selects the family; fields belonging to the other
// family are ignored.
type CreateProductInput struct {
	Kind          enums.ProductKind `json:"kind"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	ImageURLs     []string          `json:"image_urls,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	SubcategoryID *uuid.UUID        `json:"subcategory_id,omitempty"`

	// Bodegon family only.
	SKU             *string          `json:"sku,omitempty"`
	BarCode         *string          `json:"bar_code,omitempty"`
	IsDiscount      bool             `json:"is_discount,omitempty"`
	IsPromo         bool             `json:"is_promo,omitempty"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	BodegonIDs      []uuid.UUID      `json:"bodegon_ids,omitempty"`

	// Restaurant family only.
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`
	IsAvailable  *bool      `json:"is_available,omitempty"`

	CreatedBy *uuid.UUID `json:"-"`
}

// UpdateProductInput is a partial update; nil fields are left untouched.
// BodegonIDs, when present, replaces the full inventory ledger for the
// product. RestaurantID is deliberately absent, the binding is immutable.
type UpdateProductInput struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	ImageURLs     *[]string        `json:"image_urls,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	SubcategoryID *uuid.UUID       `json:"subcategory_id,omitempty"`

	SKU             *string          `json:"sku,omitempty"`
	BarCode         *string          `json:"bar_code,omitempty"`
	IsDiscount      *bool            `json:"is_discount,omitempty"`
	IsPromo         *bool            `json:"is_promo,omitempty"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	BodegonIDs      *[]uuid.UUID     `json:"bodegon_ids,omitempty"`

	IsActive    *bool `json:"is_active,omitempty"`
	IsAvailable *bool `json:"is_available,omitempty"`
}

// CatalogProduct is the unified read model spanning both families. Kind
// tells the caller which family-specific fields are meaningful.
type CatalogProduct struct {
	ID            uuid.UUID         `json:"id"`
	Kind          enums.ProductKind `json:"kind"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	ImageURLs     []string          `json:"image_urls"`
	Price         decimal.Decimal   `json:"price"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	SubcategoryID *uuid.UUID        `json:"subcategory_id,omitempty"`
	IsActive      bool              `json:"is_active"`

	SKU             *string          `json:"sku,omitempty"`
	BarCode         *string          `json:"bar_code,omitempty"`
	IsDiscount      bool             `json:"is_discount,omitempty"`
	IsPromo         bool             `json:"is_promo,omitempty"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	BodegonIDs      []uuid.UUID      `json:"bodegon_ids,omitempty"`

	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`

	CreatedBy  *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
}

// CreateCategoryInput creates a category. Restaurant-kind categories must
// name their owning restaurant.
type CreateCategoryInput struct {
	Name         string             `json:"name"`
	Kind         enums.CategoryKind `json:"kind"`
	RestaurantID *uuid.UUID         `json:"restaurant_id,omitempty"`
}

// CreateSubcategoryInput creates a subcategory under an existing category.
type CreateSubcategoryInput struct {
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
}

func bodegonProductToDTO(row *models.BodegonProduct, bodegonIDs []uuid.UUID) *CatalogProduct {
	return &CatalogProduct{
		ID:              row.ID,
		Kind:            enums.ProductKindBodegon,
		Name:            row.Name,
		Description:     row.Description,
		ImageURLs:       []string(row.ImageURLs),
		Price:           row.Price,
		CategoryID:      row.CategoryID,
		SubcategoryID:   row.SubcategoryID,
		IsActive:        row.IsActive,
		SKU:             row.SKU,
		BarCode:         row.BarCode,
		IsDiscount:      row.IsDiscount,
		IsPromo:         row.IsPromo,
		DiscountedPrice: row.DiscountedPrice,
		BodegonIDs:      bodegonIDs,
		CreatedBy:       row.CreatedBy,
		CreatedAt:       row.CreatedAt,
		ModifiedAt:      row.ModifiedAt,
	}
}

func restaurantProductToDTO(row *models.RestaurantProduct) *CatalogProduct {
	restaurantID := row.RestaurantID
	return &CatalogProduct{
		ID:            row.ID,
		Kind:          enums.ProductKindRestaurant,
		Name:          row.Name,
		Description:   row.Description,
		ImageURLs:     []string(row.ImageURLs),
		Price:         row.Price,
		CategoryID:    row.CategoryID,
		SubcategoryID: row.SubcategoryID,
		IsActive:      row.IsAvailable,
		RestaurantID:  &restaurantID,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt,
		ModifiedAt:    row.ModifiedAt,
	}
}

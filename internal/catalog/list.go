package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/bodegonapp/bodegon-backend/pkg/pagination"
)

// ListBodegonProductsInput filters the paginated bodegon catalog listing.
type ListBodegonProductsInput struct {
	Limit         int
	Cursor        string
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	ActiveOnly    bool
	Search        string
}

// BodegonProductList is one page of catalog rows plus the cursor for the
// next page, empty when this is the last one.
type BodegonProductList struct {
	Products   []CatalogProduct `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// BodegonProductFilter is the repository-level query shape for a listing
// page. Limit already includes the extra row used to detect the next page.
type BodegonProductFilter struct {
	Limit         int
	After         *pagination.Cursor
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	ActiveOnly    bool
	Search        string
}

// ListBodegonProductsPage runs one keyset-paginated page query ordered by
// (created_at, id) descending.
func (r *Repository) ListBodegonProductsPage(ctx context.Context, filter BodegonProductFilter) ([]models.BodegonProduct, error) {
	query := r.db.WithContext(ctx).Model(&models.BodegonProduct{})

	if filter.After != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.After.CreatedAt, filter.After.CreatedAt, filter.After.ID,
		)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		query = query.Where("subcategory_id = ?", *filter.SubcategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var rows []models.BodegonProduct
	err := query.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Find(&rows).
		Error
	return rows, err
}

func (s *service) ListBodegonProducts(ctx context.Context, input ListBodegonProductsInput) (*BodegonProductList, error) {
	after, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.products.ListBodegonProductsPage(ctx, BodegonProductFilter{
		Limit:         pagination.LimitWithBuffer(input.Limit),
		After:         after,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		ActiveOnly:    input.ActiveOnly,
		Search:        input.Search,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bodegon products")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	// Listing rows skip the per-row ledger lookup; callers fetch inventory
	// for the product they drill into.
	products := make([]CatalogProduct, 0, len(rows))
	for i := range rows {
		products = append(products, *bodegonProductToDTO(&rows[i], nil))
	}
	return &BodegonProductList{Products: products, NextCursor: nextCursor}, nil
}

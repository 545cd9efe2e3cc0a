package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
)

// Repository persists cart lines. The pending cart is the set of lines
// with a null order id; lines claimed by an order are invisible here.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPendingLines loads the user's pending cart, oldest line first.
func (r *Repository) ListPendingLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id IS NULL", userID).
		Order("created_at ASC").
		Find(&lines).
		Error
	return lines, err
}

// FindPendingLine loads one pending line by id, scoped to the user.
func (r *Repository) FindPendingLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND order_id IS NULL", lineID, userID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindPendingLineByProduct locates the user's pending line for a product,
// if one exists. isBodegon selects which reference column to match.
func (r *Repository) FindPendingLineByProduct(ctx context.Context, userID, productID uuid.UUID, isBodegon bool) (*models.CartLine, error) {
	column := "restaurant_product_id"
	if isBodegon {
		column = "bodegon_product_id"
	}
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id IS NULL AND "+column+" = ?", userID, productID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// InsertLine adds a new pending line.
func (r *Repository) InsertLine(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity rewrites a line's quantity. The price and name snapshots
// are never touched by updates.
func (r *Repository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).
		Error
}

// DeleteLine removes one line by id.
func (r *Repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", lineID).Delete(&models.CartLine{}).Error
}

// DeleteAllPending clears the user's pending cart.
func (r *Repository) DeleteAllPending(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND order_id IS NULL", userID).
		Delete(&models.CartLine{}).
		Error
}

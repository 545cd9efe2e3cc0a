package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
)

// AddToCartInput adds quantity units of a product to the caller's cart.
type AddToCartInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// LineView is one cart line as clients see it. Price and Name are the
// snapshots captured when the line was created; the live catalog row may
// have moved on.
type LineView struct {
	ID        uuid.UUID         `json:"id"`
	ProductID uuid.UUID         `json:"product_id"`
	Kind      enums.ProductKind `json:"kind"`
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	Price     decimal.Decimal   `json:"price"`
	LineTotal decimal.Decimal   `json:"line_total"`
}

// CartView is the full cart with totals computed from line snapshots only.
// FromCache marks a view served from the durable fallback copy while the
// store was unreachable.
type CartView struct {
	UserID      uuid.UUID       `json:"user_id"`
	Lines       []LineView      `json:"lines"`
	Version     uint64          `json:"version"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	FromCache   bool            `json:"from_cache,omitempty"`
	LoadedAt    time.Time       `json:"loaded_at"`
}

func buildView(userID uuid.UUID, lines []models.CartLine, version uint64, fromCache bool, loadedAt time.Time) *CartView {
	view := &CartView{
		UserID:      userID,
		Lines:       make([]LineView, 0, len(lines)),
		Version:     version,
		TotalAmount: decimal.Zero,
		FromCache:   fromCache,
		LoadedAt:    loadedAt,
	}
	for _, line := range lines {
		productID, isBodegon := line.ProductRef()
		kind := enums.ProductKindRestaurant
		if isBodegon {
			kind = enums.ProductKindBodegon
		}
		total := line.LineTotal()
		view.Lines = append(view.Lines, LineView{
			ID:        line.ID,
			ProductID: productID,
			Kind:      kind,
			Name:      line.NameSnapshot,
			Quantity:  line.Quantity,
			Price:     line.Price,
			LineTotal: total,
		})
		view.TotalItems += line.Quantity
		view.TotalAmount = view.TotalAmount.Add(total)
	}
	return view
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
	"github.com/bodegonapp/bodegon-backend/pkg/metrics"
	"github.com/bodegonapp/bodegon-backend/pkg/pubsub"
)

// maxProductImages caps the image gallery for a product in either family.
const maxProductImages = 4

// Service is the catalog write pipeline. Product writes that span the
// product table and the inventory ledger are not atomic; the service
// compensates by hand and reports which of the two terminal states a
// failed dual write landed in.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*CatalogProduct, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*CatalogProduct, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*CatalogProduct, error)
	GetInventory(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
	ListBodegonProducts(ctx context.Context, input ListBodegonProductsInput) (*BodegonProductList, error)
	ListRestaurantProducts(ctx context.Context, restaurantID uuid.UUID) ([]CatalogProduct, error)
}

type productStore interface {
	CreateBodegonProduct(ctx context.Context, product *models.BodegonProduct) (*models.BodegonProduct, error)
	SaveBodegonProduct(ctx context.Context, product *models.BodegonProduct) (*models.BodegonProduct, error)
	DeleteBodegonProduct(ctx context.Context, id uuid.UUID) error
	FindBodegonProductByID(ctx context.Context, id uuid.UUID) (*models.BodegonProduct, error)
	CountBodegonProductsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (int64, error)
	CountBodegonProductsByBarCode(ctx context.Context, barCode string, excludeID uuid.UUID) (int64, error)
	ListBodegonProductsPage(ctx context.Context, filter BodegonProductFilter) ([]models.BodegonProduct, error)

	CreateRestaurantProduct(ctx context.Context, product *models.RestaurantProduct) (*models.RestaurantProduct, error)
	SaveRestaurantProduct(ctx context.Context, product *models.RestaurantProduct) (*models.RestaurantProduct, error)
	DeleteRestaurantProduct(ctx context.Context, id uuid.UUID) error
	FindRestaurantProductByID(ctx context.Context, id uuid.UUID) (*models.RestaurantProduct, error)
	ListRestaurantProducts(ctx context.Context, restaurantID uuid.UUID) ([]models.RestaurantProduct, error)
}

type ledgerStore interface {
	InsertEntries(ctx context.Context, productID uuid.UUID, bodegonIDs []uuid.UUID, createdBy *uuid.UUID) error
	DeleteForProduct(ctx context.Context, productID uuid.UUID) error
	ListAvailableBodegonIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
}

type categoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, kind string) ([]models.Category, error)
	CreateSubcategory(ctx context.Context, subcategory *models.Subcategory) (*models.Subcategory, error)
	FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error)
}

type orphanAlerter interface {
	PublishOrphan(ctx context.Context, alert pubsub.OrphanAlert) error
}

type service struct {
	products   productStore
	ledger     ledgerStore
	categories categoryStore
	alerts     orphanAlerter
	met        *metrics.CatalogMetrics
	logg       *logger.Logger
}

// NewService wires the catalog service. The alert publisher may be nil
// when ops alerting is not configured; everything else is required.
func NewService(
	products *Repository,
	ledger *LedgerRepository,
	categories *CategoryRepository,
	alerts *pubsub.AlertPublisher,
	met *metrics.CatalogMetrics,
	logg *logger.Logger,
) (Service, error) {
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "catalog service requires a product repository")
	}
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "catalog service requires a ledger repository")
	}
	if categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "catalog service requires a category repository")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "catalog service requires a logger")
	}
	return &service{
		products:   products,
		ledger:     ledger,
		categories: categories,
		alerts:     alerts,
		met:        met,
		logg:       logg,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*CatalogProduct, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product kind")
	}
	switch input.Kind {
	case enums.ProductKindRestaurant:
		return s.createRestaurantProduct(ctx, input)
	default:
		return s.createBodegonProduct(ctx, input)
	}
}

func (s *service) createBodegonProduct(ctx context.Context, input CreateProductInput) (*CatalogProduct, error) {
	name := strings.TrimSpace(input.Name)
	if err := s.validateCommon(ctx, name, input.Price, input.ImageURLs, input.CategoryID, input.SubcategoryID, enums.CategoryKindBodegon); err != nil {
		return nil, err
	}
	if err := validateDiscount(input.DiscountedPrice, input.IsDiscount, input.IsPromo); err != nil {
		return nil, err
	}
	if err := s.checkIdentifiers(ctx, input.SKU, input.BarCode, uuid.Nil); err != nil {
		return nil, err
	}

	product := &models.BodegonProduct{
		ID:              uuid.New(),
		Name:            name,
		Description:     input.Description,
		ImageURLs:       pq.StringArray(input.ImageURLs),
		BarCode:         normalizeIdentifier(input.BarCode),
		SKU:             normalizeIdentifier(input.SKU),
		CategoryID:      input.CategoryID,
		SubcategoryID:   input.SubcategoryID,
		Price:           input.Price,
		IsActive:        true,
		IsDiscount:      input.IsDiscount,
		IsPromo:         input.IsPromo,
		DiscountedPrice: input.DiscountedPrice,
		CreatedBy:       input.CreatedBy,
	}

	ctx = s.logg.WithProductID(ctx, product.ID.String())

	created, err := s.products.CreateBodegonProduct(ctx, product)
	if err != nil {
		s.met.ObserveWrite("create", "failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "insert bodegon product")
	}

	// Second leg of the dual write. The platform cannot roll the product
	// insert back for us, so a ledger failure triggers manual compensation.
	if err := s.ledger.InsertEntries(ctx, created.ID, input.BodegonIDs, input.CreatedBy); err != nil {
		return nil, s.compensateCreate(ctx, created.ID, enums.ProductKindBodegon, err)
	}

	s.met.ObserveWrite("create", "ok")
	s.logg.Info(ctx, "bodegon product created")
	return bodegonProductToDTO(created, input.BodegonIDs), nil
}

// compensateCreate deletes the product row inserted by the first leg of a
// failed dual write. Both its outcomes are errors for the caller; they
// differ only in whether the store was left clean.
func (s *service) compensateCreate(ctx context.Context, productID uuid.UUID, kind enums.ProductKind, writeErr error) error {
	var cleanupErr error
	switch kind {
	case enums.ProductKindRestaurant:
		cleanupErr = s.products.DeleteRestaurantProduct(ctx, productID)
	default:
		cleanupErr = s.products.DeleteBodegonProduct(ctx, productID)
	}

	if cleanupErr != nil {
		s.met.IncOrphaned()
		s.met.ObserveWrite("create", "orphaned")
		s.logg.Error(ctx, "dual write orphaned: product row persists without its secondary write", multierr.Append(writeErr, cleanupErr))
		if s.alerts != nil {
			alert := pubsub.OrphanAlert{
				ProductID:    productID.String(),
				ProductKind:  string(kind),
				Operation:    "create",
				WriteError:   writeErr.Error(),
				CleanupError: cleanupErr.Error(),
				OccurredAt:   time.Now().UTC(),
			}
			if pubErr := s.alerts.PublishOrphan(ctx, alert); pubErr != nil {
				s.logg.Error(ctx, "publish orphan alert", pubErr)
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodePartialWriteOrphaned, multierr.Append(writeErr, cleanupErr), "product write failed and cleanup failed").
			WithDetails(map[string]string{"product_id": productID.String()})
	}

	s.met.IncCompensated()
	s.met.ObserveWrite("create", "compensated")
	s.logg.Warn(ctx, "dual write compensated: product row rolled back after secondary write failure")
	return pkgerrors.Wrap(pkgerrors.CodePartialWriteCompensated, writeErr, "product write failed, changes rolled back")
}

func (s *service) createRestaurantProduct(ctx context.Context, input CreateProductInput) (*CatalogProduct, error) {
	name := strings.TrimSpace(input.Name)
	if input.RestaurantID == nil || *input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant products require a restaurant id")
	}
	if err := s.validateCommon(ctx, name, input.Price, input.ImageURLs, input.CategoryID, input.SubcategoryID, enums.CategoryKindRestaurant); err != nil {
		return nil, err
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	product := &models.RestaurantProduct{
		ID:            uuid.New(),
		Name:          name,
		Description:   input.Description,
		ImageURLs:     pq.StringArray(input.ImageURLs),
		Price:         input.Price,
		RestaurantID:  *input.RestaurantID,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		IsAvailable:   available,
		CreatedBy:     input.CreatedBy,
	}

	ctx = s.logg.WithProductID(ctx, product.ID.String())

	created, err := s.products.CreateRestaurantProduct(ctx, product)
	if err != nil {
		s.met.ObserveWrite("create", "failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "insert restaurant product")
	}

	s.met.ObserveWrite("create", "ok")
	s.logg.Info(ctx, "restaurant product created")
	return restaurantProductToDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*CatalogProduct, error) {
	ctx = s.logg.WithProductID(ctx, id.String())

	bodegonRow, err := s.products.FindBodegonProductByID(ctx, id)
	switch {
	case err == nil:
		return s.updateBodegonProduct(ctx, bodegonRow, input)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bodegon product")
	}

	restaurantRow, err := s.products.FindRestaurantProductByID(ctx, id)
	switch {
	case err == nil:
		return s.updateRestaurantProduct(ctx, restaurantRow, input)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant product")
	}
}

func (s *service) updateBodegonProduct(ctx context.Context, row *models.BodegonProduct, input UpdateProductInput) (*CatalogProduct, error) {
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.ImageURLs != nil {
		row.ImageURLs = pq.StringArray(*input.ImageURLs)
	}
	if input.Price != nil {
		row.Price = *input.Price
	}
	if input.CategoryID != nil {
		row.CategoryID = input.CategoryID
	}
	if input.SubcategoryID != nil {
		row.SubcategoryID = input.SubcategoryID
	}
	if input.SKU != nil {
		row.SKU = normalizeIdentifier(input.SKU)
	}
	if input.BarCode != nil {
		row.BarCode = normalizeIdentifier(input.BarCode)
	}
	if input.IsDiscount != nil {
		row.IsDiscount = *input.IsDiscount
	}
	if input.IsPromo != nil {
		row.IsPromo = *input.IsPromo
	}
	if input.DiscountedPrice != nil {
		row.DiscountedPrice = input.DiscountedPrice
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.validateCommon(ctx, row.Name, row.Price, row.ImageURLs, row.CategoryID, row.SubcategoryID, enums.CategoryKindBodegon); err != nil {
		return nil, err
	}
	if err := validateDiscount(row.DiscountedPrice, row.IsDiscount, row.IsPromo); err != nil {
		return nil, err
	}
	if input.SKU != nil || input.BarCode != nil {
		if err := s.checkIdentifiers(ctx, row.SKU, row.BarCode, row.ID); err != nil {
			return nil, err
		}
	}

	saved, err := s.products.SaveBodegonProduct(ctx, row)
	if err != nil {
		s.met.ObserveWrite("update", "failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "save bodegon product")
	}

	bodegonIDs := []uuid.UUID(nil)
	if input.BodegonIDs != nil {
		// Full ledger rewrite: drop every row, then insert the new set.
		// The two statements are not atomic; a failure between them leaves
		// the product with an empty ledger, which reads as unavailable
		// everywhere until the caller retries.
		if err := s.ledger.DeleteForProduct(ctx, saved.ID); err != nil {
			s.met.ObserveWrite("update", "failed")
			return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "clear inventory ledger")
		}
		if err := s.ledger.InsertEntries(ctx, saved.ID, *input.BodegonIDs, saved.CreatedBy); err != nil {
			s.met.ObserveWrite("update", "failed")
			s.logg.Error(ctx, "ledger rewrite failed after clear: product reads unavailable until retried", err)
			return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "rewrite inventory ledger").
				WithDetails(map[string]string{"product_id": saved.ID.String()})
		}
		bodegonIDs = *input.BodegonIDs
	} else {
		ids, err := s.ledger.ListAvailableBodegonIDs(ctx, saved.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory ledger")
		}
		bodegonIDs = ids
	}

	s.met.ObserveWrite("update", "ok")
	s.logg.Info(ctx, "bodegon product updated")
	return bodegonProductToDTO(saved, bodegonIDs), nil
}

func (s *service) updateRestaurantProduct(ctx context.Context, row *models.RestaurantProduct, input UpdateProductInput) (*CatalogProduct, error) {
	if input.BodegonIDs != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant products carry no inventory ledger")
	}
	if input.SKU != nil || input.BarCode != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and bar code apply to bodegon products only")
	}

	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.ImageURLs != nil {
		row.ImageURLs = pq.StringArray(*input.ImageURLs)
	}
	if input.Price != nil {
		row.Price = *input.Price
	}
	if input.CategoryID != nil {
		row.CategoryID = input.CategoryID
	}
	if input.SubcategoryID != nil {
		row.SubcategoryID = input.SubcategoryID
	}
	if input.IsAvailable != nil {
		row.IsAvailable = *input.IsAvailable
	}

	if err := s.validateCommon(ctx, row.Name, row.Price, row.ImageURLs, row.CategoryID, row.SubcategoryID, enums.CategoryKindRestaurant); err != nil {
		return nil, err
	}

	saved, err := s.products.SaveRestaurantProduct(ctx, row)
	if err != nil {
		s.met.ObserveWrite("update", "failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "save restaurant product")
	}

	s.met.ObserveWrite("update", "ok")
	s.logg.Info(ctx, "restaurant product updated")
	return restaurantProductToDTO(saved), nil
}

// DeleteProduct removes a product from whichever family holds it. Deleting
// an id that exists in neither family succeeds; the desired end state is
// already true.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ctx = s.logg.WithProductID(ctx, id.String())

	_, err := s.products.FindBodegonProductByID(ctx, id)
	switch {
	case err == nil:
		// Best-effort ledger clear. A failure here must not block the row
		// delete; the cascade on inventory_ledger sweeps leftovers.
		if err := s.ledger.DeleteForProduct(ctx, id); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "inventory ledger clear failed, continuing with product delete")
		}
		if err := s.products.DeleteBodegonProduct(ctx, id); err != nil {
			s.met.ObserveWrite("delete", "failed")
			s.logg.Error(ctx, "bodegon product delete failed", err)
			return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "delete bodegon product")
		}
		s.met.ObserveWrite("delete", "ok")
		s.logg.Info(ctx, "bodegon product deleted")
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bodegon product")
	}

	_, err = s.products.FindRestaurantProductByID(ctx, id)
	switch {
	case err == nil:
		if err := s.products.DeleteRestaurantProduct(ctx, id); err != nil {
			s.met.ObserveWrite("delete", "failed")
			return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "delete restaurant product")
		}
		s.met.ObserveWrite("delete", "ok")
		s.logg.Info(ctx, "restaurant product deleted")
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant product")
	}
}

// GetProduct resolves an id against both families. A miss in both returns
// (nil, nil) so callers can distinguish "absent" from "lookup failed".
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*CatalogProduct, error) {
	bodegonRow, err := s.products.FindBodegonProductByID(ctx, id)
	switch {
	case err == nil:
		ids, err := s.ledger.ListAvailableBodegonIDs(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory ledger")
		}
		return bodegonProductToDTO(bodegonRow, ids), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bodegon product")
	}

	restaurantRow, err := s.products.FindRestaurantProductByID(ctx, id)
	switch {
	case err == nil:
		return restaurantProductToDTO(restaurantRow), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant product")
	}
}

// GetInventory lists the bodegon ids where the product is available.
func (s *service) GetInventory(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.products.FindBodegonProductByID(ctx, productID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bodegon product")
		}
		if _, rerr := s.products.FindRestaurantProductByID(ctx, productID); rerr == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant products carry no inventory ledger")
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	ids, err := s.ledger.ListAvailableBodegonIDs(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory ledger")
	}
	return ids, nil
}

func (s *service) ListRestaurantProducts(ctx context.Context, restaurantID uuid.UUID) ([]CatalogProduct, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	rows, err := s.products.ListRestaurantProducts(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list restaurant products")
	}
	out := make([]CatalogProduct, 0, len(rows))
	for i := range rows {
		out = append(out, *restaurantProductToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) validateCommon(
	ctx context.Context,
	name string,
	price decimal.Decimal,
	imageURLs []string,
	categoryID, subcategoryID *uuid.UUID,
	kind enums.CategoryKind,
) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if len(imageURLs) > maxProductImages {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d image urls are allowed", maxProductImages))
	}

	if categoryID != nil {
		category, err := s.categories.FindCategoryByID(ctx, *categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		if category.Kind != kind {
			return pkgerrors.New(pkgerrors.CodeValidation, "category belongs to the other product family")
		}
	}
	if subcategoryID != nil {
		subcategory, err := s.categories.FindSubcategoryByID(ctx, *subcategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "subcategory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subcategory")
		}
		if categoryID != nil && subcategory.CategoryID != *categoryID {
			return pkgerrors.New(pkgerrors.CodeValidation, "subcategory does not belong to the given category")
		}
	}
	return nil
}

// checkIdentifiers runs the advisory uniqueness pre-checks for sku and bar
// code. The store enforces no unique constraint on either column, so this
// is best effort under concurrency.
func (s *service) checkIdentifiers(ctx context.Context, sku, barCode *string, excludeID uuid.UUID) error {
	if v := normalizeIdentifier(sku); v != nil {
		count, err := s.products.CountBodegonProductsBySKU(ctx, *v, excludeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sku uniqueness")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
	}
	if v := normalizeIdentifier(barCode); v != nil {
		count, err := s.products.CountBodegonProductsByBarCode(ctx, *v, excludeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check bar code uniqueness")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "bar code already in use")
		}
	}
	return nil
}

func validateDiscount(discounted *decimal.Decimal, isDiscount, isPromo bool) error {
	if discounted == nil {
		return nil
	}
	if !isDiscount && !isPromo {
		return pkgerrors.New(pkgerrors.CodeValidation, "discounted price requires a discount or promo flag")
	}
	if discounted.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discounted price must not be negative")
	}
	return nil
}

func normalizeIdentifier(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
	"github.com/bodegonapp/bodegon-backend/pkg/pubsub"
)

type fakeProductStore struct {
	bodegon    map[uuid.UUID]*models.BodegonProduct
	restaurant map[uuid.UUID]*models.RestaurantProduct

	createBodegonErr error
	deleteBodegonErr error
	bodegonDeletes   int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		bodegon:    map[uuid.UUID]*models.BodegonProduct{},
		restaurant: map[uuid.UUID]*models.RestaurantProduct{},
	}
}

func (f *fakeProductStore) CreateBodegonProduct(_ context.Context, p *models.BodegonProduct) (*models.BodegonProduct, error) {
	if f.createBodegonErr != nil {
		return nil, f.createBodegonErr
	}
	f.bodegon[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) SaveBodegonProduct(_ context.Context, p *models.BodegonProduct) (*models.BodegonProduct, error) {
	f.bodegon[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) DeleteBodegonProduct(_ context.Context, id uuid.UUID) error {
	f.bodegonDeletes++
	if f.deleteBodegonErr != nil {
		return f.deleteBodegonErr
	}
	delete(f.bodegon, id)
	return nil
}

func (f *fakeProductStore) FindBodegonProductByID(_ context.Context, id uuid.UUID) (*models.BodegonProduct, error) {
	if p, ok := f.bodegon[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductStore) CountBodegonProductsBySKU(_ context.Context, sku string, excludeID uuid.UUID) (int64, error) {
	var count int64
	for id, p := range f.bodegon {
		if id != excludeID && p.SKU != nil && *p.SKU == sku {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductStore) CountBodegonProductsByBarCode(_ context.Context, barCode string, excludeID uuid.UUID) (int64, error) {
	var count int64
	for id, p := range f.bodegon {
		if id != excludeID && p.BarCode != nil && *p.BarCode == barCode {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductStore) ListBodegonProductsPage(context.Context, BodegonProductFilter) ([]models.BodegonProduct, error) {
	return nil, nil
}

func (f *fakeProductStore) CreateRestaurantProduct(_ context.Context, p *models.RestaurantProduct) (*models.RestaurantProduct, error) {
	f.restaurant[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) SaveRestaurantProduct(_ context.Context, p *models.RestaurantProduct) (*models.RestaurantProduct, error) {
	f.restaurant[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) DeleteRestaurantProduct(_ context.Context, id uuid.UUID) error {
	delete(f.restaurant, id)
	return nil
}

func (f *fakeProductStore) FindRestaurantProductByID(_ context.Context, id uuid.UUID) (*models.RestaurantProduct, error) {
	if p, ok := f.restaurant[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductStore) ListRestaurantProducts(_ context.Context, restaurantID uuid.UUID) ([]models.RestaurantProduct, error) {
	var rows []models.RestaurantProduct
	for _, p := range f.restaurant {
		if p.RestaurantID == restaurantID {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

type fakeLedgerStore struct {
	entries map[uuid.UUID][]uuid.UUID

	insertErr error
	deleteErr error
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{entries: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeLedgerStore) InsertEntries(_ context.Context, productID uuid.UUID, bodegonIDs []uuid.UUID, _ *uuid.UUID) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries[productID] = append(f.entries[productID], bodegonIDs...)
	return nil
}

func (f *fakeLedgerStore) DeleteForProduct(_ context.Context, productID uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.entries, productID)
	return nil
}

func (f *fakeLedgerStore) ListAvailableBodegonIDs(_ context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	return f.entries[productID], nil
}

type fakeCategoryStore struct {
	categories    map[uuid.UUID]*models.Category
	subcategories map[uuid.UUID]*models.Subcategory
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		categories:    map[uuid.UUID]*models.Category{},
		subcategories: map[uuid.UUID]*models.Subcategory{},
	}
}

func (f *fakeCategoryStore) CreateCategory(_ context.Context, c *models.Category) (*models.Category, error) {
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryStore) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryStore) ListCategories(context.Context, string) ([]models.Category, error) {
	return nil, nil
}

func (f *fakeCategoryStore) CreateSubcategory(_ context.Context, s *models.Subcategory) (*models.Subcategory, error) {
	f.subcategories[s.ID] = s
	return s, nil
}

func (f *fakeCategoryStore) FindSubcategoryByID(_ context.Context, id uuid.UUID) (*models.Subcategory, error) {
	if s, ok := f.subcategories[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryStore) ListSubcategories(context.Context, uuid.UUID) ([]models.Subcategory, error) {
	return nil, nil
}

type fakeAlerter struct {
	alerts []pubsub.OrphanAlert
}

func (f *fakeAlerter) PublishOrphan(_ context.Context, alert pubsub.OrphanAlert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}

func newTestCatalogService(products *fakeProductStore, ledger *fakeLedgerStore, alerts *fakeAlerter) *service {
	svc := &service{
		products:   products,
		ledger:     ledger,
		categories: newFakeCategoryStore(),
		logg:       logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard}),
	}
	if alerts != nil {
		svc.alerts = alerts
	}
	return svc
}

func bodegonCreateInput() CreateProductInput {
	return CreateProductInput{
		Kind:       enums.ProductKindBodegon,
		Name:       "Harina Pan",
		Price:      decimal.RequireFromString("3.50"),
		BodegonIDs: []uuid.UUID{uuid.New(), uuid.New()},
	}
}

func TestCreateBodegonProductSuccess(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	svc := newTestCatalogService(products, ledger, nil)

	input := bodegonCreateInput()
	got, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != enums.ProductKindBodegon {
		t.Fatalf("unexpected kind: %s", got.Kind)
	}
	if len(products.bodegon) != 1 {
		t.Fatalf("expected one stored product, got %d", len(products.bodegon))
	}
	if len(ledger.entries[got.ID]) != 2 {
		t.Fatalf("expected two ledger entries, got %d", len(ledger.entries[got.ID]))
	}
}

func TestCreateProductCompensated(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	ledger.insertErr = errors.New("ledger write rejected")
	svc := newTestCatalogService(products, ledger, nil)

	_, err := svc.CreateProduct(context.Background(), bodegonCreateInput())
	if err == nil {
		t.Fatal("expected error from failed dual write")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialWriteCompensated {
		t.Fatalf("unexpected error code: %v", err)
	}
	if !pkgerrors.MetadataFor(typed.Code()).Retryable {
		t.Fatal("compensated writes must be retryable")
	}
	if len(products.bodegon) != 0 {
		t.Fatalf("expected product row rolled back, %d rows remain", len(products.bodegon))
	}
	if products.bodegonDeletes != 1 {
		t.Fatalf("expected exactly one compensation delete, got %d", products.bodegonDeletes)
	}
}

func TestCreateProductOrphaned(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	ledger.insertErr = errors.New("ledger write rejected")
	products.deleteBodegonErr = errors.New("store unreachable")
	alerts := &fakeAlerter{}
	svc := newTestCatalogService(products, ledger, alerts)

	_, err := svc.CreateProduct(context.Background(), bodegonCreateInput())
	if err == nil {
		t.Fatal("expected error from failed dual write")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialWriteOrphaned {
		t.Fatalf("unexpected error code: %v", err)
	}
	if pkgerrors.MetadataFor(typed.Code()).Retryable {
		t.Fatal("orphaned writes must not be marked retryable")
	}
	if len(products.bodegon) != 1 {
		t.Fatal("expected the orphaned row to persist")
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("expected one ops alert, got %d", len(alerts.alerts))
	}
	alert := alerts.alerts[0]
	if alert.Operation != "create" || alert.WriteError == "" || alert.CleanupError == "" {
		t.Fatalf("incomplete alert payload: %+v", alert)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(newFakeProductStore(), newFakeLedgerStore(), nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"unknown kind", CreateProductInput{Kind: "vending", Name: "x", Price: decimal.NewFromInt(1)}},
		{"empty name", CreateProductInput{Kind: enums.ProductKindBodegon, Name: "  ", Price: decimal.NewFromInt(1)}},
		{"negative price", CreateProductInput{Kind: enums.ProductKindBodegon, Name: "x", Price: decimal.NewFromInt(-1)}},
		{"too many images", CreateProductInput{
			Kind: enums.ProductKindBodegon, Name: "x", Price: decimal.NewFromInt(1),
			ImageURLs: []string{"a", "b", "c", "d", "e"},
		}},
		{"restaurant without restaurant id", CreateProductInput{
			Kind: enums.ProductKindRestaurant, Name: "x", Price: decimal.NewFromInt(1),
		}},
	}
	for _, tc := range cases {
		_, err := svc.CreateProduct(ctx, tc.input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateProductSKUConflict(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	sku := "SKU-7"
	existing := &models.BodegonProduct{ID: uuid.New(), Name: "Existing", SKU: &sku, Price: decimal.NewFromInt(1)}
	products.bodegon[existing.ID] = existing
	svc := newTestCatalogService(products, newFakeLedgerStore(), nil)

	input := bodegonCreateInput()
	input.SKU = &sku
	_, err := svc.CreateProduct(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(newFakeProductStore(), newFakeLedgerStore(), nil)
	name := "renamed"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRestaurantProductRejectsBodegonFields(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	row := &models.RestaurantProduct{
		ID: uuid.New(), Name: "Arepa", Price: decimal.NewFromInt(6),
		RestaurantID: uuid.New(), IsAvailable: true,
	}
	products.restaurant[row.ID] = row
	svc := newTestCatalogService(products, newFakeLedgerStore(), nil)

	ids := []uuid.UUID{uuid.New()}
	_, err := svc.UpdateProduct(context.Background(), row.ID, UpdateProductInput{BodegonIDs: &ids})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for ledger fields, got %v", err)
	}

	sku := "SKU-1"
	_, err = svc.UpdateProduct(context.Background(), row.ID, UpdateProductInput{SKU: &sku})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for sku, got %v", err)
	}
}

func TestUpdateBodegonProductLedgerRewrite(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	row := &models.BodegonProduct{ID: uuid.New(), Name: "Harina", Price: decimal.NewFromInt(3), IsActive: true}
	products.bodegon[row.ID] = row
	locA, locB, locC := uuid.New(), uuid.New(), uuid.New()
	ledger.entries[row.ID] = []uuid.UUID{locA, locB}
	svc := newTestCatalogService(products, ledger, nil)

	ids := []uuid.UUID{locB, locC}
	got, err := svc.UpdateProduct(context.Background(), row.ID, UpdateProductInput{BodegonIDs: &ids})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.BodegonIDs) != 2 || got.BodegonIDs[0] != locB || got.BodegonIDs[1] != locC {
		t.Fatalf("unexpected ledger set after rewrite: %v", got.BodegonIDs)
	}
	if len(ledger.entries[row.ID]) != 2 {
		t.Fatalf("expected rewritten ledger, got %v", ledger.entries[row.ID])
	}
}

func TestUpdateBodegonProductLedgerRewriteFailure(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	row := &models.BodegonProduct{ID: uuid.New(), Name: "Harina", Price: decimal.NewFromInt(3), IsActive: true}
	products.bodegon[row.ID] = row
	ledger.entries[row.ID] = []uuid.UUID{uuid.New()}
	ledger.insertErr = errors.New("ledger write rejected")
	svc := newTestCatalogService(products, ledger, nil)

	ids := []uuid.UUID{uuid.New()}
	_, err := svc.UpdateProduct(context.Background(), row.ID, UpdateProductInput{BodegonIDs: &ids})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeWriteFailed {
		t.Fatalf("expected write failed, got %v", err)
	}
	// The clear succeeded before the insert failed: empty ledger remains.
	if len(ledger.entries[row.ID]) != 0 {
		t.Fatalf("expected cleared ledger after failed rewrite, got %v", ledger.entries[row.ID])
	}
}

func TestDeleteProductIdempotent(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(newFakeProductStore(), newFakeLedgerStore(), nil)
	if err := svc.DeleteProduct(context.Background(), uuid.New()); err != nil {
		t.Fatalf("delete of an absent product must succeed, got %v", err)
	}
}

func TestDeleteBodegonProductClearsLedger(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	row := &models.BodegonProduct{ID: uuid.New(), Name: "Harina", Price: decimal.NewFromInt(3)}
	products.bodegon[row.ID] = row
	ledger.entries[row.ID] = []uuid.UUID{uuid.New()}
	svc := newTestCatalogService(products, ledger, nil)

	if err := svc.DeleteProduct(context.Background(), row.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products.bodegon) != 0 {
		t.Fatal("expected product row removed")
	}
	if len(ledger.entries[row.ID]) != 0 {
		t.Fatal("expected ledger cleared")
	}
}

func TestDeleteBodegonProductLedgerFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	row := &models.BodegonProduct{ID: uuid.New(), Name: "Harina", Price: decimal.NewFromInt(3)}
	products.bodegon[row.ID] = row
	ledger.entries[row.ID] = []uuid.UUID{uuid.New()}
	ledger.deleteErr = errors.New("ledger down")
	svc := newTestCatalogService(products, ledger, nil)

	if err := svc.DeleteProduct(context.Background(), row.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products.bodegon) != 0 {
		t.Fatal("expected product row removed despite ledger failure")
	}
}

func TestGetProductAbsentInBothFamilies(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(newFakeProductStore(), newFakeLedgerStore(), nil)
	got, err := svc.GetProduct(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil product for unknown id, got %+v", got)
	}
}

func TestGetInventory(t *testing.T) {
	t.Parallel()

	products := newFakeProductStore()
	ledger := newFakeLedgerStore()
	row := &models.BodegonProduct{ID: uuid.New(), Name: "Harina", Price: decimal.NewFromInt(3)}
	products.bodegon[row.ID] = row
	loc := uuid.New()
	ledger.entries[row.ID] = []uuid.UUID{loc}

	restaurantRow := &models.RestaurantProduct{ID: uuid.New(), Name: "Arepa", Price: decimal.NewFromInt(6), RestaurantID: uuid.New()}
	products.restaurant[restaurantRow.ID] = restaurantRow

	svc := newTestCatalogService(products, ledger, nil)
	ctx := context.Background()

	ids, err := svc.GetInventory(ctx, row.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != loc {
		t.Fatalf("unexpected inventory: %v", ids)
	}

	_, err = svc.GetInventory(ctx, restaurantRow.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for restaurant product, got %v", err)
	}

	_, err = svc.GetInventory(ctx, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

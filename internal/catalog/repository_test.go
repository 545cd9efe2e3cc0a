package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS bodegon_products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image_urls TEXT,
  bar_code TEXT,
  sku TEXT,
  category_id TEXT,
  subcategory_id TEXT,
  price TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_discount INTEGER NOT NULL DEFAULT 0,
  is_promo INTEGER NOT NULL DEFAULT 0,
  discounted_price TEXT,
  created_by TEXT,
  created_at DATETIME,
  modified_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS restaurant_products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image_urls TEXT,
  price TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  category_id TEXT,
  subcategory_id TEXT,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_by TEXT,
  created_at DATETIME,
  modified_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS inventory_ledger (
  product_id TEXT NOT NULL,
  bodegon_id TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_by TEXT,
  modified_at DATETIME,
  PRIMARY KEY (product_id, bodegon_id)
);`, `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  restaurant_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  modified_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS subcategories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category_id TEXT NOT NULL,
  restaurant_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  modified_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		for _, table := range []string{"bodegon_products", "restaurant_products", "inventory_ledger", "categories", "subcategories"} {
			db.Exec("DELETE FROM " + table)
		}
	})
	return db
}

func TestRepositoryBodegonProductLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sku := "SKU-100"
	product := &models.BodegonProduct{
		ID:        uuid.New(),
		Name:      "Harina Pan",
		ImageURLs: pq.StringArray{"https://img.example/harina.jpg"},
		SKU:       &sku,
		Price:     decimal.RequireFromString("3.50"),
		IsActive:  true,
	}

	created, err := repo.CreateBodegonProduct(ctx, product)
	require.NoError(t, err)
	require.Equal(t, product.ID, created.ID)

	found, err := repo.FindBodegonProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harina Pan", found.Name)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("3.50")))
	require.NotNil(t, found.SKU)
	assert.Equal(t, "SKU-100", *found.SKU)

	count, err := repo.CountBodegonProductsBySKU(ctx, "SKU-100", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Excluding the row that owns the sku yields zero.
	count, err = repo.CountBodegonProductsBySKU(ctx, "SKU-100", product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	found.Name = "Harina Pan 1kg"
	_, err = repo.SaveBodegonProduct(ctx, found)
	require.NoError(t, err)

	again, err := repo.FindBodegonProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harina Pan 1kg", again.Name)

	require.NoError(t, repo.DeleteBodegonProduct(ctx, product.ID))
	_, err = repo.FindBodegonProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting again is a no-op, not an error.
	require.NoError(t, repo.DeleteBodegonProduct(ctx, product.ID))
}

func TestRepositoryRestaurantProductLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurantID := uuid.New()
	product := &models.RestaurantProduct{
		ID:           uuid.New(),
		Name:         "Arepa Reina Pepiada",
		Price:        decimal.RequireFromString("6.00"),
		RestaurantID: restaurantID,
		IsAvailable:  true,
	}

	_, err := repo.CreateRestaurantProduct(ctx, product)
	require.NoError(t, err)

	found, err := repo.FindRestaurantProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, restaurantID, found.RestaurantID)

	rows, err := repo.ListRestaurantProducts(ctx, restaurantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = repo.ListRestaurantProducts(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, repo.DeleteRestaurantProduct(ctx, product.ID))
	_, err = repo.FindRestaurantProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLedgerRepositoryRewrite(t *testing.T) {
	db := setupCatalogTestDB(t)
	ledger := NewLedgerRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	locA := uuid.New()
	locB := uuid.New()
	locC := uuid.New()

	require.NoError(t, ledger.InsertEntries(ctx, productID, []uuid.UUID{locA, locB}, nil))

	ids, err := ledger.ListAvailableBodegonIDs(ctx, productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{locA, locB}, ids)

	// Rewrite {A,B} to {B,C}: delete everything, insert the new set.
	require.NoError(t, ledger.DeleteForProduct(ctx, productID))
	require.NoError(t, ledger.InsertEntries(ctx, productID, []uuid.UUID{locB, locC}, nil))

	ids, err = ledger.ListAvailableBodegonIDs(ctx, productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{locB, locC}, ids)

	// Rows flipped to unavailable read as absent.
	require.NoError(t, db.Exec(
		"UPDATE inventory_ledger SET is_available = 0 WHERE product_id = ? AND bodegon_id = ?",
		productID, locC,
	).Error)
	ids, err = ledger.ListAvailableBodegonIDs(ctx, productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{locB}, ids)

	require.NoError(t, ledger.DeleteForProduct(ctx, productID))
	ids, err = ledger.ListAvailableBodegonIDs(ctx, productID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Clearing an already empty ledger is fine.
	require.NoError(t, ledger.DeleteForProduct(ctx, productID))
}

func TestCategoryRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	category, err := repo.CreateCategory(ctx, &models.Category{
		ID:       uuid.New(),
		Name:     "Despensa",
		Kind:     enums.CategoryKindBodegon,
		IsActive: true,
	})
	require.NoError(t, err)

	sub, err := repo.CreateSubcategory(ctx, &models.Subcategory{
		ID:         uuid.New(),
		Name:       "Harinas",
		CategoryID: category.ID,
		IsActive:   true,
	})
	require.NoError(t, err)

	foundSub, err := repo.FindSubcategoryByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, foundSub.CategoryID)

	cats, err := repo.ListCategories(ctx, string(enums.CategoryKindBodegon))
	require.NoError(t, err)
	require.Len(t, cats, 1)

	cats, err = repo.ListCategories(ctx, string(enums.CategoryKindRestaurant))
	require.NoError(t, err)
	assert.Empty(t, cats)

	subs, err := repo.ListSubcategories(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
}

func TestListBodegonProductsPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		product := &models.BodegonProduct{
			ID:        uuid.New(),
			Name:      "Producto",
			Price:     decimal.RequireFromString("1.00"),
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		_, err := repo.CreateBodegonProduct(ctx, product)
		require.NoError(t, err)
		ids = append(ids, product.ID)
	}

	svc := &service{products: repo, ledger: NewLedgerRepository(db), categories: NewCategoryRepository(db)}

	page, err := svc.ListBodegonProducts(ctx, ListBodegonProductsInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, ids[2], page.Products[0].ID)
	assert.Equal(t, ids[1], page.Products[1].ID)

	rest, err := svc.ListBodegonProducts(ctx, ListBodegonProductsInput{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Products, 1)
	assert.Equal(t, ids[0], rest.Products[0].ID)
	assert.Empty(t, rest.NextCursor)

	_, err = svc.ListBodegonProducts(ctx, ListBodegonProductsInput{Cursor: "not-base64"})
	require.Error(t, err)
}

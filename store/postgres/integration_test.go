//go:build integration

package postgres

import (
	"context"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tallymatic/tallymatic-api/db"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping integration tests on Windows due to Docker limitations.")
	}
	logger.IsTest = true

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("tallymatic_test"),
		tcpostgres.WithUsername("tally"),
		tcpostgres.WithPassword("tally"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Could not stop postgres container: %s", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestCatalogStores_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	stores := NewStoreStore(pool)
	productTypes := NewProductTypeStore(pool)
	products := NewProductStore(pool)
	variants := NewProductVariantStore(pool)

	shop, err := stores.Create(ctx, types.CreateStoreRequest{Name: "Main"}.Values())
	require.NoError(t, err)
	assert.Equal(t, "usd", shop.DefaultCurrencyCode)

	shirts, err := productTypes.Create(ctx, types.CreateProductTypeRequest{Value: "Shirts"}.Values())
	require.NoError(t, err)

	_, err = productTypes.Create(ctx, types.CreateProductTypeRequest{Value: "Shirts"}.Values())
	assert.ErrorIs(t, err, store.ErrConflict)

	product, err := products.Create(ctx, types.CreateProductRequest{
		Title:   "Linen Shirt",
		TypeID:  &shirts.ID,
		StoreID: &shop.ID,
	}.Values())
	require.NoError(t, err)
	assert.Equal(t, "linen-shirt", product.Handle)
	assert.Equal(t, types.ProductStatusDraft, product.Status)

	sku := "LS-01"
	variant, err := variants.Create(ctx, types.CreateProductVariantRequest{
		Title:     "Large",
		ProductID: product.ID,
		SKU:       &sku,
		Price:     decimal.RequireFromString("49.90"),
	}.Values())
	require.NoError(t, err)
	assert.True(t, variant.Price.Equal(decimal.RequireFromString("49.9")))
	assert.True(t, variant.ManageInventory)

	page, err := products.Query(ctx, types.Filter{"store_id": shop.ID.String()}, types.ParseQueryOptions("title:desc", "", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Items, 1)
	assert.Equal(t, product.ID, page.Items[0].ID)

	published := types.ProductStatusPublished
	updated, err := products.UpdateByID(ctx, product.ID, types.UpdateProductRequest{Status: &published}.Values())
	require.NoError(t, err)
	assert.Equal(t, types.ProductStatusPublished, updated.Status)
	assert.True(t, updated.UpdatedAt.After(product.UpdatedAt) || updated.UpdatedAt.Equal(product.UpdatedAt))

	require.NoError(t, products.DeleteByID(ctx, product.ID))
	_, err = products.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = variants.GetByID(ctx, variant.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserStore_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := NewUserStore(pool)

	created, err := users.Create(ctx, types.CreateUserRequest{
		Name:     "Ada",
		Email:    "Ada@Tallymatic.io",
		Password: "$2a$10$hash",
	}.Values())
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, created.Role)
	assert.Equal(t, "ada@tallymatic.io", created.Email)

	found, err := users.GetByEmail(ctx, "ADA@tallymatic.io")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = users.Create(ctx, types.CreateUserRequest{Name: "Dup", Email: "ada@tallymatic.io", Password: "x"}.Values())
	assert.ErrorIs(t, err, store.ErrConflict)

	page, err := users.Query(ctx, types.Filter{"role": "user"}, types.ParseQueryOptions("", "1", "1", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	assert.Equal(t, 1, page.Limit)
}

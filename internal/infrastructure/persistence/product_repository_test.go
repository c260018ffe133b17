package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func productRows(productID, sellerID uuid.UUID, sku, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seller_id", "sku", "name", "status", "currency", "retail_price", "wholesale_price", "stock_quantity", "version"}).
		AddRow(productID, sellerID, sku, name, "active", "USD", decimal.NewFromFloat(12.50), decimal.NewFromFloat(8.50), int64(100), int64(1))
}

func TestGormProductRepository_FindByIDForSeller(t *testing.T) {
	t.Run("finds product within storefront", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		sellerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE seller_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(sellerID, productID, 1).
			WillReturnRows(productRows(productID, sellerID, "SKU-001", "Ceramic Mug"))

		product, err := repo.FindByIDForSeller(context.Background(), sellerID, productID)

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, sellerID, product.SellerID)
		assert.Equal(t, "SKU-001", product.SKU)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE seller_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(sellerID, productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByIDForSeller(context.Background(), sellerID, productID)

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindBySKU(t *testing.T) {
	t.Run("uppercases the SKU before lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		sellerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE seller_id = \$1 AND sku = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(sellerID, "SKU-001", 1).
			WillReturnRows(productRows(productID, sellerID, "SKU-001", "Ceramic Mug"))

		product, err := repo.FindBySKU(context.Background(), sellerID, "sku-001")

		assert.NoError(t, err)
		assert.Equal(t, "SKU-001", product.SKU)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	t.Run("finds multiple products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()
		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "seller_id", "sku", "name", "status", "currency"}).
			AddRow(id1, sellerID, "SKU-001", "Ceramic Mug", "active", "USD").
			AddRow(id2, sellerID, "SKU-002", "Stoneware Bowl", "active", "USD")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE seller_id = \$1 AND id IN \(\$2,\$3\)`).
			WithArgs(sellerID, id1, id2).
			WillReturnRows(rows)

		products, err := repo.FindByIDs(context.Background(), sellerID, []uuid.UUID{id1, id2})

		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for empty IDs", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		products, err := repo.FindByIDs(context.Background(), uuid.New(), []uuid.UUID{})

		assert.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_FindWholesaleOffered(t *testing.T) {
	t.Run("filters on active status and positive wholesale price", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE .*wholesale_price > 0`).
			WithArgs(sellerID, catalog.ProductStatusActive).
			WillReturnRows(productRows(productID, sellerID, "SKU-001", "Ceramic Mug"))

		products, err := repo.FindWholesaleOffered(context.Background(), sellerID, shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, products, 1)
		assert.True(t, products[0].IsWholesaleOffered())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_SaveWithLock(t *testing.T) {
	t.Run("bumps version on success", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product, err := catalog.NewProduct(uuid.New(), "SKU-001", "Ceramic Mug", valueobject.USD)
		require.NoError(t, err)
		initialVersion := product.Version

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), product)

		assert.NoError(t, err)
		assert.Equal(t, initialVersion+1, product.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restores version on concurrent modification", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product, err := catalog.NewProduct(uuid.New(), "SKU-001", "Ceramic Mug", valueobject.USD)
		require.NoError(t, err)
		initialVersion := product.Version

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), product)

		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
		assert.Equal(t, initialVersion, product.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_DeleteForSeller(t *testing.T) {
	t.Run("deletes product within storefront", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE seller_id = \$1 AND id = \$2`).
			WithArgs(sellerID, productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteForSeller(context.Background(), sellerID, productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE seller_id = \$1 AND id = \$2`).
			WithArgs(sellerID, productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForSeller(context.Background(), sellerID, productID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_CountForSeller(t *testing.T) {
	t.Run("counts products for storefront", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE seller_id = \$1`).
			WithArgs(sellerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

		count, err := repo.CountForSeller(context.Background(), sellerID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(9), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ExistsBySKU(t *testing.T) {
	t.Run("returns true when SKU is taken", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE seller_id = \$1 AND sku = \$2`).
			WithArgs(sellerID, "SKU-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsBySKU(context.Background(), sellerID, "sku-001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when SKU is free", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE seller_id = \$1 AND sku = \$2`).
			WithArgs(sellerID, "SKU-404").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsBySKU(context.Background(), sellerID, "sku-404")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ProductRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		var _ catalog.ProductRepository = repo
	})
}

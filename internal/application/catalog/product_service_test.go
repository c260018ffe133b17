package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func pricedProduct(t *testing.T, sellerID uuid.UUID, sku string) *catalog.Product {
	t.Helper()
	retail, err := valueobject.NewMoneyFromString("49.90", valueobject.USD)
	require.NoError(t, err)
	wholesale, err := valueobject.NewMoneyFromString("32.00", valueobject.USD)
	require.NoError(t, err)
	product, err := catalog.NewProductWithPrices(sellerID, sku, "Ceramic Mug", retail, wholesale)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductService_Create(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewProductService(productRepo, categoryRepo)

	sellerID := uuid.New()
	moq := int64(24)
	stock := decimal.NewFromInt(500)

	productRepo.On("ExistsBySKU", mock.Anything, sellerID, "MUG-001").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	wholesale := decimal.RequireFromString("32.00")
	resp, err := service.Create(context.Background(), sellerID, valueobject.USD, CreateProductRequest{
		SKU:            "MUG-001",
		Name:           "Ceramic Mug",
		Description:    "Stoneware, 350ml",
		RetailPrice:    decimal.RequireFromString("49.90"),
		WholesalePrice: &wholesale,
		MOQ:            &moq,
		StockQuantity:  &stock,
	})

	require.NoError(t, err)
	assert.Equal(t, "MUG-001", resp.SKU)
	assert.Equal(t, sellerID, resp.SellerID)
	assert.True(t, resp.WholesaleOffered)
	require.NotNil(t, resp.MOQ)
	assert.Equal(t, int64(24), *resp.MOQ)
	assert.True(t, resp.StockQuantity.Equal(decimal.NewFromInt(500)))
	productRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewProductService(productRepo, categoryRepo)

	sellerID := uuid.New()
	productRepo.On("ExistsBySKU", mock.Anything, sellerID, "MUG-001").Return(true, nil)

	_, err := service.Create(context.Background(), sellerID, valueobject.USD, CreateProductRequest{
		SKU:         "MUG-001",
		Name:        "Ceramic Mug",
		RetailPrice: decimal.RequireFromString("49.90"),
	})

	assertCode(t, err, "SKU_TAKEN")
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewProductService(productRepo, categoryRepo)

	sellerID := uuid.New()
	categoryID := uuid.New()
	productRepo.On("ExistsBySKU", mock.Anything, sellerID, "MUG-001").Return(false, nil)
	categoryRepo.On("FindByIDForSeller", mock.Anything, sellerID, categoryID).Return(nil, shared.ErrNotFound)

	_, err := service.Create(context.Background(), sellerID, valueobject.USD, CreateProductRequest{
		SKU:         "MUG-001",
		Name:        "Ceramic Mug",
		RetailPrice: decimal.RequireFromString("49.90"),
		CategoryID:  &categoryID,
	})

	assertCode(t, err, "NOT_FOUND")
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Update_Prices(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewProductService(productRepo, categoryRepo)

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")

	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)

	newRetail := decimal.RequireFromString("54.90")
	resp, err := service.Update(context.Background(), sellerID, product.ID, UpdateProductRequest{
		RetailPrice: &newRetail,
	})

	require.NoError(t, err)
	assert.True(t, resp.RetailPrice.Equal(newRetail))
	assert.True(t, resp.WholesalePrice.Equal(decimal.RequireFromString("32.00")))
	productRepo.AssertExpectations(t)
}

func TestProductService_Update_ClearMOQ(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := NewProductService(productRepo, categoryRepo)

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")
	require.NoError(t, product.SetMOQ(24))
	product.ClearDomainEvents()

	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)

	resp, err := service.Update(context.Background(), sellerID, product.ID, UpdateProductRequest{ClearMOQ: true})

	require.NoError(t, err)
	assert.Nil(t, resp.MOQ)
}

func TestProductService_AdjustStock(t *testing.T) {
	sellerID := uuid.New()

	t.Run("adds stock", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service := NewProductService(productRepo, new(MockCategoryRepository))

		product := pricedProduct(t, sellerID, "MUG-001")
		productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
		productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)

		resp, err := service.AdjustStock(context.Background(), sellerID, product.ID, AdjustStockRequest{
			Delta: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.True(t, resp.StockQuantity.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects deduction below zero", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service := NewProductService(productRepo, new(MockCategoryRepository))

		product := pricedProduct(t, sellerID, "MUG-002")
		require.NoError(t, product.SetStock(decimal.NewFromInt(10)))
		product.ClearDomainEvents()
		productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)

		_, err := service.AdjustStock(context.Background(), sellerID, product.ID, AdjustStockRequest{
			Delta: decimal.NewFromInt(-11),
		})

		assertCode(t, err, "INSUFFICIENT_STOCK")
		productRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestProductService_List_Defaults(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := NewProductService(productRepo, new(MockCategoryRepository))

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")

	expectedFilter := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Filters:  map[string]interface{}{},
	}
	productRepo.On("FindAllForSeller", mock.Anything, sellerID, expectedFilter).Return([]catalog.Product{*product}, nil)
	productRepo.On("CountForSeller", mock.Anything, sellerID, expectedFilter).Return(int64(1), nil)

	responses, total, err := service.List(context.Background(), sellerID, ProductListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	assert.Equal(t, "MUG-001", responses[0].SKU)
	productRepo.AssertExpectations(t)
}

func TestProductService_List_WholesaleOnly(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := NewProductService(productRepo, new(MockCategoryRepository))

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")

	productRepo.On("FindWholesaleOffered", mock.Anything, sellerID, mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Product{*product}, nil)
	productRepo.On("CountForSeller", mock.Anything, sellerID, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)

	responses, _, err := service.List(context.Background(), sellerID, ProductListFilter{WholesaleOnly: true})

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].WholesaleOffered)
	productRepo.AssertNotCalled(t, "FindAllForSeller", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Discontinue(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := NewProductService(productRepo, new(MockCategoryRepository))

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")

	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)

	resp, err := service.Discontinue(context.Background(), sellerID, product.ID)

	require.NoError(t, err)
	assert.Equal(t, catalog.ProductStatusDiscontinued, resp.Status)

	// Discontinuation is final
	_, err = service.Activate(context.Background(), sellerID, product.ID)
	require.Error(t, err)
}

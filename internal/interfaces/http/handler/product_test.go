package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

var testSellerID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// setupTestRouter builds a gin engine with test authentication middleware
// that scopes every request to the default test storefront.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		setJWTContext(c, testSellerID, uuid.New())
		c.Next()
	})
	return router
}

func setupProductHandler(productRepo *MockProductRepository, categoryRepo *MockCategoryRepository, sellerRepo *MockSellerRepository) *ProductHandler {
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	sellerService := identityapp.NewSellerService(sellerRepo, new(MockUserRepository), zap.NewNop())
	return NewProductHandler(productService, sellerService)
}

func createTestSeller() *identity.Seller {
	seller, _ := identity.NewSeller("acme-wholesale", "Acme Wholesale")
	seller.ID = testSellerID
	return seller
}

func createTestProduct() *catalog.Product {
	product, _ := catalog.NewProduct(testSellerID, "SKU-001", "Ceramic Mug", valueobject.USD)
	return product
}

// Tests

func TestProductHandler_Create_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(createTestSeller(), nil)
	productRepo.On("ExistsBySKU", mock.Anything, testSellerID, "SKU-001").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	reqBody := catalogapp.CreateProductRequest{
		SKU:         "SKU-001",
		Name:        "Ceramic Mug",
		RetailPrice: decimal.NewFromFloat(12.50),
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Create_DuplicateSKU(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(createTestSeller(), nil)
	productRepo.On("ExistsBySKU", mock.Anything, testSellerID, "SKU-001").Return(true, nil)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	reqBody := catalogapp.CreateProductRequest{
		SKU:         "SKU-001",
		Name:        "Ceramic Mug",
		RetailPrice: decimal.NewFromFloat(12.50),
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Create_InvalidJSON(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Create_NoSellerContext(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/products", handler.Create)

	reqBody := catalogapp.CreateProductRequest{
		SKU:         "SKU-001",
		Name:        "Ceramic Mug",
		RetailPrice: decimal.NewFromFloat(12.50),
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductHandler_GetByID_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	product := createTestProduct()
	productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SKU-001")
	productRepo.AssertExpectations(t)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	productID := uuid.New()
	productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, productID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_GetByID_InvalidID(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_List_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	products := []catalog.Product{*createTestProduct()}
	productRepo.On("FindAllForSeller", mock.Anything, testSellerID, mock.AnythingOfType("shared.Filter")).Return(products, nil)
	productRepo.On("CountForSeller", mock.Anything, testSellerID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	router := setupTestRouter()
	router.GET("/products", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/products?page=1&page_size=20", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Meta.Total)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_List_WholesaleOnly(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	productRepo.On("FindWholesaleOffered", mock.Anything, testSellerID, mock.AnythingOfType("shared.Filter")).Return([]catalog.Product{}, nil)
	productRepo.On("CountForSeller", mock.Anything, testSellerID, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

	router := setupTestRouter()
	router.GET("/products", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/products?wholesale_only=true", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_AdjustStock_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	product := createTestProduct()
	productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, product.ID).Return(product, nil)
	productRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products/:id/stock", handler.AdjustStock)

	body, _ := json.Marshal(catalogapp.AdjustStockRequest{Delta: decimal.NewFromInt(25)})
	req := httptest.NewRequest(http.MethodPost, "/products/"+product.ID.String()+"/stock", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_AdjustStock_BelowZero(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	product := createTestProduct()
	productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.POST("/products/:id/stock", handler.AdjustStock)

	body, _ := json.Marshal(catalogapp.AdjustStockRequest{Delta: decimal.NewFromInt(-10)})
	req := httptest.NewRequest(http.MethodPost, "/products/"+product.ID.String()+"/stock", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Deactivate_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	product := createTestProduct()
	productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, product.ID).Return(product, nil)
	productRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products/:id/deactivate", handler.Deactivate)

	req := httptest.NewRequest(http.MethodPost, "/products/"+product.ID.String()+"/deactivate", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Activate_AlreadyActive(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupProductHandler(productRepo, categoryRepo, sellerRepo)

	product := createTestProduct()
	productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.POST("/products/:id/activate", handler.Activate)

	req := httptest.NewRequest(http.MethodPost, "/products/"+product.ID.String()+"/activate", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	productRepo.AssertExpectations(t)
}

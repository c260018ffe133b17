package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

type quotationTestEnv struct {
	quotationRepo *MockQuotationRepository
	buyerRepo     *MockBuyerRepository
	productRepo   *MockProductRepository
	termsRepo     *MockTermsRepository
	paymentRepo   *MockPaymentRepository
	gateway       *MockPaymentGateway
	handler       *QuotationHandler
}

func setupQuotationTest() *quotationTestEnv {
	env := &quotationTestEnv{
		quotationRepo: new(MockQuotationRepository),
		buyerRepo:     new(MockBuyerRepository),
		productRepo:   new(MockProductRepository),
		termsRepo:     new(MockTermsRepository),
		paymentRepo:   new(MockPaymentRepository),
		gateway:       new(MockPaymentGateway),
	}
	service := tradeapp.NewQuotationService(
		env.quotationRepo, env.buyerRepo, env.productRepo,
		env.termsRepo, env.paymentRepo, env.gateway,
	)
	env.handler = NewQuotationHandler(service)
	return env
}

func createTestTerms(t *testing.T) *wholesale.Terms {
	terms, err := wholesale.NewTerms(testSellerID, valueobject.USD)
	require.NoError(t, err)
	require.NoError(t, terms.SetPercentageSplit(decimal.NewFromInt(30)))
	return terms
}

func createApprovedBuyer(t *testing.T) *partner.Buyer {
	buyer, err := partner.NewBuyer(testSellerID, "buyer@harbor.example", "Blue Harbor Imports")
	require.NoError(t, err)
	require.NoError(t, buyer.ApproveWholesale())
	return buyer
}

func createWholesaleProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product := createTestProduct()
	product.RetailPrice = decimal.NewFromFloat(12.50)
	product.WholesalePrice = decimal.NewFromFloat(8.50)
	return product
}

func createSentQuotation(t *testing.T, buyer *partner.Buyer, productID uuid.UUID) *trade.Quotation {
	quotation, err := trade.NewQuotation(
		testSellerID, "QT-2026-0001", buyer.ID, buyer.Name, buyer.Email,
		valueobject.USD, time.Now().Add(14*24*time.Hour),
	)
	require.NoError(t, err)

	unitPrice, err := valueobject.NewMoney(decimal.NewFromFloat(8.50), valueobject.USD)
	require.NoError(t, err)
	_, err = quotation.AddItem(productID, "Ceramic Mug", "SKU-001", decimal.NewFromInt(100), unitPrice, nil)
	require.NoError(t, err)

	require.NoError(t, quotation.Send())
	return quotation
}

func TestQuotationHandler_Create_Success(t *testing.T) {
	env := setupQuotationTest()
	buyer := createApprovedBuyer(t)
	product := createWholesaleProduct(t)

	env.termsRepo.On("FindBySeller", mock.Anything, testSellerID).Return(createTestTerms(t), nil)
	env.buyerRepo.On("FindByIDForSeller", mock.Anything, testSellerID, buyer.ID).Return(buyer, nil)
	env.quotationRepo.On("GenerateQuotationNumber", mock.Anything, testSellerID).Return("QT-2026-0001", nil)
	env.productRepo.On("FindByIDForSeller", mock.Anything, testSellerID, product.ID).Return(product, nil)
	env.quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Quotation")).Return(nil)

	router := setupTestRouter()
	router.POST("/quotations", env.handler.Create)

	reqBody := tradeapp.CreateQuotationRequest{
		BuyerID: buyer.ID,
		Items: []tradeapp.QuotationLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(100)},
		},
		ValidityDays: 14,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "QT-2026-0001")
	env.quotationRepo.AssertExpectations(t)
	env.productRepo.AssertExpectations(t)
}

func TestQuotationHandler_Create_BuyerNotWholesale(t *testing.T) {
	env := setupQuotationTest()
	buyer, err := partner.NewBuyer(testSellerID, "retail@harbor.example", "Retail Walk-In")
	require.NoError(t, err)

	env.termsRepo.On("FindBySeller", mock.Anything, testSellerID).Return(createTestTerms(t), nil)
	env.buyerRepo.On("FindByIDForSeller", mock.Anything, testSellerID, buyer.ID).Return(buyer, nil)

	router := setupTestRouter()
	router.POST("/quotations", env.handler.Create)

	reqBody := tradeapp.CreateQuotationRequest{
		BuyerID: buyer.ID,
		Items: []tradeapp.QuotationLineRequest{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10)},
		},
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "BUYER_NOT_WHOLESALE")
}

func TestQuotationHandler_Create_WholesaleNotConfigured(t *testing.T) {
	env := setupQuotationTest()

	env.termsRepo.On("FindBySeller", mock.Anything, testSellerID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/quotations", env.handler.Create)

	reqBody := tradeapp.CreateQuotationRequest{
		BuyerID: uuid.New(),
		Items: []tradeapp.QuotationLineRequest{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10)},
		},
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "WHOLESALE_NOT_CONFIGURED")
}

func TestQuotationHandler_Send_Success(t *testing.T) {
	env := setupQuotationTest()
	buyer := createApprovedBuyer(t)

	quotation, err := trade.NewQuotation(
		testSellerID, "QT-2026-0002", buyer.ID, buyer.Name, buyer.Email,
		valueobject.USD, time.Now().Add(14*24*time.Hour),
	)
	require.NoError(t, err)
	unitPrice, err := valueobject.NewMoney(decimal.NewFromFloat(8.50), valueobject.USD)
	require.NoError(t, err)
	_, err = quotation.AddItem(uuid.New(), "Ceramic Mug", "SKU-001", decimal.NewFromInt(100), unitPrice, nil)
	require.NoError(t, err)

	env.quotationRepo.On("FindByIDForSeller", mock.Anything, testSellerID, quotation.ID).Return(quotation, nil)
	env.termsRepo.On("FindBySeller", mock.Anything, testSellerID).Return(createTestTerms(t), nil)
	env.quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)

	router := setupTestRouter()
	router.POST("/quotations/:id/send", env.handler.Send)

	req := httptest.NewRequest(http.MethodPost, "/quotations/"+quotation.ID.String()+"/send", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(trade.QuotationStatusSent))
	env.quotationRepo.AssertExpectations(t)
}

func TestQuotationHandler_Send_MOQViolation(t *testing.T) {
	env := setupQuotationTest()
	buyer := createApprovedBuyer(t)

	quotation, err := trade.NewQuotation(
		testSellerID, "QT-2026-0003", buyer.ID, buyer.Name, buyer.Email,
		valueobject.USD, time.Now().Add(14*24*time.Hour),
	)
	require.NoError(t, err)
	unitPrice, err := valueobject.NewMoney(decimal.NewFromFloat(8.50), valueobject.USD)
	require.NoError(t, err)
	_, err = quotation.AddItem(uuid.New(), "Ceramic Mug", "SKU-001", decimal.NewFromInt(10), unitPrice, nil)
	require.NoError(t, err)

	terms := createTestTerms(t)
	terms.DefaultMOQ = 50

	env.quotationRepo.On("FindByIDForSeller", mock.Anything, testSellerID, quotation.ID).Return(quotation, nil)
	env.termsRepo.On("FindBySeller", mock.Anything, testSellerID).Return(terms, nil)

	router := setupTestRouter()
	router.POST("/quotations/:id/send", env.handler.Send)

	req := httptest.NewRequest(http.MethodPost, "/quotations/"+quotation.ID.String()+"/send", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "MOQ_NOT_MET")
	env.quotationRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestQuotationHandler_GetByID_NotFound(t *testing.T) {
	env := setupQuotationTest()
	quotationID := uuid.New()

	env.quotationRepo.On("FindByIDForSeller", mock.Anything, testSellerID, quotationID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/quotations/:id", env.handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/quotations/"+quotationID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuotationHandler_ViewByToken_MarksViewed(t *testing.T) {
	env := setupQuotationTest()
	buyer := createApprovedBuyer(t)
	quotation := createSentQuotation(t, buyer, uuid.New())

	env.quotationRepo.On("FindByViewToken", mock.Anything, quotation.ViewToken).Return(quotation, nil)
	env.quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)

	router := setupTestRouter()
	router.GET("/public/quotations/:token", env.handler.ViewByToken)

	req := httptest.NewRequest(http.MethodGet, "/public/quotations/"+quotation.ViewToken, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(trade.QuotationStatusViewed))
	env.quotationRepo.AssertExpectations(t)
}

func TestQuotationHandler_AcceptByToken_OpensDepositIntent(t *testing.T) {
	env := setupQuotationTest()
	buyer := createApprovedBuyer(t)
	quotation := createSentQuotation(t, buyer, uuid.New())

	env.quotationRepo.On("FindByViewToken", mock.Anything, quotation.ViewToken).Return(quotation, nil)
	env.termsRepo.On("FindBySeller", mock.Anything, testSellerID).Return(createTestTerms(t), nil)
	env.paymentRepo.On("FindPendingByDocument", mock.Anything, testSellerID, payment.DocumentTypeQuotation, quotation.ID, payment.PhaseDeposit).
		Return([]payment.Payment{}, nil)
	env.gateway.On("CreateIntent", mock.Anything, mock.AnythingOfType("*payment.CreateIntentRequest")).
		Return(&payment.CreateIntentResponse{
			IntentID:     "pi_test_deposit",
			ClientSecret: "pi_test_deposit_secret",
			Status:       "requires_payment_method",
		}, nil)
	env.paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.Payment")).Return(nil)
	env.quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)

	router := setupTestRouter()
	router.POST("/public/quotations/:token/accept", env.handler.AcceptByToken)

	req := httptest.NewRequest(http.MethodPost, "/public/quotations/"+quotation.ViewToken+"/accept", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pi_test_deposit_secret")
	assert.Contains(t, w.Body.String(), string(trade.QuotationStatusAccepted))

	// 30% of the 850.00 total
	assert.Equal(t, trade.QuotationStatusAccepted, quotation.Status)
	assert.True(t, quotation.DepositAmount.Equal(decimal.NewFromFloat(255)))

	env.gateway.AssertExpectations(t)
	env.paymentRepo.AssertExpectations(t)
}

func TestQuotationHandler_AcceptByToken_UnknownToken(t *testing.T) {
	env := setupQuotationTest()

	env.quotationRepo.On("FindByViewToken", mock.Anything, "gone").Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/public/quotations/:token/accept", env.handler.AcceptByToken)

	req := httptest.NewRequest(http.MethodPost, "/public/quotations/gone/accept", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuotationHandler_Cancel_InvalidID(t *testing.T) {
	env := setupQuotationTest()

	router := setupTestRouter()
	router.POST("/quotations/:id/cancel", env.handler.Cancel)

	body, _ := json.Marshal(tradeapp.CancelRequest{Reason: "buyer backed out"})
	req := httptest.NewRequest(http.MethodPost, "/quotations/not-a-uuid/cancel", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

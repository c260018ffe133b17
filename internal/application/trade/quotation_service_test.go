package trade

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func sellerTerms(t *testing.T, sellerID uuid.UUID) *wholesale.Terms {
	t.Helper()
	terms, err := wholesale.NewTerms(sellerID, valueobject.USD)
	require.NoError(t, err)
	require.NoError(t, terms.SetPercentageSplit(decimal.NewFromInt(30)))
	require.NoError(t, terms.SetAllowedPaymentTerms([]wholesale.PaymentTerm{
		wholesale.PaymentTermDueOnReceipt, wholesale.PaymentTermNet30,
	}))
	terms.ClearDomainEvents()
	return terms
}

func wholesaleBuyer(t *testing.T, sellerID uuid.UUID) *partner.Buyer {
	t.Helper()
	buyer, err := partner.NewBuyer(sellerID, "orders@nordicliving.example", "Nordic Living BV")
	require.NoError(t, err)
	require.NoError(t, buyer.ApproveWholesale())
	buyer.ClearDomainEvents()
	return buyer
}

func wholesaleProduct(t *testing.T, sellerID uuid.UUID, sku string, moq int64) *catalog.Product {
	t.Helper()
	retail, err := valueobject.NewMoneyFromString("49.90", valueobject.USD)
	require.NoError(t, err)
	ws, err := valueobject.NewMoneyFromString("32.00", valueobject.USD)
	require.NoError(t, err)
	product, err := catalog.NewProductWithPrices(sellerID, sku, "Ceramic Mug", retail, ws)
	require.NoError(t, err)
	if moq > 0 {
		require.NoError(t, product.SetMOQ(moq))
	}
	require.NoError(t, product.AddStock(decimal.NewFromInt(10000)))
	product.ClearDomainEvents()
	return product
}

func sentQuotation(t *testing.T, sellerID uuid.UUID, product *catalog.Product, qty int64) *trade.Quotation {
	t.Helper()
	buyer := wholesaleBuyer(t, sellerID)
	quotation, err := trade.NewQuotation(sellerID, "QT-2026-00001", buyer.ID, buyer.Name, buyer.Email, valueobject.USD, time.Time{})
	require.NoError(t, err)
	_, err = quotation.AddItem(product.ID, product.Name, product.SKU, decimal.NewFromInt(qty), product.WholesalePriceMoney(), product.MOQ)
	require.NoError(t, err)
	require.NoError(t, quotation.Send())
	quotation.ClearDomainEvents()
	return quotation
}

func TestQuotationService_Create(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	buyer := wholesaleBuyer(t, sellerID)
	product := wholesaleProduct(t, sellerID, "MUG-001", 24)

	quotationRepo := new(MockQuotationRepository)
	buyerRepo := new(MockBuyerRepository)
	productRepo := new(MockProductRepository)
	termsRepo := new(MockTermsRepository)

	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)
	buyerRepo.On("FindByIDForSeller", mock.Anything, sellerID, buyer.ID).Return(buyer, nil)
	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	quotationRepo.On("GenerateQuotationNumber", mock.Anything, sellerID).Return("QT-2026-00042", nil)
	quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Quotation")).Return(nil)

	service := NewQuotationService(quotationRepo, buyerRepo, productRepo, termsRepo, nil, nil)

	resp, err := service.Create(context.Background(), sellerID, CreateQuotationRequest{
		BuyerID: buyer.ID,
		Items: []QuotationLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(48)},
		},
		PaymentTerm: string(wholesale.PaymentTermNet30),
	})

	require.NoError(t, err)
	assert.Equal(t, "QT-2026-00042", resp.QuotationNumber)
	assert.Equal(t, trade.QuotationStatusDraft, resp.Status)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("32.00")))
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("1536.00")))
	assert.Equal(t, string(wholesale.PaymentTermNet30), resp.PaymentTerm)
	assert.NotEmpty(t, resp.ViewToken)
	quotationRepo.AssertExpectations(t)
}

func TestQuotationService_Create_BuyerNotWholesale(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	buyer, err := partner.NewBuyer(sellerID, "retail@example.com", "Retail Buyer")
	require.NoError(t, err)

	buyerRepo := new(MockBuyerRepository)
	termsRepo := new(MockTermsRepository)
	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)
	buyerRepo.On("FindByIDForSeller", mock.Anything, sellerID, buyer.ID).Return(buyer, nil)

	service := NewQuotationService(new(MockQuotationRepository), buyerRepo, new(MockProductRepository), termsRepo, nil, nil)

	_, err = service.Create(context.Background(), sellerID, CreateQuotationRequest{
		BuyerID: buyer.ID,
		Items:   []QuotationLineRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10)}},
	})

	assertCode(t, err, "BUYER_NOT_WHOLESALE")
}

func TestQuotationService_Create_WholesaleNotConfigured(t *testing.T) {
	sellerID := uuid.New()

	termsRepo := new(MockTermsRepository)
	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(nil, shared.ErrNotFound)

	service := NewQuotationService(new(MockQuotationRepository), new(MockBuyerRepository), new(MockProductRepository), termsRepo, nil, nil)

	_, err := service.Create(context.Background(), sellerID, CreateQuotationRequest{
		BuyerID: uuid.New(),
		Items:   []QuotationLineRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10)}},
	})

	assertCode(t, err, "WHOLESALE_NOT_CONFIGURED")
}

func TestQuotationService_Create_CustomPriceForNonWholesaleProduct(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	buyer := wholesaleBuyer(t, sellerID)

	retail, err := valueobject.NewMoneyFromString("15.00", valueobject.USD)
	require.NoError(t, err)
	product, err := catalog.NewProductWithPrices(sellerID, "COASTER-01", "Cork Coaster", retail, valueobject.NewMoneyUSD(decimal.Zero))
	require.NoError(t, err)

	quotationRepo := new(MockQuotationRepository)
	buyerRepo := new(MockBuyerRepository)
	productRepo := new(MockProductRepository)
	termsRepo := new(MockTermsRepository)

	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)
	buyerRepo.On("FindByIDForSeller", mock.Anything, sellerID, buyer.ID).Return(buyer, nil)
	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	quotationRepo.On("GenerateQuotationNumber", mock.Anything, sellerID).Return("QT-2026-00007", nil)
	quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Quotation")).Return(nil)

	service := NewQuotationService(quotationRepo, buyerRepo, productRepo, termsRepo, nil, nil)

	t.Run("without an override the line is rejected", func(t *testing.T) {
		_, err := service.Create(context.Background(), sellerID, CreateQuotationRequest{
			BuyerID: buyer.ID,
			Items:   []QuotationLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(100)}},
		})
		assertCode(t, err, "NOT_WHOLESALE_PRODUCT")
	})

	t.Run("a negotiated unit price is accepted", func(t *testing.T) {
		override := decimal.RequireFromString("9.50")
		resp, err := service.Create(context.Background(), sellerID, CreateQuotationRequest{
			BuyerID: buyer.ID,
			Items:   []QuotationLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(100), UnitPrice: &override}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(override))
	})
}

func TestQuotationService_Send_MOQViolation(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	product := wholesaleProduct(t, sellerID, "MUG-002", 24)
	buyer := wholesaleBuyer(t, sellerID)

	quotation, err := trade.NewQuotation(sellerID, "QT-2026-00002", buyer.ID, buyer.Name, buyer.Email, valueobject.USD, time.Time{})
	require.NoError(t, err)
	_, err = quotation.AddItem(product.ID, product.Name, product.SKU, decimal.NewFromInt(10), product.WholesalePriceMoney(), product.MOQ)
	require.NoError(t, err)

	quotationRepo := new(MockQuotationRepository)
	termsRepo := new(MockTermsRepository)
	quotationRepo.On("FindByIDForSeller", mock.Anything, sellerID, quotation.ID).Return(quotation, nil)
	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), termsRepo, nil, nil)

	_, err = service.Send(context.Background(), sellerID, quotation.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrMOQNotMet))
	var complianceErr *ComplianceError
	require.True(t, errors.As(err, &complianceErr))
	require.Len(t, complianceErr.Violations, 1)
	assert.Equal(t, int64(24), complianceErr.Violations[0].Required)
	assert.Equal(t, trade.QuotationStatusDraft, quotation.Status)
}

func TestQuotationService_AcceptByToken(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	product := wholesaleProduct(t, sellerID, "MUG-003", 24)
	quotation := sentQuotation(t, sellerID, product, 100)

	quotationRepo := new(MockQuotationRepository)
	termsRepo := new(MockTermsRepository)
	paymentRepo := new(MockPaymentRepository)
	gateway := new(MockGateway)

	quotationRepo.On("FindByViewToken", mock.Anything, quotation.ViewToken).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)
	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)
	paymentRepo.On("FindPendingByDocument", mock.Anything, sellerID, payment.DocumentTypeQuotation, quotation.ID, payment.PhaseDeposit).
		Return([]payment.Payment{}, nil)
	paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.Payment")).Return(nil)
	gateway.On("CreateIntent", mock.Anything, mock.AnythingOfType("*payment.CreateIntentRequest")).
		Return(&payment.CreateIntentResponse{IntentID: "pi_123", ClientSecret: "pi_123_secret"}, nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), termsRepo, paymentRepo, gateway)

	resp, err := service.AcceptByToken(context.Background(), quotation.ViewToken)

	require.NoError(t, err)
	assert.Equal(t, trade.QuotationStatusAccepted, resp.Quotation.Status)
	// 30% deposit on 100 * 32.00
	assert.True(t, resp.Quotation.DepositAmount.Equal(decimal.RequireFromString("960.00")))
	assert.True(t, resp.Quotation.BalanceAmount.Equal(decimal.RequireFromString("2240.00")))
	assert.Equal(t, "pi_123", resp.Payment.IntentID)
	assert.Equal(t, string(payment.PhaseDeposit), resp.Payment.Phase)
	assert.True(t, resp.Payment.Amount.Equal(decimal.RequireFromString("960.00")))
	gateway.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestQuotationService_AcceptByToken_MinOrderValueNotMet(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	minValue, err := valueobject.NewMoneyFromString("5000.00", valueobject.USD)
	require.NoError(t, err)
	require.NoError(t, terms.SetMinOrderValue(minValue))

	product := wholesaleProduct(t, sellerID, "MUG-004", 0)
	quotation := sentQuotation(t, sellerID, product, 10)

	quotationRepo := new(MockQuotationRepository)
	termsRepo := new(MockTermsRepository)
	quotationRepo.On("FindByViewToken", mock.Anything, quotation.ViewToken).Return(quotation, nil)
	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), termsRepo, new(MockPaymentRepository), new(MockGateway))

	_, err = service.AcceptByToken(context.Background(), quotation.ViewToken)

	assertCode(t, err, "BELOW_MIN_ORDER_VALUE")
	assert.Equal(t, trade.QuotationStatusSent, quotation.Status)
}

func TestQuotationService_AcceptByToken_ZeroRoundedDepositSkipsDepositPhase(t *testing.T) {
	sellerID := uuid.New()
	terms := sellerTerms(t, sellerID)
	require.NoError(t, terms.SetPercentageSplit(decimal.NewFromInt(1)))

	// 1% of 0.30 rounds to 0.00, so there is no deposit to collect
	retail, err := valueobject.NewMoneyFromString("0.50", valueobject.USD)
	require.NoError(t, err)
	ws, err := valueobject.NewMoneyFromString("0.30", valueobject.USD)
	require.NoError(t, err)
	product, err := catalog.NewProductWithPrices(sellerID, "STK-001", "Logo Sticker", retail, ws)
	require.NoError(t, err)
	quotation := sentQuotation(t, sellerID, product, 1)

	quotationRepo := new(MockQuotationRepository)
	termsRepo := new(MockTermsRepository)
	paymentRepo := new(MockPaymentRepository)
	gateway := new(MockGateway)

	quotationRepo.On("FindByViewToken", mock.Anything, quotation.ViewToken).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)
	termsRepo.On("FindBySeller", mock.Anything, sellerID).Return(terms, nil)
	paymentRepo.On("FindPendingByDocument", mock.Anything, sellerID, payment.DocumentTypeQuotation, quotation.ID, payment.PhaseBalance).
		Return([]payment.Payment{}, nil)
	paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.Payment")).Return(nil)
	gateway.On("CreateIntent", mock.Anything, mock.AnythingOfType("*payment.CreateIntentRequest")).
		Return(&payment.CreateIntentResponse{IntentID: "pi_tiny", ClientSecret: "pi_tiny_secret"}, nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), termsRepo, paymentRepo, gateway)

	resp, err := service.AcceptByToken(context.Background(), quotation.ViewToken)

	require.NoError(t, err)
	assert.Equal(t, trade.QuotationStatusAccepted, resp.Quotation.Status)
	assert.True(t, resp.Quotation.DepositAmount.IsZero())
	assert.True(t, resp.Quotation.BalanceAmount.Equal(decimal.RequireFromString("0.30")))
	assert.Equal(t, string(payment.PhaseBalance), resp.Payment.Phase)
	assert.True(t, resp.Payment.Amount.Equal(decimal.RequireFromString("0.30")))
	gateway.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestQuotationService_GetByViewToken_RecordsFirstView(t *testing.T) {
	sellerID := uuid.New()
	product := wholesaleProduct(t, sellerID, "MUG-005", 0)
	quotation := sentQuotation(t, sellerID, product, 50)

	quotationRepo := new(MockQuotationRepository)
	quotationRepo.On("FindByViewToken", mock.Anything, quotation.ViewToken).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), new(MockTermsRepository), nil, nil)

	resp, err := service.GetByViewToken(context.Background(), quotation.ViewToken)

	require.NoError(t, err)
	assert.Equal(t, trade.QuotationStatusViewed, resp.Status)
	require.NotNil(t, resp.ViewedAt)
	quotationRepo.AssertExpectations(t)
}

func TestQuotationService_Cancel_VoidsOpenPayments(t *testing.T) {
	sellerID := uuid.New()
	product := wholesaleProduct(t, sellerID, "MUG-006", 0)
	quotation := sentQuotation(t, sellerID, product, 50)

	amount, err := valueobject.NewMoneyFromString("480.00", valueobject.USD)
	require.NoError(t, err)
	pending, err := payment.NewPayment(sellerID, payment.DocumentTypeQuotation, quotation.ID, quotation.QuotationNumber, quotation.BuyerID, payment.PhaseDeposit, amount)
	require.NoError(t, err)
	require.NoError(t, pending.AttachIntent("pi_stale"))
	pending.ClearDomainEvents()

	quotationRepo := new(MockQuotationRepository)
	paymentRepo := new(MockPaymentRepository)
	gateway := new(MockGateway)

	quotationRepo.On("FindByIDForSeller", mock.Anything, sellerID, quotation.ID).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)
	paymentRepo.On("FindPendingByDocument", mock.Anything, sellerID, payment.DocumentTypeQuotation, quotation.ID, payment.PhaseDeposit).
		Return([]payment.Payment{*pending}, nil)
	paymentRepo.On("FindPendingByDocument", mock.Anything, sellerID, payment.DocumentTypeQuotation, quotation.ID, payment.PhaseBalance).
		Return([]payment.Payment{}, nil)
	paymentRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*payment.Payment")).Return(nil)
	gateway.On("CancelIntent", mock.Anything, "pi_stale").Return(nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), new(MockTermsRepository), paymentRepo, gateway)

	resp, err := service.Cancel(context.Background(), sellerID, quotation.ID, CancelRequest{Reason: "Buyer withdrew"})

	require.NoError(t, err)
	assert.Equal(t, trade.QuotationStatusCancelled, resp.Status)
	gateway.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestQuotationService_ExpireSweep(t *testing.T) {
	sellerID := uuid.New()
	product := wholesaleProduct(t, sellerID, "MUG-007", 0)
	first := sentQuotation(t, sellerID, product, 10)
	second := sentQuotation(t, sellerID, product, 20)
	first.ValidUntil = time.Now().Add(-time.Hour)
	second.ValidUntil = time.Now().Add(-time.Hour)

	quotationRepo := new(MockQuotationRepository)
	quotationRepo.On("FindExpiredOpen", mock.Anything, mock.AnythingOfType("time.Time"), 100).
		Return([]trade.Quotation{*first, *second}, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*trade.Quotation")).Return(nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), new(MockTermsRepository), nil, nil)

	expired, err := service.ExpireSweep(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 2, expired)
}

func TestQuotationService_RenderPDF(t *testing.T) {
	sellerID := uuid.New()
	product := wholesaleProduct(t, sellerID, "MUG-008", 0)
	quotation := sentQuotation(t, sellerID, product, 50)

	quotationRepo := new(MockQuotationRepository)
	quotationRepo.On("FindByIDForSeller", mock.Anything, sellerID, quotation.ID).Return(quotation, nil)

	service := NewQuotationService(quotationRepo, new(MockBuyerRepository), new(MockProductRepository), new(MockTermsRepository), nil, nil)

	t.Run("without a renderer configured", func(t *testing.T) {
		_, err := service.RenderPDF(context.Background(), sellerID, quotation.ID)
		assertCode(t, err, "RENDERER_UNAVAILABLE")
	})

	t.Run("renders the quotation document", func(t *testing.T) {
		renderer := new(MockDocumentRenderer)
		renderer.On("RenderPDF", mock.Anything, mock.MatchedBy(func(html string) bool {
			return strings.Contains(html, quotation.QuotationNumber)
		})).Return([]byte("%PDF-1.7"), nil)
		service.SetDocumentRenderer(renderer)

		pdf, err := service.RenderPDF(context.Background(), sellerID, quotation.ID)

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7"), pdf)
		renderer.AssertExpectations(t)
	})
}

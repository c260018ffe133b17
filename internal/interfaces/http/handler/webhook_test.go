package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	paymentapp "github.com/marketplace/backend/internal/application/payment"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
)

func setupWebhookTest() (*MockPaymentGateway, *MockWebhookEventStore, *MockPaymentRepository, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	gateway := new(MockPaymentGateway)
	eventStore := new(MockWebhookEventStore)
	paymentRepo := new(MockPaymentRepository)
	paymentService := paymentapp.NewPaymentService(paymentRepo, new(MockQuotationRepository), new(MockOrderRepository), gateway, eventStore)
	handler := NewWebhookHandler(paymentService)

	router := gin.New()
	router.POST("/webhooks/stripe", handler.HandleStripeWebhook)
	return gateway, eventStore, paymentRepo, router
}

func TestWebhookHandler_MissingSignature(t *testing.T) {
	_, _, _, router := setupWebhookTest()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	gateway, _, _, router := setupWebhookTest()

	gateway.On("VerifyWebhook", mock.Anything, "t=1,v1=bad").
		Return(nil, shared.NewDomainError("INVALID_WEBHOOK_SIGNATURE", "signature mismatch"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "signature")
	gateway.AssertExpectations(t)
}

func TestWebhookHandler_DuplicateDelivery(t *testing.T) {
	gateway, eventStore, paymentRepo, router := setupWebhookTest()

	event := &payment.WebhookEvent{
		EventID:    "evt_dup",
		Type:       payment.WebhookIntentSucceeded,
		IntentID:   "pi_123",
		OccurredAt: time.Now(),
	}
	gateway.On("VerifyWebhook", mock.Anything, "t=1,v1=ok").Return(event, nil)
	eventStore.On("MarkProcessed", mock.Anything, "evt_dup", mock.Anything).Return(false, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_dup"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=ok")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Duplicate deliveries are acknowledged without touching any payment
	assert.Equal(t, http.StatusOK, w.Code)
	paymentRepo.AssertNotCalled(t, "FindByIntentID", mock.Anything, mock.Anything)
	gateway.AssertExpectations(t)
	eventStore.AssertExpectations(t)
}

func TestWebhookHandler_IgnoredEventType(t *testing.T) {
	gateway, eventStore, _, router := setupWebhookTest()

	event := &payment.WebhookEvent{
		EventID: "evt_ignored",
		Type:    payment.WebhookEventType("invoice.created"),
	}
	gateway.On("VerifyWebhook", mock.Anything, "t=1,v1=ok").Return(event, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_ignored"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=ok")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Unhandled event types are acknowledged without being recorded
	assert.Equal(t, http.StatusOK, w.Code)
	eventStore.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertExpectations(t)
}

func TestWebhookHandler_ProcessingErrorTriggersRedelivery(t *testing.T) {
	gateway, eventStore, paymentRepo, router := setupWebhookTest()

	event := &payment.WebhookEvent{
		EventID:    "evt_orphan",
		Type:       payment.WebhookIntentSucceeded,
		IntentID:   "pi_unknown",
		OccurredAt: time.Now(),
	}
	gateway.On("VerifyWebhook", mock.Anything, "t=1,v1=ok").Return(event, nil)
	eventStore.On("MarkProcessed", mock.Anything, "evt_orphan", mock.Anything).Return(true, nil)
	paymentRepo.On("FindByIntentID", mock.Anything, "pi_unknown").Return(nil, shared.ErrNotFound)
	eventStore.On("Unmark", mock.Anything, "evt_orphan").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_orphan"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=ok")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// The dedupe claim is released and a 5xx makes Stripe redeliver
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook processing failed")
	gateway.AssertExpectations(t)
	eventStore.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestWebhookHandler_PayloadTooLarge(t *testing.T) {
	_, _, _, router := setupWebhookTest()

	oversized := strings.Repeat("a", maxWebhookPayloadSize+1)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(oversized))
	req.Header.Set("Stripe-Signature", "t=1,v1=ok")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

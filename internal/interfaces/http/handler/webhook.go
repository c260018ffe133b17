package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentapp "github.com/marketplace/backend/internal/application/payment"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// WebhookHandler handles payment provider webhook endpoints.
// These endpoints are called by Stripe and do not require authentication;
// authenticity comes from the signature header.
type WebhookHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(paymentService *paymentapp.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleStripeWebhook)
}

// WebhookResponse represents the acknowledgement returned to the provider
// @Description Webhook acknowledgement
type WebhookResponse struct {
	Received bool   `json:"received" example:"true"`
	Message  string `json:"message,omitempty" example:"Webhook processed successfully"`
}

// HandleStripeWebhook godoc
// @ID           handleStripeWebhook
// @Summary      Handle Stripe webhook
// @Description  Receive payment intent, checkout session and refund events from Stripe
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Stripe webhook signature"
// @Success      200 {object} WebhookResponse "Webhook processed"
// @Failure      400 {object} WebhookResponse "Invalid payload or signature"
// @Failure      413 {object} WebhookResponse "Payload too large"
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, WebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	if err := h.paymentService.ProcessWebhook(c.Request.Context(), payload, signature); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INVALID_WEBHOOK_SIGNATURE" {
			c.JSON(http.StatusBadRequest, WebhookResponse{
				Received: false,
				Message:  "Webhook signature verification failed",
			})
			return
		}

		// The dedupe claim is released on handling failure, so a non-2xx
		// here makes the provider redeliver the event.
		c.JSON(http.StatusInternalServerError, WebhookResponse{
			Received: false,
			Message:  "Webhook processing failed",
		})
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{
		Received: true,
		Message:  "Webhook processed successfully",
	})
}

package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// CreateIntentRequest asks the provider for a PaymentIntent covering one
// payment phase. Used for wholesale deposit and balance charges, where the
// buyer pays against a known amount rather than a hosted product checkout.
type CreateIntentRequest struct {
	SellerID       uuid.UUID
	PaymentID      uuid.UUID
	DocumentNumber string
	Amount         valueobject.Money
	Description    string
	ReceiptEmail   string
	Metadata       map[string]string
}

// Validate validates the create intent request
func (r *CreateIntentRequest) Validate() error {
	if r.SellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if r.PaymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if r.DocumentNumber == "" {
		return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if !r.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Intent amount must be positive")
	}
	return nil
}

// CreateIntentResponse carries the provider identifiers for a new intent.
// The client secret is handed to the storefront so the buyer can confirm
// the charge with the provider's JS SDK.
type CreateIntentResponse struct {
	IntentID     string
	ClientSecret string
	Status       string
}

// CheckoutLineItem describes one product row on a hosted checkout page
type CheckoutLineItem struct {
	Name      string
	Quantity  int64
	UnitPrice valueobject.Money
}

// CreateCheckoutRequest asks the provider for a hosted checkout session.
// Used for retail orders, which settle in a single FULL payment.
type CreateCheckoutRequest struct {
	SellerID       uuid.UUID
	PaymentID      uuid.UUID
	DocumentNumber string
	Amount         valueobject.Money
	LineItems      []CheckoutLineItem
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	ExpiresAt      time.Time
	Metadata       map[string]string
}

// Validate validates the create checkout request
func (r *CreateCheckoutRequest) Validate() error {
	if r.SellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if r.PaymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if !r.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Checkout amount must be positive")
	}
	if len(r.LineItems) == 0 {
		return shared.NewDomainError("NO_LINE_ITEMS", "Checkout requires at least one line item")
	}
	if r.SuccessURL == "" || r.CancelURL == "" {
		return shared.NewDomainError("INVALID_REDIRECT_URL", "Success and cancel URLs are required")
	}
	return nil
}

// CreateCheckoutResponse carries the hosted checkout session identifiers
type CreateCheckoutResponse struct {
	SessionID   string
	CheckoutURL string
	ExpiresAt   time.Time
}

// RefundRequest asks the provider to refund part or all of a charge
type RefundRequest struct {
	SellerID  uuid.UUID
	PaymentID uuid.UUID
	IntentID  string
	Amount    valueobject.Money
	Reason    string
}

// Validate validates the refund request
func (r *RefundRequest) Validate() error {
	if r.SellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if r.IntentID == "" {
		return shared.NewDomainError("INVALID_INTENT", "PaymentIntent ID cannot be empty")
	}
	if !r.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	return nil
}

// RefundResponse carries the provider refund identifiers
type RefundResponse struct {
	RefundID string
	Status   string
	Amount   decimal.Decimal
}

// WebhookEvent is a provider notification after signature verification.
// Exactly one of IntentID or SessionID identifies the affected payment.
type WebhookEvent struct {
	// EventID is the provider's unique event ID, used for deduplication
	EventID       string
	Type          WebhookEventType
	IntentID      string
	SessionID     string
	ChargeID      string
	RefundID      string
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	FailureReason string
	OccurredAt    time.Time
	RawPayload    []byte
}

// WebhookEventType classifies the provider notifications the platform reacts to
type WebhookEventType string

const (
	WebhookIntentSucceeded  WebhookEventType = "payment_intent.succeeded"
	WebhookIntentFailed     WebhookEventType = "payment_intent.payment_failed"
	WebhookIntentCancelled  WebhookEventType = "payment_intent.canceled"
	WebhookSessionCompleted WebhookEventType = "checkout.session.completed"
	WebhookSessionExpired   WebhookEventType = "checkout.session.expired"
	WebhookChargeRefunded   WebhookEventType = "charge.refunded"
)

// IsValid checks if the webhook event type is one the platform handles
func (t WebhookEventType) IsValid() bool {
	switch t {
	case WebhookIntentSucceeded, WebhookIntentFailed, WebhookIntentCancelled,
		WebhookSessionCompleted, WebhookSessionExpired, WebhookChargeRefunded:
		return true
	}
	return false
}

// String returns the string representation of WebhookEventType
func (t WebhookEventType) String() string {
	return string(t)
}

// Gateway is the port interface for the external payment provider.
// It lives in the domain layer; the Stripe adapter in the infrastructure
// layer implements it.
type Gateway interface {
	// CreateIntent creates a PaymentIntent for a deposit or balance charge
	CreateIntent(ctx context.Context, req *CreateIntentRequest) (*CreateIntentResponse, error)

	// CreateCheckout creates a hosted checkout session for a retail order
	CreateCheckout(ctx context.Context, req *CreateCheckoutRequest) (*CreateCheckoutResponse, error)

	// CancelIntent cancels a PaymentIntent that has not yet succeeded
	CancelIntent(ctx context.Context, intentID string) error

	// CreateRefund refunds part or all of a succeeded charge
	CreateRefund(ctx context.Context, req *RefundRequest) (*RefundResponse, error)

	// VerifyWebhook checks the signature on a raw webhook payload and
	// parses it into a WebhookEvent. Returns an error for bad signatures.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

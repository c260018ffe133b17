package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// DocumentType identifies the parent document a payment settles
type DocumentType string

const (
	DocumentTypeOrder     DocumentType = "ORDER"
	DocumentTypeQuotation DocumentType = "QUOTATION"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeOrder || t == DocumentTypeQuotation
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Phase identifies which slice of the document total this payment covers.
// Retail orders settle in a single FULL payment; wholesale documents split
// into a DEPOSIT payment at acceptance and a BALANCE payment before shipment.
type Phase string

const (
	PhaseDeposit Phase = "DEPOSIT"
	PhaseBalance Phase = "BALANCE"
	PhaseFull    Phase = "FULL"
)

// IsValid checks if the phase is valid
func (p Phase) IsValid() bool {
	switch p {
	case PhaseDeposit, PhaseBalance, PhaseFull:
		return true
	}
	return false
}

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// Status represents the status of a payment attempt
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// IsValid checks if the status is a valid payment Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSucceeded, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusSucceeded || target == StatusFailed || target == StatusCancelled
	case StatusSucceeded:
		return target == StatusRefunded
	case StatusFailed, StatusCancelled, StatusRefunded:
		return false // Terminal states
	}
	return false
}

// IsFinal returns true for terminal statuses
func (s Status) IsFinal() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Payment records a single charge attempt against an order or quotation.
// One document can carry several payments over its lifetime: a failed
// deposit attempt followed by a successful retry, then a balance payment.
// Status transitions are driven by provider webhooks and are idempotent;
// replaying a webhook for a payment already in the reported status is a
// no-op rather than an error.
type Payment struct {
	shared.SellerAggregateRoot
	DocumentType   DocumentType
	DocumentID     uuid.UUID
	DocumentNumber string
	BuyerID        uuid.UUID
	Phase          Phase
	Amount         decimal.Decimal
	Currency       valueobject.Currency
	Status         Status
	IntentID       string `gorm:"type:varchar(255);index"` // Stripe PaymentIntent ID
	SessionID      string `gorm:"type:varchar(255)"`       // Stripe Checkout Session ID, retail only
	ChargeID       string `gorm:"type:varchar(255)"`       // Stripe Charge ID, set on success
	FailureReason  string
	RefundID       string // Stripe Refund ID
	RefundedAmount decimal.Decimal
	SucceededAt    *time.Time
	FailedAt       *time.Time
	CancelledAt    *time.Time
	RefundedAt     *time.Time
}

// TableName returns the database table name
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment for one phase of a document
func NewPayment(sellerID uuid.UUID, docType DocumentType, docID uuid.UUID, docNumber string, buyerID uuid.UUID, phase Phase, amount valueobject.Money) (*Payment, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type must be ORDER or QUOTATION")
	}
	if docID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if docNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if !phase.IsValid() {
		return nil, shared.NewDomainError("INVALID_PHASE", "Payment phase must be DEPOSIT, BALANCE, or FULL")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	payment := &Payment{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		DocumentType:        docType,
		DocumentID:          docID,
		DocumentNumber:      docNumber,
		BuyerID:             buyerID,
		Phase:               phase,
		Amount:              amount.Amount(),
		Currency:            amount.Currency(),
		Status:              StatusPending,
		RefundedAmount:      decimal.Zero,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// AttachIntent records the provider PaymentIntent backing this payment
func (p *Payment) AttachIntent(intentID string) error {
	if intentID == "" {
		return shared.NewDomainError("INVALID_INTENT", "PaymentIntent ID cannot be empty")
	}
	if p.Status != StatusPending {
		return shared.NewDomainError("PAYMENT_NOT_PENDING", "Can only attach an intent to a pending payment")
	}

	p.IntentID = intentID
	p.UpdatedAt = time.Now()

	return nil
}

// AttachSession records the provider Checkout Session backing this payment
func (p *Payment) AttachSession(sessionID string) error {
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Checkout Session ID cannot be empty")
	}
	if p.Status != StatusPending {
		return shared.NewDomainError("PAYMENT_NOT_PENDING", "Can only attach a session to a pending payment")
	}

	p.SessionID = sessionID
	p.UpdatedAt = time.Now()

	return nil
}

// MarkSucceeded records a successful charge reported by the provider.
// Idempotent: a repeat success notification for an already succeeded
// payment returns nil without emitting another event.
func (p *Payment) MarkSucceeded(chargeID string, paidAt time.Time) error {
	if p.Status == StatusSucceeded {
		return nil
	}
	if !p.Status.CanTransitionTo(StatusSucceeded) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot mark a "+p.Status.String()+" payment as succeeded")
	}

	p.Status = StatusSucceeded
	p.ChargeID = chargeID
	p.FailureReason = ""
	p.SucceededAt = &paidAt
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewPaymentSucceededEvent(p))

	return nil
}

// MarkFailed records a failed charge attempt. Idempotent on repeat
// failure notifications.
func (p *Payment) MarkFailed(reason string) error {
	if p.Status == StatusFailed {
		return nil
	}
	if !p.Status.CanTransitionTo(StatusFailed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot mark a "+p.Status.String()+" payment as failed")
	}

	now := time.Now()
	p.Status = StatusFailed
	p.FailureReason = reason
	p.FailedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewPaymentFailedEvent(p))

	return nil
}

// Cancel abandons a pending payment, e.g. when the checkout session
// expires or the buyer cancels the underlying order before paying.
func (p *Payment) Cancel() error {
	if p.Status == StatusCancelled {
		return nil
	}
	if !p.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot cancel a "+p.Status.String()+" payment")
	}

	now := time.Now()
	p.Status = StatusCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewPaymentCancelledEvent(p))

	return nil
}

// MarkRefunded records a provider refund of a succeeded payment
func (p *Payment) MarkRefunded(refundID string, amount valueobject.Money) error {
	if p.Status == StatusRefunded {
		return nil
	}
	if !p.Status.CanTransitionTo(StatusRefunded) {
		return shared.NewDomainError("PAYMENT_NOT_REFUNDABLE", "Only succeeded payments can be refunded")
	}
	if amount.Currency() != p.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Refund currency does not match payment currency")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if amount.Amount().GreaterThan(p.Amount) {
		return shared.NewDomainError("REFUND_EXCEEDS_PAYMENT", "Refund amount exceeds the paid amount")
	}

	now := time.Now()
	p.Status = StatusRefunded
	p.RefundID = refundID
	p.RefundedAmount = amount.Amount()
	p.RefundedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewPaymentRefundedEvent(p))

	return nil
}

// IsSettled returns true once the charge has succeeded
func (p *Payment) IsSettled() bool {
	return p.Status == StatusSucceeded
}

// GetAmountMoney returns the payment amount as a Money value object
func (p *Payment) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}

// GetRefundedAmountMoney returns the refunded amount as a Money value object
func (p *Payment) GetRefundedAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.RefundedAmount, p.Currency)
	return m
}

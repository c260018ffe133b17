package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentCreated   = "PaymentCreated"
	EventTypePaymentSucceeded = "PaymentSucceeded"
	EventTypePaymentFailed    = "PaymentFailed"
	EventTypePaymentCancelled = "PaymentCancelled"
	EventTypePaymentRefunded  = "PaymentRefunded"
)

// PaymentCreatedEvent is raised when a charge attempt is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID            `json:"payment_id"`
	DocumentType   DocumentType         `json:"document_type"`
	DocumentID     uuid.UUID            `json:"document_id"`
	DocumentNumber string               `json:"document_number"`
	BuyerID        uuid.UUID            `json:"buyer_id"`
	Phase          Phase                `json:"phase"`
	Amount         decimal.Decimal      `json:"amount"`
	Currency       valueobject.Currency `json:"currency"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, AggregateTypePayment, p.ID, p.SellerID),
		PaymentID:       p.ID,
		DocumentType:    p.DocumentType,
		DocumentID:      p.DocumentID,
		DocumentNumber:  p.DocumentNumber,
		BuyerID:         p.BuyerID,
		Phase:           p.Phase,
		Amount:          p.Amount,
		Currency:        p.Currency,
	}
}

// EventType returns the event type
func (e *PaymentCreatedEvent) EventType() string {
	return EventTypePaymentCreated
}

// PaymentSucceededEvent is raised when the provider confirms the charge.
// Handlers advance the parent order or quotation to its next payment phase.
type PaymentSucceededEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID            `json:"payment_id"`
	DocumentType   DocumentType         `json:"document_type"`
	DocumentID     uuid.UUID            `json:"document_id"`
	DocumentNumber string               `json:"document_number"`
	Phase          Phase                `json:"phase"`
	Amount         decimal.Decimal      `json:"amount"`
	Currency       valueobject.Currency `json:"currency"`
	ChargeID       string               `json:"charge_id"`
	SucceededAt    time.Time            `json:"succeeded_at"`
}

// NewPaymentSucceededEvent creates a new PaymentSucceededEvent
func NewPaymentSucceededEvent(p *Payment) *PaymentSucceededEvent {
	var paidAt time.Time
	if p.SucceededAt != nil {
		paidAt = *p.SucceededAt
	}
	return &PaymentSucceededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentSucceeded, AggregateTypePayment, p.ID, p.SellerID),
		PaymentID:       p.ID,
		DocumentType:    p.DocumentType,
		DocumentID:      p.DocumentID,
		DocumentNumber:  p.DocumentNumber,
		Phase:           p.Phase,
		Amount:          p.Amount,
		Currency:        p.Currency,
		ChargeID:        p.ChargeID,
		SucceededAt:     paidAt,
	}
}

// EventType returns the event type
func (e *PaymentSucceededEvent) EventType() string {
	return EventTypePaymentSucceeded
}

// PaymentFailedEvent is raised when the provider reports a failed charge
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID    `json:"payment_id"`
	DocumentType   DocumentType `json:"document_type"`
	DocumentID     uuid.UUID    `json:"document_id"`
	DocumentNumber string       `json:"document_number"`
	Phase          Phase        `json:"phase"`
	Reason         string       `json:"reason"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(p *Payment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypePayment, p.ID, p.SellerID),
		PaymentID:       p.ID,
		DocumentType:    p.DocumentType,
		DocumentID:      p.DocumentID,
		DocumentNumber:  p.DocumentNumber,
		Phase:           p.Phase,
		Reason:          p.FailureReason,
	}
}

// EventType returns the event type
func (e *PaymentFailedEvent) EventType() string {
	return EventTypePaymentFailed
}

// PaymentCancelledEvent is raised when a pending payment is abandoned
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentID    uuid.UUID    `json:"payment_id"`
	DocumentType DocumentType `json:"document_type"`
	DocumentID   uuid.UUID    `json:"document_id"`
	Phase        Phase        `json:"phase"`
}

// NewPaymentCancelledEvent creates a new PaymentCancelledEvent
func NewPaymentCancelledEvent(p *Payment) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCancelled, AggregateTypePayment, p.ID, p.SellerID),
		PaymentID:       p.ID,
		DocumentType:    p.DocumentType,
		DocumentID:      p.DocumentID,
		Phase:           p.Phase,
	}
}

// EventType returns the event type
func (e *PaymentCancelledEvent) EventType() string {
	return EventTypePaymentCancelled
}

// PaymentRefundedEvent is raised when a succeeded payment is refunded
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID            `json:"payment_id"`
	DocumentType   DocumentType         `json:"document_type"`
	DocumentID     uuid.UUID            `json:"document_id"`
	DocumentNumber string               `json:"document_number"`
	Phase          Phase                `json:"phase"`
	RefundID       string               `json:"refund_id"`
	RefundedAmount decimal.Decimal      `json:"refunded_amount"`
	Currency       valueobject.Currency `json:"currency"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(p *Payment) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateTypePayment, p.ID, p.SellerID),
		PaymentID:       p.ID,
		DocumentType:    p.DocumentType,
		DocumentID:      p.DocumentID,
		DocumentNumber:  p.DocumentNumber,
		Phase:           p.Phase,
		RefundID:        p.RefundID,
		RefundedAmount:  p.RefundedAmount,
		Currency:        p.Currency,
	}
}

// EventType returns the event type
func (e *PaymentRefundedEvent) EventType() string {
	return EventTypePaymentRefunded
}

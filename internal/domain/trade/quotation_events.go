package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationCreated          = "QuotationCreated"
	EventTypeQuotationSent             = "QuotationSent"
	EventTypeQuotationViewed           = "QuotationViewed"
	EventTypeQuotationAccepted         = "QuotationAccepted"
	EventTypeQuotationDepositPaid      = "QuotationDepositPaid"
	EventTypeQuotationBalanceRequested = "QuotationBalanceRequested"
	EventTypeQuotationFullyPaid        = "QuotationFullyPaid"
	EventTypeQuotationCompleted        = "QuotationCompleted"
	EventTypeQuotationCancelled        = "QuotationCancelled"
	EventTypeQuotationExpired          = "QuotationExpired"
)

// QuotationItemInfo represents line item information for events
type QuotationItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func quotationItemInfos(q *Quotation) []QuotationItemInfo {
	items := make([]QuotationItemInfo, len(q.Items))
	for i, item := range q.Items {
		items[i] = QuotationItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return items
}

// QuotationCreatedEvent is raised when a new quotation draft is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID            `json:"quotation_id"`
	QuotationNumber string               `json:"quotation_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	BuyerName       string               `json:"buyer_name"`
	Currency        valueobject.Currency `json:"currency"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		BuyerName:       q.BuyerName,
		Currency:        q.Currency,
	}
}

// EventType returns the event type name
func (e *QuotationCreatedEvent) EventType() string {
	return EventTypeQuotationCreated
}

// QuotationSentEvent is raised when a quotation is sent to the buyer.
// Notification delivery (email with the public view link) hangs off this event.
type QuotationSentEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID            `json:"quotation_id"`
	QuotationNumber string               `json:"quotation_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	BuyerEmail      string               `json:"buyer_email"`
	Currency        valueobject.Currency `json:"currency"`
	Items           []QuotationItemInfo  `json:"items"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	ValidUntil      time.Time            `json:"valid_until"`
	ViewToken       string               `json:"view_token"`
}

// NewQuotationSentEvent creates a new QuotationSentEvent
func NewQuotationSentEvent(q *Quotation) *QuotationSentEvent {
	return &QuotationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSent, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		BuyerEmail:      q.BuyerEmail,
		Currency:        q.Currency,
		Items:           quotationItemInfos(q),
		TotalAmount:     q.TotalAmount,
		ValidUntil:      q.ValidUntil,
		ViewToken:       q.ViewToken,
	}
}

// EventType returns the event type name
func (e *QuotationSentEvent) EventType() string {
	return EventTypeQuotationSent
}

// QuotationViewedEvent is raised on the buyer's first view of the quotation
type QuotationViewedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	BuyerID         uuid.UUID `json:"buyer_id"`
	ViewedAt        time.Time `json:"viewed_at"`
}

// NewQuotationViewedEvent creates a new QuotationViewedEvent
func NewQuotationViewedEvent(q *Quotation) *QuotationViewedEvent {
	viewedAt := time.Now()
	if q.ViewedAt != nil {
		viewedAt = *q.ViewedAt
	}
	return &QuotationViewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationViewed, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		ViewedAt:        viewedAt,
	}
}

// EventType returns the event type name
func (e *QuotationViewedEvent) EventType() string {
	return EventTypeQuotationViewed
}

// QuotationAcceptedEvent is raised when the buyer accepts the quotation.
// The frozen deposit/balance split rides on the event so the payment context
// can raise the deposit payment intent.
type QuotationAcceptedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID            `json:"quotation_id"`
	QuotationNumber string               `json:"quotation_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	Currency        valueobject.Currency `json:"currency"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	DepositAmount   decimal.Decimal      `json:"deposit_amount"`
	BalanceAmount   decimal.Decimal      `json:"balance_amount"`
}

// NewQuotationAcceptedEvent creates a new QuotationAcceptedEvent
func NewQuotationAcceptedEvent(q *Quotation) *QuotationAcceptedEvent {
	return &QuotationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationAccepted, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		Currency:        q.Currency,
		TotalAmount:     q.TotalAmount,
		DepositAmount:   q.DepositAmount,
		BalanceAmount:   q.BalanceAmount,
	}
}

// EventType returns the event type name
func (e *QuotationAcceptedEvent) EventType() string {
	return EventTypeQuotationAccepted
}

// QuotationDepositPaidEvent is raised when the deposit payment settles
type QuotationDepositPaidEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID            `json:"quotation_id"`
	QuotationNumber string               `json:"quotation_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	Currency        valueobject.Currency `json:"currency"`
	DepositAmount   decimal.Decimal      `json:"deposit_amount"`
	BalanceAmount   decimal.Decimal      `json:"balance_amount"`
}

// NewQuotationDepositPaidEvent creates a new QuotationDepositPaidEvent
func NewQuotationDepositPaidEvent(q *Quotation) *QuotationDepositPaidEvent {
	return &QuotationDepositPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationDepositPaid, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		Currency:        q.Currency,
		DepositAmount:   q.DepositAmount,
		BalanceAmount:   q.BalanceAmount,
	}
}

// EventType returns the event type name
func (e *QuotationDepositPaidEvent) EventType() string {
	return EventTypeQuotationDepositPaid
}

// QuotationBalanceRequestedEvent is raised when the seller calls the balance due
type QuotationBalanceRequestedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID            `json:"quotation_id"`
	QuotationNumber string               `json:"quotation_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	Currency        valueobject.Currency `json:"currency"`
	BalanceAmount   decimal.Decimal      `json:"balance_amount"`
	BalanceDueDate  *time.Time           `json:"balance_due_date,omitempty"`
}

// NewQuotationBalanceRequestedEvent creates a new QuotationBalanceRequestedEvent
func NewQuotationBalanceRequestedEvent(q *Quotation) *QuotationBalanceRequestedEvent {
	return &QuotationBalanceRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationBalanceRequested, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		Currency:        q.Currency,
		BalanceAmount:   q.BalanceAmount,
		BalanceDueDate:  q.BalanceDueDate,
	}
}

// EventType returns the event type name
func (e *QuotationBalanceRequestedEvent) EventType() string {
	return EventTypeQuotationBalanceRequested
}

// QuotationFullyPaidEvent is raised once the full quotation total has settled
type QuotationFullyPaidEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID            `json:"quotation_id"`
	QuotationNumber string               `json:"quotation_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	Currency        valueobject.Currency `json:"currency"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
}

// NewQuotationFullyPaidEvent creates a new QuotationFullyPaidEvent
func NewQuotationFullyPaidEvent(q *Quotation) *QuotationFullyPaidEvent {
	return &QuotationFullyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationFullyPaid, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		Currency:        q.Currency,
		TotalAmount:     q.TotalAmount,
	}
}

// EventType returns the event type name
func (e *QuotationFullyPaidEvent) EventType() string {
	return EventTypeQuotationFullyPaid
}

// QuotationCompletedEvent is raised when a fully paid quotation is closed out
type QuotationCompletedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	BuyerID         uuid.UUID `json:"buyer_id"`
}

// NewQuotationCompletedEvent creates a new QuotationCompletedEvent
func NewQuotationCompletedEvent(q *Quotation) *QuotationCompletedEvent {
	return &QuotationCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCompleted, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
	}
}

// EventType returns the event type name
func (e *QuotationCompletedEvent) EventType() string {
	return EventTypeQuotationCompleted
}

// QuotationCancelledEvent is raised when a quotation is cancelled before payment
type QuotationCancelledEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	BuyerID         uuid.UUID `json:"buyer_id"`
	Reason          string    `json:"reason"`
}

// NewQuotationCancelledEvent creates a new QuotationCancelledEvent
func NewQuotationCancelledEvent(q *Quotation) *QuotationCancelledEvent {
	return &QuotationCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCancelled, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		Reason:          q.CancelReason,
	}
}

// EventType returns the event type name
func (e *QuotationCancelledEvent) EventType() string {
	return EventTypeQuotationCancelled
}

// QuotationExpiredEvent is raised when the expiry sweep closes an open quotation
type QuotationExpiredEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	BuyerID         uuid.UUID `json:"buyer_id"`
	ValidUntil      time.Time `json:"valid_until"`
}

// NewQuotationExpiredEvent creates a new QuotationExpiredEvent
func NewQuotationExpiredEvent(q *Quotation) *QuotationExpiredEvent {
	return &QuotationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationExpired, AggregateTypeQuotation, q.ID, q.SellerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BuyerID:         q.BuyerID,
		ValidUntil:      q.ValidUntil,
	}
}

// EventType returns the event type name
func (e *QuotationExpiredEvent) EventType() string {
	return EventTypeQuotationExpired
}

package partner

import (
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBuyer = "Buyer"

// Event type constants
const (
	EventTypeBuyerCreated            = "BuyerCreated"
	EventTypeBuyerUpdated            = "BuyerUpdated"
	EventTypeBuyerWholesaleApproved  = "BuyerWholesaleApproved"
	EventTypeBuyerWholesaleSuspended = "BuyerWholesaleSuspended"
	EventTypeBuyerBlocked            = "BuyerBlocked"
)

// BuyerCreatedEvent is raised when a new buyer is created
type BuyerCreatedEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
}

// NewBuyerCreatedEvent creates a new BuyerCreatedEvent
func NewBuyerCreatedEvent(b *Buyer) *BuyerCreatedEvent {
	return &BuyerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerCreated, AggregateTypeBuyer, b.ID, b.SellerID),
		BuyerID:         b.ID,
		Email:           b.Email,
		Name:            b.Name,
	}
}

// EventType returns the event type name
func (e *BuyerCreatedEvent) EventType() string {
	return EventTypeBuyerCreated
}

// BuyerUpdatedEvent is raised when buyer information changes
type BuyerUpdatedEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
}

// NewBuyerUpdatedEvent creates a new BuyerUpdatedEvent
func NewBuyerUpdatedEvent(b *Buyer) *BuyerUpdatedEvent {
	return &BuyerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerUpdated, AggregateTypeBuyer, b.ID, b.SellerID),
		BuyerID:         b.ID,
		Email:           b.Email,
		Name:            b.Name,
	}
}

// EventType returns the event type name
func (e *BuyerUpdatedEvent) EventType() string {
	return EventTypeBuyerUpdated
}

// BuyerWholesaleApprovedEvent is raised when a buyer gains wholesale access
type BuyerWholesaleApprovedEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
	Email   string    `json:"email"`
}

// NewBuyerWholesaleApprovedEvent creates a new BuyerWholesaleApprovedEvent
func NewBuyerWholesaleApprovedEvent(b *Buyer) *BuyerWholesaleApprovedEvent {
	return &BuyerWholesaleApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerWholesaleApproved, AggregateTypeBuyer, b.ID, b.SellerID),
		BuyerID:         b.ID,
		Email:           b.Email,
	}
}

// EventType returns the event type name
func (e *BuyerWholesaleApprovedEvent) EventType() string {
	return EventTypeBuyerWholesaleApproved
}

// BuyerWholesaleSuspendedEvent is raised when wholesale access is suspended
type BuyerWholesaleSuspendedEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
	Email   string    `json:"email"`
	Reason  string    `json:"reason"`
}

// NewBuyerWholesaleSuspendedEvent creates a new BuyerWholesaleSuspendedEvent
func NewBuyerWholesaleSuspendedEvent(b *Buyer, reason string) *BuyerWholesaleSuspendedEvent {
	return &BuyerWholesaleSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerWholesaleSuspended, AggregateTypeBuyer, b.ID, b.SellerID),
		BuyerID:         b.ID,
		Email:           b.Email,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *BuyerWholesaleSuspendedEvent) EventType() string {
	return EventTypeBuyerWholesaleSuspended
}

// BuyerBlockedEvent is raised when a seller blocks a buyer
type BuyerBlockedEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
	Email   string    `json:"email"`
	Reason  string    `json:"reason"`
}

// NewBuyerBlockedEvent creates a new BuyerBlockedEvent
func NewBuyerBlockedEvent(b *Buyer, reason string) *BuyerBlockedEvent {
	return &BuyerBlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerBlocked, AggregateTypeBuyer, b.ID, b.SellerID),
		BuyerID:         b.ID,
		Email:           b.Email,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *BuyerBlockedEvent) EventType() string {
	return EventTypeBuyerBlocked
}

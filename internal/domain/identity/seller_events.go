package identity

import (
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSeller = "Seller"
	AggregateTypeUser   = "User"
)

// Event type constants
const (
	EventTypeSellerCreated       = "SellerCreated"
	EventTypeSellerUpdated       = "SellerUpdated"
	EventTypeSellerStatusChanged = "SellerStatusChanged"
)

// SellerCreatedEvent is raised when a new seller storefront is registered
type SellerCreatedEvent struct {
	shared.BaseDomainEvent
	SellerAggregateID uuid.UUID `json:"seller_aggregate_id"`
	Slug              string    `json:"slug"`
	Name              string    `json:"name"`
}

// NewSellerCreatedEvent creates a new SellerCreatedEvent
func NewSellerCreatedEvent(s *Seller) *SellerCreatedEvent {
	return &SellerCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSellerCreated, AggregateTypeSeller, s.ID, s.ID),
		SellerAggregateID: s.ID,
		Slug:              s.Slug,
		Name:              s.Name,
	}
}

// EventType returns the event type
func (e *SellerCreatedEvent) EventType() string {
	return EventTypeSellerCreated
}

// SellerUpdatedEvent is raised when the seller's profile changes
type SellerUpdatedEvent struct {
	shared.BaseDomainEvent
	SellerAggregateID uuid.UUID `json:"seller_aggregate_id"`
	Name              string    `json:"name"`
}

// NewSellerUpdatedEvent creates a new SellerUpdatedEvent
func NewSellerUpdatedEvent(s *Seller) *SellerUpdatedEvent {
	return &SellerUpdatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSellerUpdated, AggregateTypeSeller, s.ID, s.ID),
		SellerAggregateID: s.ID,
		Name:              s.Name,
	}
}

// EventType returns the event type
func (e *SellerUpdatedEvent) EventType() string {
	return EventTypeSellerUpdated
}

// SellerStatusChangedEvent is raised on activate, deactivate, and suspend
type SellerStatusChangedEvent struct {
	shared.BaseDomainEvent
	SellerAggregateID uuid.UUID    `json:"seller_aggregate_id"`
	OldStatus         SellerStatus `json:"old_status"`
	NewStatus         SellerStatus `json:"new_status"`
}

// NewSellerStatusChangedEvent creates a new SellerStatusChangedEvent
func NewSellerStatusChangedEvent(s *Seller, oldStatus, newStatus SellerStatus) *SellerStatusChangedEvent {
	return &SellerStatusChangedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSellerStatusChanged, AggregateTypeSeller, s.ID, s.ID),
		SellerAggregateID: s.ID,
		OldStatus:         oldStatus,
		NewStatus:         newStatus,
	}
}

// EventType returns the event type
func (e *SellerStatusChangedEvent) EventType() string {
	return EventTypeSellerStatusChanged
}

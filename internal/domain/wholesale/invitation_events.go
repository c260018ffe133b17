package wholesale

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvitation = "WholesaleInvitation"

// Event type constants
const (
	EventTypeInvitationIssued   = "WholesaleInvitationIssued"
	EventTypeInvitationAccepted = "WholesaleInvitationAccepted"
	EventTypeInvitationDeclined = "WholesaleInvitationDeclined"
	EventTypeInvitationRevoked  = "WholesaleInvitationRevoked"
)

// InvitationIssuedEvent is raised when a seller issues a wholesale invitation
type InvitationIssuedEvent struct {
	shared.BaseDomainEvent
	InvitationID uuid.UUID `json:"invitation_id"`
	BuyerEmail   string    `json:"buyer_email"`
}

// NewInvitationIssuedEvent creates a new InvitationIssuedEvent
func NewInvitationIssuedEvent(inv *Invitation) *InvitationIssuedEvent {
	return &InvitationIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationIssued, AggregateTypeInvitation, inv.ID, inv.SellerID),
		InvitationID:    inv.ID,
		BuyerEmail:      inv.BuyerEmail,
	}
}

// EventType returns the event type name
func (e *InvitationIssuedEvent) EventType() string {
	return EventTypeInvitationIssued
}

// InvitationAcceptedEvent is raised when a buyer accepts an invitation.
// The partner context upgrades the buyer to wholesale on this event.
type InvitationAcceptedEvent struct {
	shared.BaseDomainEvent
	InvitationID uuid.UUID `json:"invitation_id"`
	BuyerEmail   string    `json:"buyer_email"`
	BuyerID      uuid.UUID `json:"buyer_id"`
}

// NewInvitationAcceptedEvent creates a new InvitationAcceptedEvent
func NewInvitationAcceptedEvent(inv *Invitation) *InvitationAcceptedEvent {
	var buyerID uuid.UUID
	if inv.BuyerID != nil {
		buyerID = *inv.BuyerID
	}
	return &InvitationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationAccepted, AggregateTypeInvitation, inv.ID, inv.SellerID),
		InvitationID:    inv.ID,
		BuyerEmail:      inv.BuyerEmail,
		BuyerID:         buyerID,
	}
}

// EventType returns the event type name
func (e *InvitationAcceptedEvent) EventType() string {
	return EventTypeInvitationAccepted
}

// InvitationDeclinedEvent is raised when a buyer declines an invitation
type InvitationDeclinedEvent struct {
	shared.BaseDomainEvent
	InvitationID uuid.UUID `json:"invitation_id"`
	BuyerEmail   string    `json:"buyer_email"`
}

// NewInvitationDeclinedEvent creates a new InvitationDeclinedEvent
func NewInvitationDeclinedEvent(inv *Invitation) *InvitationDeclinedEvent {
	return &InvitationDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationDeclined, AggregateTypeInvitation, inv.ID, inv.SellerID),
		InvitationID:    inv.ID,
		BuyerEmail:      inv.BuyerEmail,
	}
}

// EventType returns the event type name
func (e *InvitationDeclinedEvent) EventType() string {
	return EventTypeInvitationDeclined
}

// InvitationRevokedEvent is raised when a seller revokes a pending invitation
type InvitationRevokedEvent struct {
	shared.BaseDomainEvent
	InvitationID uuid.UUID `json:"invitation_id"`
	BuyerEmail   string    `json:"buyer_email"`
}

// NewInvitationRevokedEvent creates a new InvitationRevokedEvent
func NewInvitationRevokedEvent(inv *Invitation) *InvitationRevokedEvent {
	return &InvitationRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationRevoked, AggregateTypeInvitation, inv.ID, inv.SellerID),
		InvitationID:    inv.ID,
		BuyerEmail:      inv.BuyerEmail,
	}
}

// EventType returns the event type name
func (e *InvitationRevokedEvent) EventType() string {
	return EventTypeInvitationRevoked
}

package wholesale

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// InvitationStatus represents the status of a wholesale invitation
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusDeclined InvitationStatus = "DECLINED"
	InvitationStatusRevoked  InvitationStatus = "REVOKED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

// IsValid checks if the status is a valid InvitationStatus
func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusDeclined,
		InvitationStatusRevoked, InvitationStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of InvitationStatus
func (s InvitationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvitationStatus) CanTransitionTo(target InvitationStatus) bool {
	if s != InvitationStatusPending {
		return false // all non-pending states are terminal
	}
	switch target {
	case InvitationStatusAccepted, InvitationStatusDeclined,
		InvitationStatusRevoked, InvitationStatusExpired:
		return true
	}
	return false
}

// DefaultInvitationValidity is how long an invitation stays acceptable
const DefaultInvitationValidity = 30 * 24 * time.Hour

// Invitation is a seller-issued relationship record granting a specific
// buyer wholesale pricing and terms. The buyer accepts through an opaque
// token sent by email.
type Invitation struct {
	shared.SellerAggregateRoot
	BuyerEmail string           `gorm:"type:varchar(320);not null;index"`
	BuyerID    *uuid.UUID       `gorm:"type:uuid;index"` // linked buyer record, set on acceptance
	Status     InvitationStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Token      string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Message    string           `gorm:"type:text"`
	ExpiresAt  time.Time        `gorm:"not null;index"`
	AcceptedAt *time.Time
	DeclinedAt *time.Time
	RevokedAt  *time.Time
}

// TableName returns the table name for GORM
func (Invitation) TableName() string {
	return "wholesale_invitations"
}

// NewInvitation creates a new pending invitation for the given buyer email
func NewInvitation(sellerID uuid.UUID, buyerEmail, message string, validity time.Duration) (*Invitation, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if _, err := mail.ParseAddress(buyerEmail); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Buyer email is not a valid address")
	}
	if validity <= 0 {
		validity = DefaultInvitationValidity
	}

	token, err := newInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv := &Invitation{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		BuyerEmail:          buyerEmail,
		Status:              InvitationStatusPending,
		Token:               token,
		Message:             message,
		ExpiresAt:           time.Now().Add(validity),
	}

	inv.AddDomainEvent(NewInvitationIssuedEvent(inv))

	return inv, nil
}

// newInvitationToken returns a 64-character hex token
func newInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Accept links the invitation to a buyer record and marks it accepted
func (i *Invitation) Accept(buyerID uuid.UUID) error {
	if i.IsExpired(time.Now()) {
		return shared.NewDomainError("INVITATION_EXPIRED", "Invitation has expired")
	}
	if !i.Status.CanTransitionTo(InvitationStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept invitation in %s status", i.Status))
	}
	if buyerID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}

	now := time.Now()
	i.Status = InvitationStatusAccepted
	i.BuyerID = &buyerID
	i.AcceptedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvitationAcceptedEvent(i))

	return nil
}

// Decline marks the invitation as declined by the buyer
func (i *Invitation) Decline() error {
	if !i.Status.CanTransitionTo(InvitationStatusDeclined) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline invitation in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InvitationStatusDeclined
	i.DeclinedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvitationDeclinedEvent(i))

	return nil
}

// Revoke withdraws a pending invitation
func (i *Invitation) Revoke() error {
	if !i.Status.CanTransitionTo(InvitationStatusRevoked) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revoke invitation in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InvitationStatusRevoked
	i.RevokedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvitationRevokedEvent(i))

	return nil
}

// MarkExpired transitions a pending invitation whose validity has lapsed
func (i *Invitation) MarkExpired() error {
	if !i.Status.CanTransitionTo(InvitationStatusExpired) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire invitation in %s status", i.Status))
	}

	i.Status = InvitationStatusExpired
	i.UpdatedAt = time.Now()

	return nil
}

// IsExpired reports whether the validity window has lapsed at the given time
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsPending returns true if the invitation is still pending
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}

// IsAccepted returns true if the invitation was accepted
func (i *Invitation) IsAccepted() bool {
	return i.Status == InvitationStatusAccepted
}

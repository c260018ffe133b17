package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// BuyerStatus represents the status of a buyer
type BuyerStatus string

const (
	BuyerStatusActive   BuyerStatus = "active"
	BuyerStatusInactive BuyerStatus = "inactive"
	BuyerStatusBlocked  BuyerStatus = "blocked" // Blocked by the seller
)

// WholesaleStatus tracks a buyer's wholesale standing with the seller.
// Buyers start retail-only; an accepted invitation approves them for
// wholesale pricing and quotations.
type WholesaleStatus string

const (
	WholesaleStatusNone      WholesaleStatus = "none"
	WholesaleStatusApproved  WholesaleStatus = "approved"
	WholesaleStatusSuspended WholesaleStatus = "suspended"
)

// Buyer represents a customer of a seller's storefront.
// It is the aggregate root for buyer-related operations in the partner context.
type Buyer struct {
	shared.SellerAggregateRoot
	Email           string               `gorm:"type:varchar(200);not null;uniqueIndex:idx_buyer_seller_email,priority:2"`
	Name            string               `gorm:"type:varchar(200);not null"`
	CompanyName     string               `gorm:"type:varchar(200)"` // Set for business buyers
	Phone           string               `gorm:"type:varchar(50);index"`
	TaxID           string               `gorm:"type:varchar(50)"`
	Status          BuyerStatus          `gorm:"type:varchar(20);not null;default:'active'"`
	WholesaleStatus WholesaleStatus      `gorm:"type:varchar(20);not null;default:'none'"`
	WholesaleSince  *time.Time           // When wholesale access was first approved
	UserID          *uuid.UUID           `gorm:"type:uuid;index"` // Linked identity account, if registered
	ShippingAddress *valueobject.Address `gorm:"type:jsonb"`
	BillingAddress  *valueobject.Address `gorm:"type:jsonb"`
	Notes           string               `gorm:"type:text"`
	Attributes      string               `gorm:"type:jsonb"` // Custom attributes
}

// TableName returns the table name for GORM
func (Buyer) TableName() string {
	return "buyers"
}

// NewBuyer creates a new retail buyer
func NewBuyer(sellerID uuid.UUID, email, name string) (*Buyer, error) {
	if err := validateBuyerEmail(email); err != nil {
		return nil, err
	}
	if err := validateBuyerName(name); err != nil {
		return nil, err
	}

	buyer := &Buyer{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Email:               strings.ToLower(email),
		Name:                name,
		Status:              BuyerStatusActive,
		WholesaleStatus:     WholesaleStatusNone,
		Attributes:          "{}",
	}

	buyer.AddDomainEvent(NewBuyerCreatedEvent(buyer))

	return buyer, nil
}

// Update updates the buyer's basic information
func (b *Buyer) Update(name, companyName string) error {
	if err := validateBuyerName(name); err != nil {
		return err
	}
	if companyName != "" && len(companyName) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}

	b.Name = name
	b.CompanyName = companyName
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBuyerUpdatedEvent(b))

	return nil
}

// UpdateEmail updates the buyer's email address
func (b *Buyer) UpdateEmail(email string) error {
	if err := validateBuyerEmail(email); err != nil {
		return err
	}

	b.Email = strings.ToLower(email)
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBuyerUpdatedEvent(b))

	return nil
}

// SetPhone sets the buyer's phone number
func (b *Buyer) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	b.Phone = phone
	b.UpdatedAt = time.Now()

	return nil
}

// SetTaxID sets the buyer's tax identification number
func (b *Buyer) SetTaxID(taxID string) error {
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	b.TaxID = taxID
	b.UpdatedAt = time.Now()

	return nil
}

// SetShippingAddress sets the default shipping address
func (b *Buyer) SetShippingAddress(addr valueobject.Address) {
	b.ShippingAddress = &addr
	b.UpdatedAt = time.Now()
}

// SetBillingAddress sets the billing address
func (b *Buyer) SetBillingAddress(addr valueobject.Address) {
	b.BillingAddress = &addr
	b.UpdatedAt = time.Now()
}

// LinkUser links the buyer record to a registered identity account
func (b *Buyer) LinkUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if b.UserID != nil && *b.UserID != userID {
		return shared.NewDomainError("ALREADY_LINKED", "Buyer is already linked to a different account")
	}

	b.UserID = &userID
	b.UpdatedAt = time.Now()

	return nil
}

// ApproveWholesale grants the buyer wholesale access.
// Called when the buyer accepts a wholesale invitation, or directly by the seller.
func (b *Buyer) ApproveWholesale() error {
	if b.Status == BuyerStatusBlocked {
		return shared.NewDomainError("BUYER_BLOCKED", "Cannot approve wholesale access for a blocked buyer")
	}
	if b.WholesaleStatus == WholesaleStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Buyer already has wholesale access")
	}

	now := time.Now()
	b.WholesaleStatus = WholesaleStatusApproved
	if b.WholesaleSince == nil {
		b.WholesaleSince = &now
	}
	b.UpdatedAt = now

	b.AddDomainEvent(NewBuyerWholesaleApprovedEvent(b))

	return nil
}

// SuspendWholesale suspends the buyer's wholesale access, keeping retail intact
func (b *Buyer) SuspendWholesale(reason string) error {
	if b.WholesaleStatus != WholesaleStatusApproved {
		return shared.NewDomainError("NOT_APPROVED", "Buyer does not have wholesale access")
	}

	b.WholesaleStatus = WholesaleStatusSuspended
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBuyerWholesaleSuspendedEvent(b, reason))

	return nil
}

// ReinstateWholesale restores suspended wholesale access
func (b *Buyer) ReinstateWholesale() error {
	if b.WholesaleStatus != WholesaleStatusSuspended {
		return shared.NewDomainError("NOT_SUSPENDED", "Wholesale access is not suspended")
	}
	if b.Status == BuyerStatusBlocked {
		return shared.NewDomainError("BUYER_BLOCKED", "Cannot reinstate wholesale access for a blocked buyer")
	}

	b.WholesaleStatus = WholesaleStatusApproved
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBuyerWholesaleApprovedEvent(b))

	return nil
}

// IsWholesaleApproved returns true if the buyer can place wholesale orders
func (b *Buyer) IsWholesaleApproved() bool {
	return b.WholesaleStatus == WholesaleStatusApproved && b.Status == BuyerStatusActive
}

// Activate activates the buyer
func (b *Buyer) Activate() error {
	if b.Status == BuyerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Buyer is already active")
	}

	b.Status = BuyerStatusActive
	b.UpdatedAt = time.Now()

	return nil
}

// Deactivate deactivates the buyer
func (b *Buyer) Deactivate() error {
	if b.Status == BuyerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Buyer is already inactive")
	}
	if b.Status == BuyerStatusBlocked {
		return shared.NewDomainError("BUYER_BLOCKED", "Unblock the buyer first")
	}

	b.Status = BuyerStatusInactive
	b.UpdatedAt = time.Now()

	return nil
}

// Block blocks the buyer from the storefront entirely
func (b *Buyer) Block(reason string) error {
	if b.Status == BuyerStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Buyer is already blocked")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Block reason is required")
	}

	b.Status = BuyerStatusBlocked
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBuyerBlockedEvent(b, reason))

	return nil
}

// Unblock lifts a block, returning the buyer to active
func (b *Buyer) Unblock() error {
	if b.Status != BuyerStatusBlocked {
		return shared.NewDomainError("NOT_BLOCKED", "Buyer is not blocked")
	}

	b.Status = BuyerStatusActive
	b.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets internal notes about the buyer
func (b *Buyer) SetNotes(notes string) {
	b.Notes = notes
	b.UpdatedAt = time.Now()
}

// SetAttributes sets custom attributes as JSON
func (b *Buyer) SetAttributes(attributes string) error {
	if attributes == "" {
		attributes = "{}"
	}
	trimmed := strings.TrimSpace(attributes)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be valid JSON object")
	}

	b.Attributes = trimmed
	b.UpdatedAt = time.Now()

	return nil
}

// IsActive returns true if the buyer is active
func (b *Buyer) IsActive() bool {
	return b.Status == BuyerStatusActive
}

// IsBlocked returns true if the buyer is blocked
func (b *Buyer) IsBlocked() bool {
	return b.Status == BuyerStatusBlocked
}

// IsBusiness returns true if the buyer has a company name set
func (b *Buyer) IsBusiness() bool {
	return b.CompanyName != ""
}

// validateBuyerEmail validates the buyer email address
func validateBuyerEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

// validateBuyerName validates the buyer name
func validateBuyerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Buyer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Buyer name cannot exceed 200 characters")
	}
	return nil
}

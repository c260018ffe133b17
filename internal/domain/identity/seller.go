package identity

import (
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// SellerStatus represents the status of a seller storefront
type SellerStatus string

const (
	SellerStatusActive    SellerStatus = "active"
	SellerStatusInactive  SellerStatus = "inactive"
	SellerStatusSuspended SellerStatus = "suspended" // Suspended for policy violations
)

// SellerConfig holds configurable storefront settings
type SellerConfig struct {
	Currency valueobject.Currency `json:"currency"` // Default currency for new products and terms
	Timezone string               `json:"timezone"`
	Locale   string               `json:"locale"`   // e.g. en-US, used for price formatting
	Settings string               `json:"settings"` // JSON object of storefront settings
}

// DefaultSellerConfig returns the default configuration for a new seller
func DefaultSellerConfig() SellerConfig {
	return SellerConfig{
		Currency: valueobject.USD,
		Timezone: "UTC",
		Locale:   "en-US",
		Settings: "{}",
	}
}

// Seller represents a seller storefront on the platform. Every seller-scoped
// aggregate in the other contexts carries this aggregate's ID as its SellerID.
type Seller struct {
	shared.BaseAggregateRoot
	Slug         string       `gorm:"type:varchar(50);not null;uniqueIndex"` // Storefront URL segment
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       SellerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	Country      string       `gorm:"type:varchar(2)"` // ISO 3166-1 alpha-2
	LogoURL      string       `gorm:"type:varchar(500)"`
	Config       SellerConfig `gorm:"embedded;embeddedPrefix:config_"`
	Notes        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new active seller storefront
func NewSeller(slug, name string) (*Seller, error) {
	if err := validateSellerSlug(slug); err != nil {
		return nil, err
	}
	if err := validateSellerName(name); err != nil {
		return nil, err
	}

	seller := &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              strings.ToLower(strings.TrimSpace(slug)),
		Name:              name,
		Status:            SellerStatusActive,
		Config:            DefaultSellerConfig(),
	}

	seller.AddDomainEvent(NewSellerCreatedEvent(seller))

	return seller, nil
}

// Update updates the seller's display name
func (s *Seller) Update(name string) error {
	if err := validateSellerName(name); err != nil {
		return err
	}

	s.Name = name
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSellerUpdatedEvent(s))

	return nil
}

// SetContact sets the seller's contact information
func (s *Seller) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	s.ContactName = contactName
	s.ContactPhone = phone
	s.ContactEmail = email
	s.UpdatedAt = time.Now()

	return nil
}

// SetCountry sets the seller's country of registration
func (s *Seller) SetCountry(country string) error {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country != "" && len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
	}

	s.Country = country
	s.UpdatedAt = time.Now()

	return nil
}

// SetLogoURL sets the seller's logo URL
func (s *Seller) SetLogoURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Logo URL cannot exceed 500 characters")
	}

	s.LogoURL = url
	s.UpdatedAt = time.Now()

	return nil
}

// UpdateConfig updates the seller's storefront configuration
func (s *Seller) UpdateConfig(config SellerConfig) error {
	if !config.Currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}
	if config.Timezone == "" {
		return shared.NewDomainError("INVALID_TIMEZONE", "Timezone cannot be empty")
	}

	s.Config = config
	s.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the seller's notes
func (s *Seller) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
}

// Activate activates the seller
func (s *Seller) Activate() error {
	if s.Status == SellerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Seller is already active")
	}

	oldStatus := s.Status
	s.Status = SellerStatusActive
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSellerStatusChangedEvent(s, oldStatus, SellerStatusActive))

	return nil
}

// Deactivate deactivates the seller
func (s *Seller) Deactivate() error {
	if s.Status == SellerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Seller is already inactive")
	}

	oldStatus := s.Status
	s.Status = SellerStatusInactive
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSellerStatusChangedEvent(s, oldStatus, SellerStatusInactive))

	return nil
}

// Suspend suspends the seller storefront
func (s *Seller) Suspend() error {
	if s.Status == SellerStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Seller is already suspended")
	}

	oldStatus := s.Status
	s.Status = SellerStatusSuspended
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSellerStatusChangedEvent(s, oldStatus, SellerStatusSuspended))

	return nil
}

// IsActive returns true if the seller is active
func (s *Seller) IsActive() bool {
	return s.Status == SellerStatusActive
}

// IsSuspended returns true if the seller is suspended
func (s *Seller) IsSuspended() bool {
	return s.Status == SellerStatusSuspended
}

// Validation functions

func validateSellerSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Seller slug cannot be empty")
	}
	if len(slug) > 50 {
		return shared.NewDomainError("INVALID_SLUG", "Seller slug cannot exceed 50 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Seller slug can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}

func validateSellerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Seller name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Seller name cannot exceed 200 characters")
	}
	return nil
}

package wholesale

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SplitType determines how an order total is split into deposit and balance
type SplitType string

const (
	SplitTypePercentage  SplitType = "PERCENTAGE"
	SplitTypeFixedAmount SplitType = "FIXED_AMOUNT"
)

// IsValid checks if the split type is valid
func (s SplitType) IsValid() bool {
	return s == SplitTypePercentage || s == SplitTypeFixedAmount
}

// PaymentTerm represents a net-payment term offered to wholesale buyers
type PaymentTerm string

const (
	PaymentTermDueOnReceipt PaymentTerm = "DUE_ON_RECEIPT"
	PaymentTermNet7         PaymentTerm = "NET_7"
	PaymentTermNet15        PaymentTerm = "NET_15"
	PaymentTermNet30        PaymentTerm = "NET_30"
	PaymentTermNet45        PaymentTerm = "NET_45"
	PaymentTermNet60        PaymentTerm = "NET_60"
	PaymentTermNet90        PaymentTerm = "NET_90"
)

// IsValid checks if the payment term is a known term
func (p PaymentTerm) IsValid() bool {
	switch p {
	case PaymentTermDueOnReceipt, PaymentTermNet7, PaymentTermNet15,
		PaymentTermNet30, PaymentTermNet45, PaymentTermNet60, PaymentTermNet90:
		return true
	}
	return false
}

// String returns the string representation of the payment term
func (p PaymentTerm) String() string {
	return string(p)
}

// NetDays returns the number of days until the balance falls due
func (p PaymentTerm) NetDays() int {
	switch p {
	case PaymentTermNet7:
		return 7
	case PaymentTermNet15:
		return 15
	case PaymentTermNet30:
		return 30
	case PaymentTermNet45:
		return 45
	case PaymentTermNet60:
		return 60
	case PaymentTermNet90:
		return 90
	}
	return 0
}

// DueDate returns the balance due date for an order placed at the given time
func (p PaymentTerm) DueDate(from time.Time) time.Time {
	return from.AddDate(0, 0, p.NetDays())
}

// PaymentTermList is a whitelist of payment terms, stored as a
// comma-separated string column.
type PaymentTermList []PaymentTerm

// Contains checks whether the list includes the given term
func (l PaymentTermList) Contains(term PaymentTerm) bool {
	for _, t := range l {
		if t == term {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer for database storage
func (l PaymentTermList) Value() (driver.Value, error) {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = string(t)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner for database retrieval
func (l *PaymentTermList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentTermList", value)
	}

	if strVal == "" {
		*l = nil
		return nil
	}

	parts := strings.Split(strVal, ",")
	terms := make(PaymentTermList, 0, len(parts))
	for _, p := range parts {
		term := PaymentTerm(strings.TrimSpace(p))
		if !term.IsValid() {
			return fmt.Errorf("invalid payment term in list: %q", p)
		}
		terms = append(terms, term)
	}
	*l = terms
	return nil
}

// Terms is the seller-configured wholesale rule set: the deposit/balance
// split, the net-payment-term whitelist, the minimum order value, and the
// fallback MOQ for products without an override.
type Terms struct {
	shared.SellerAggregateRoot
	SplitType           SplitType            `gorm:"type:varchar(20);not null;default:'PERCENTAGE'"`
	DepositPercent      decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:100"`
	DepositAmount       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AllowedPaymentTerms PaymentTermList      `gorm:"type:varchar(200)"`
	MinOrderValue       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DefaultMOQ          int64                `gorm:"not null;default:1"`
	Currency            valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Active              bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Terms) TableName() string {
	return "wholesale_terms"
}

// NewTerms creates wholesale terms for a seller with conservative defaults:
// full payment up front, no net terms, MOQ of 1 and no minimum order value.
func NewTerms(sellerID uuid.UUID, cur valueobject.Currency) (*Terms, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if !cur.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency")
	}

	return &Terms{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		SplitType:           SplitTypePercentage,
		DepositPercent:      decimal.NewFromInt(100),
		DepositAmount:       decimal.Zero,
		AllowedPaymentTerms: PaymentTermList{PaymentTermDueOnReceipt},
		MinOrderValue:       decimal.Zero,
		DefaultMOQ:          1,
		Currency:            cur,
		Active:              true,
	}, nil
}

// SetPercentageSplit configures a percentage-based deposit split
func (t *Terms) SetPercentageSplit(percent decimal.Decimal) error {
	if percent.LessThanOrEqual(decimal.Zero) || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DEPOSIT_PERCENT", "Deposit percentage must be in (0, 100]")
	}

	t.SplitType = SplitTypePercentage
	t.DepositPercent = percent
	t.DepositAmount = decimal.Zero
	t.UpdatedAt = time.Now()

	return nil
}

// SetFixedSplit configures a fixed-amount deposit split. The amount is
// validated against the order total when the split is computed.
func (t *Terms) SetFixedSplit(amount valueobject.Money) error {
	if amount.Currency() != t.Currency {
		return shared.ErrCurrencyMismatch
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_DEPOSIT_AMOUNT", "Fixed deposit amount must be positive")
	}

	t.SplitType = SplitTypeFixedAmount
	t.DepositAmount = amount.Amount()
	t.DepositPercent = decimal.Zero
	t.UpdatedAt = time.Now()

	return nil
}

// SetAllowedPaymentTerms replaces the payment-term whitelist.
// An empty whitelist means buyers may only pay on receipt.
func (t *Terms) SetAllowedPaymentTerms(terms []PaymentTerm) error {
	seen := make(map[PaymentTerm]bool, len(terms))
	list := make(PaymentTermList, 0, len(terms))
	for _, term := range terms {
		if !term.IsValid() {
			return shared.NewDomainError("INVALID_PAYMENT_TERM", fmt.Sprintf("Unknown payment term: %s", term))
		}
		if seen[term] {
			continue
		}
		seen[term] = true
		list = append(list, term)
	}

	t.AllowedPaymentTerms = list
	t.UpdatedAt = time.Now()

	return nil
}

// AllowsPaymentTerm reports whether the given term is permitted.
// An empty whitelist permits only DUE_ON_RECEIPT.
func (t *Terms) AllowsPaymentTerm(term PaymentTerm) bool {
	if len(t.AllowedPaymentTerms) == 0 {
		return term == PaymentTermDueOnReceipt
	}
	return t.AllowedPaymentTerms.Contains(term)
}

// SetMinOrderValue sets the minimum order value. A zero amount clears it.
func (t *Terms) SetMinOrderValue(amount valueobject.Money) error {
	if amount.Currency() != t.Currency {
		return shared.ErrCurrencyMismatch
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER_VALUE", "Minimum order value cannot be negative")
	}

	t.MinOrderValue = amount.Amount()
	t.UpdatedAt = time.Now()

	return nil
}

// SetDefaultMOQ sets the fallback minimum order quantity
func (t *Terms) SetDefaultMOQ(moq int64) error {
	if moq < 1 {
		return shared.NewDomainError("INVALID_MOQ", "Minimum order quantity must be at least 1")
	}

	t.DefaultMOQ = moq
	t.UpdatedAt = time.Now()

	return nil
}

// Activate enables wholesale ordering for the seller
func (t *Terms) Activate() {
	t.Active = true
	t.UpdatedAt = time.Now()
}

// Deactivate disables wholesale ordering for the seller
func (t *Terms) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now()
}

// MinOrderValueMoney returns the minimum order value as Money
func (t *Terms) MinOrderValueMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(t.MinOrderValue, t.Currency)
	return m
}

// HasMinOrderValue reports whether a minimum order value is configured
func (t *Terms) HasMinOrderValue() bool {
	return t.MinOrderValue.IsPositive()
}

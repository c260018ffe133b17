package wholesale

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderLine is the rules-engine view of a single order or quotation line
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   valueobject.Money
	MOQ         *int64 // per-product override; nil falls back to the terms default
}

// Amount returns the line total
func (l OrderLine) Amount() valueobject.Money {
	return l.UnitPrice.Multiply(l.Quantity)
}

// PaymentSplit is the deposit/balance breakdown of an order total.
// Deposit and Balance always sum exactly to the total they were computed
// from: the deposit is rounded to the currency's minor unit and the
// balance takes the remainder.
type PaymentSplit struct {
	Deposit valueobject.Money
	Balance valueobject.Money
}

// RequiresBalance reports whether a balance payment phase is needed
func (p PaymentSplit) RequiresBalance() bool {
	return p.Balance.IsPositive()
}

// MOQViolation describes a line that falls short of its minimum order quantity
type MOQViolation struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Required    int64           `json:"required"`
}

// ComplianceReport is the combined result of evaluating an order against
// the seller's wholesale terms
type ComplianceReport struct {
	OrderTotal    valueobject.Money
	Split         PaymentSplit
	BalanceTerm   PaymentTerm
	MOQViolations []MOQViolation
}

// Compliant reports whether the order passed every rule
func (r *ComplianceReport) Compliant() bool {
	return len(r.MOQViolations) == 0
}

// RulesService is the stateless wholesale rules calculator. All state comes
// in as arguments; the caller loads the seller's Terms per request.
type RulesService struct{}

// NewRulesService creates a new RulesService
func NewRulesService() *RulesService {
	return &RulesService{}
}

// ComputePaymentSplit splits an order total into deposit and balance
// according to the seller's terms
func (s *RulesService) ComputePaymentSplit(total valueobject.Money, terms *Terms) (PaymentSplit, error) {
	if terms == nil {
		return PaymentSplit{}, shared.NewDomainError("NO_TERMS", "Wholesale terms are not configured")
	}
	if total.Currency() != terms.Currency {
		return PaymentSplit{}, shared.ErrCurrencyMismatch
	}
	if !total.IsPositive() {
		return PaymentSplit{}, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}

	var deposit valueobject.Money
	switch terms.SplitType {
	case SplitTypePercentage:
		deposit = total.CalculatePercentage(terms.DepositPercent).Round()
	case SplitTypeFixedAmount:
		fixed, err := valueobject.NewMoney(terms.DepositAmount, terms.Currency)
		if err != nil {
			return PaymentSplit{}, err
		}
		over, err := fixed.GreaterThan(total)
		if err != nil {
			return PaymentSplit{}, err
		}
		if over {
			return PaymentSplit{}, shared.NewDomainError("DEPOSIT_EXCEEDS_TOTAL", "Fixed deposit exceeds the order total")
		}
		deposit = fixed.Round()
	default:
		return PaymentSplit{}, shared.NewDomainError("INVALID_SPLIT_TYPE", fmt.Sprintf("Unknown split type: %s", terms.SplitType))
	}

	// The rounded deposit may not exceed the total (e.g. 100% of an
	// unrounded total); clamp before computing the remainder.
	if over, _ := deposit.GreaterThan(total); over {
		deposit = total
	}

	balance, err := total.Subtract(deposit)
	if err != nil {
		return PaymentSplit{}, err
	}

	return PaymentSplit{Deposit: deposit, Balance: balance}, nil
}

// ValidateMOQ checks every line against its minimum order quantity and
// returns all violations, not just the first
func (s *RulesService) ValidateMOQ(lines []OrderLine, terms *Terms) []MOQViolation {
	var violations []MOQViolation
	for _, line := range lines {
		moq := terms.DefaultMOQ
		if line.MOQ != nil {
			moq = *line.MOQ
		}
		if moq <= 1 {
			continue
		}
		if line.Quantity.LessThan(decimal.NewFromInt(moq)) {
			violations = append(violations, MOQViolation{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				Required:    moq,
			})
		}
	}
	return violations
}

// ValidateMinimumOrderValue checks the order total against the seller's
// configured minimum order value
func (s *RulesService) ValidateMinimumOrderValue(total valueobject.Money, terms *Terms) error {
	if !terms.HasMinOrderValue() {
		return nil
	}
	if total.Currency() != terms.Currency {
		return shared.ErrCurrencyMismatch
	}

	min := terms.MinOrderValueMoney()
	below, err := total.LessThan(min)
	if err != nil {
		return err
	}
	if below {
		return shared.NewDomainError("BELOW_MIN_ORDER_VALUE",
			fmt.Sprintf("Order total %s is below the minimum order value %s", total, min))
	}
	return nil
}

// ValidatePaymentTerm checks the requested net term against the whitelist
func (s *RulesService) ValidatePaymentTerm(term PaymentTerm, terms *Terms) error {
	if !term.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TERM", fmt.Sprintf("Unknown payment term: %s", term))
	}
	if !terms.AllowsPaymentTerm(term) {
		return shared.NewDomainError("PAYMENT_TERM_NOT_ALLOWED",
			fmt.Sprintf("Payment term %s is not offered by this seller", term))
	}
	return nil
}

// EvaluateOrder runs every wholesale rule against the given lines and
// requested payment term, returning a combined compliance report.
// Hard failures (inactive terms, currency mismatch, disallowed payment
// term, minimum order value) return an error; MOQ shortfalls are collected
// into the report so that callers can surface every violating line at once.
func (s *RulesService) EvaluateOrder(lines []OrderLine, term PaymentTerm, terms *Terms) (*ComplianceReport, error) {
	if terms == nil {
		return nil, shared.NewDomainError("NO_TERMS", "Wholesale terms are not configured")
	}
	if !terms.Active {
		return nil, shared.NewDomainError("WHOLESALE_DISABLED", "Seller has disabled wholesale ordering")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order has no items")
	}

	total := valueobject.Zero(terms.Currency)
	for _, line := range lines {
		amount := line.Amount()
		sum, err := total.Add(amount)
		if err != nil {
			return nil, err
		}
		total = sum
	}

	if err := s.ValidatePaymentTerm(term, terms); err != nil {
		return nil, err
	}
	if err := s.ValidateMinimumOrderValue(total, terms); err != nil {
		return nil, err
	}

	split, err := s.ComputePaymentSplit(total, terms)
	if err != nil {
		return nil, err
	}

	return &ComplianceReport{
		OrderTotal:    total,
		Split:         split,
		BalanceTerm:   term,
		MOQViolations: s.ValidateMOQ(lines, terms),
	}, nil
}

package trade

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// QuotationStatus represents the lifecycle state of a trade quotation
type QuotationStatus string

const (
	QuotationStatusDraft       QuotationStatus = "DRAFT"
	QuotationStatusSent        QuotationStatus = "SENT"
	QuotationStatusViewed      QuotationStatus = "VIEWED"
	QuotationStatusAccepted    QuotationStatus = "ACCEPTED"
	QuotationStatusDepositPaid QuotationStatus = "DEPOSIT_PAID"
	QuotationStatusBalanceDue  QuotationStatus = "BALANCE_DUE"
	QuotationStatusFullyPaid   QuotationStatus = "FULLY_PAID"
	QuotationStatusCompleted   QuotationStatus = "COMPLETED"
	QuotationStatusCancelled   QuotationStatus = "CANCELLED"
	QuotationStatusExpired     QuotationStatus = "EXPIRED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusViewed,
		QuotationStatusAccepted, QuotationStatusDepositPaid, QuotationStatusBalanceDue,
		QuotationStatusFullyPaid, QuotationStatusCompleted, QuotationStatusCancelled,
		QuotationStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent || target == QuotationStatusCancelled
	case QuotationStatusSent:
		return target == QuotationStatusViewed || target == QuotationStatusAccepted ||
			target == QuotationStatusCancelled || target == QuotationStatusExpired
	case QuotationStatusViewed:
		return target == QuotationStatusAccepted || target == QuotationStatusCancelled ||
			target == QuotationStatusExpired
	case QuotationStatusAccepted:
		// A 100% deposit split skips the balance phases entirely
		return target == QuotationStatusDepositPaid || target == QuotationStatusFullyPaid ||
			target == QuotationStatusCancelled
	case QuotationStatusDepositPaid:
		return target == QuotationStatusBalanceDue || target == QuotationStatusFullyPaid
	case QuotationStatusBalanceDue:
		return target == QuotationStatusFullyPaid
	case QuotationStatusFullyPaid:
		return target == QuotationStatusCompleted
	case QuotationStatusCompleted, QuotationStatusCancelled, QuotationStatusExpired:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions
func (s QuotationStatus) IsTerminal() bool {
	switch s {
	case QuotationStatusCompleted, QuotationStatusCancelled, QuotationStatusExpired:
		return true
	}
	return false
}

// Incoterm is an ICC International Commercial Term carried on export quotations
type Incoterm string

const (
	IncotermEXW Incoterm = "EXW"
	IncotermFCA Incoterm = "FCA"
	IncotermFOB Incoterm = "FOB"
	IncotermCFR Incoterm = "CFR"
	IncotermCIF Incoterm = "CIF"
	IncotermDAP Incoterm = "DAP"
	IncotermDDP Incoterm = "DDP"
)

// IsValid checks if the incoterm is one of the supported terms
func (i Incoterm) IsValid() bool {
	switch i {
	case IncotermEXW, IncotermFCA, IncotermFOB, IncotermCFR, IncotermCIF, IncotermDAP, IncotermDDP:
		return true
	}
	return false
}

// String returns the string representation of Incoterm
func (i Incoterm) String() string {
	return string(i)
}

// DefaultQuotationValidity is how long a quotation stays open for acceptance
// when the seller does not choose an explicit expiry.
const DefaultQuotationValidity = 30 * 24 * time.Hour

// QuotationItem represents a line item in a quotation
type QuotationItem struct {
	ID          uuid.UUID
	QuotationID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // Price per unit in the quotation currency
	Amount      decimal.Decimal // Quantity * UnitPrice
	MOQ         *int64          // Product-level MOQ snapshot, nil when the product has none
	Remark      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQuotationItem creates a new quotation line item
func NewQuotationItem(quotationID, productID uuid.UUID, productName, sku string, quantity decimal.Decimal, unitPrice valueobject.Money, moq *int64) (*QuotationItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if moq != nil && *moq < 1 {
		return nil, shared.NewDomainError("INVALID_MOQ", "MOQ must be at least 1")
	}

	now := time.Now()
	return &QuotationItem{
		ID:          uuid.New(),
		QuotationID: quotationID,
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		MOQ:         moq,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *QuotationItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitPrice updates the unit price and recalculates the amount
func (i *QuotationItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.UnitPrice = unitPrice.Amount()
	i.Amount = i.Quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// OrderLine converts the item into a business-rules order line
func (i *QuotationItem) OrderLine(cur valueobject.Currency) wholesale.OrderLine {
	price, _ := valueobject.NewMoney(i.UnitPrice, cur)
	return wholesale.OrderLine{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   price,
		MOQ:         i.MOQ,
	}
}

// Quotation is an aggregate root for the trade quotation lifecycle.
// A seller drafts a priced offer for a wholesale buyer, sends it, and the
// buyer views and accepts it through a tokenised public link. Acceptance
// freezes the deposit/balance split and the quotation then tracks payment
// phases through to completion.
type Quotation struct {
	shared.SellerAggregateRoot
	QuotationNumber    string
	BuyerID            uuid.UUID
	BuyerName          string
	BuyerEmail         string
	Currency           valueobject.Currency
	Items              []QuotationItem
	Subtotal           decimal.Decimal // Sum of all item amounts
	FreightAmount      decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAmount        decimal.Decimal // Subtotal + Freight - Discount
	Incoterm           Incoterm
	DestinationPort    string
	DestinationCountry string // ISO 3166-1 alpha-2
	PaymentTerm        wholesale.PaymentTerm
	DepositAmount      decimal.Decimal // Frozen at acceptance
	BalanceAmount      decimal.Decimal // Frozen at acceptance
	BalanceDueDate     *time.Time
	ValidUntil         time.Time
	ViewToken          string `gorm:"type:varchar(64);uniqueIndex"`
	Status             QuotationStatus
	Remark             string
	SentAt             *time.Time
	ViewedAt           *time.Time
	AcceptedAt         *time.Time
	DepositPaidAt      *time.Time
	BalanceRequestedAt *time.Time
	FullyPaidAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancelReason       string
	ExpiredAt          *time.Time
}

// TableName returns the database table name
func (Quotation) TableName() string {
	return "trade_quotations"
}

// NewQuotation creates a new quotation in DRAFT status
func NewQuotation(sellerID uuid.UUID, quotationNumber string, buyerID uuid.UUID, buyerName, buyerEmail string, cur valueobject.Currency, validUntil time.Time) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if len(quotationNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot exceed 50 characters")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if buyerName == "" {
		return nil, shared.NewDomainError("INVALID_BUYER_NAME", "Buyer name cannot be empty")
	}
	if !cur.IsValid() {
		return nil, shared.ErrInvalidCurrency
	}
	if validUntil.IsZero() {
		validUntil = time.Now().Add(DefaultQuotationValidity)
	}

	token, err := generateViewToken()
	if err != nil {
		return nil, err
	}

	q := &Quotation{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		QuotationNumber:     quotationNumber,
		BuyerID:             buyerID,
		BuyerName:           buyerName,
		BuyerEmail:          buyerEmail,
		Currency:            cur,
		Items:               make([]QuotationItem, 0),
		Subtotal:            decimal.Zero,
		FreightAmount:       decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TotalAmount:         decimal.Zero,
		PaymentTerm:         wholesale.PaymentTermDueOnReceipt,
		DepositAmount:       decimal.Zero,
		BalanceAmount:       decimal.Zero,
		ValidUntil:          validUntil,
		ViewToken:           token,
		Status:              QuotationStatusDraft,
	}

	q.AddDomainEvent(NewQuotationCreatedEvent(q))

	return q, nil
}

func generateViewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate view token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// AddItem adds a line item to the quotation
// Only allowed in DRAFT status
func (q *Quotation) AddItem(productID uuid.UUID, productName, sku string, quantity decimal.Decimal, unitPrice valueobject.Money, moq *int64) (*QuotationItem, error) {
	if q.Status != QuotationStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft quotation")
	}
	if unitPrice.Currency() != q.Currency {
		return nil, shared.ErrCurrencyMismatch
	}

	for _, item := range q.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in quotation, update quantity instead")
		}
	}

	item, err := NewQuotationItem(q.ID, productID, productName, sku, quantity, unitPrice, moq)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
// Only allowed in DRAFT status
func (q *Quotation) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft quotation")
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := q.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// UpdateItemPrice updates the unit price of an existing item
// Only allowed in DRAFT status
func (q *Quotation) UpdateItemPrice(itemID uuid.UUID, unitPrice valueobject.Money) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft quotation")
	}
	if unitPrice.Currency() != q.Currency {
		return shared.ErrCurrencyMismatch
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := q.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// RemoveItem removes a line item from the quotation
// Only allowed in DRAFT status
func (q *Quotation) RemoveItem(itemID uuid.UUID) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft quotation")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// SetFreight sets the freight charge carried on top of the item subtotal
// Only allowed in DRAFT status
func (q *Quotation) SetFreight(freight valueobject.Money) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change freight on a non-draft quotation")
	}
	if freight.Currency() != q.Currency {
		return shared.ErrCurrencyMismatch
	}
	if freight.IsNegative() {
		return shared.NewDomainError("INVALID_FREIGHT", "Freight cannot be negative")
	}

	q.FreightAmount = freight.Amount()
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// ApplyDiscount applies an order-level discount
// Only allowed in DRAFT status
func (q *Quotation) ApplyDiscount(discount valueobject.Money) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft quotation")
	}
	if discount.Currency() != q.Currency {
		return shared.ErrCurrencyMismatch
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(q.Subtotal.Add(q.FreightAmount)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal plus freight")
	}

	q.DiscountAmount = discount.Amount()
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// SetIncoterm sets the delivery term with its destination
// Only allowed in DRAFT status
func (q *Quotation) SetIncoterm(term Incoterm, destinationPort, destinationCountry string) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change incoterm on a non-draft quotation")
	}
	if !term.IsValid() {
		return shared.NewDomainError("INVALID_INCOTERM", fmt.Sprintf("Unknown incoterm: %s", term))
	}

	q.Incoterm = term
	q.DestinationPort = destinationPort
	q.DestinationCountry = destinationCountry
	q.UpdatedAt = time.Now()

	return nil
}

// SetPaymentTerm sets the payment term used for the balance phase
// Only allowed in DRAFT status; whether the seller's wholesale terms allow
// this term is checked by the application service against the rules engine.
func (q *Quotation) SetPaymentTerm(term wholesale.PaymentTerm) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payment term on a non-draft quotation")
	}
	if !term.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TERM", fmt.Sprintf("Unknown payment term: %s", term))
	}

	q.PaymentTerm = term
	q.UpdatedAt = time.Now()

	return nil
}

// SetValidUntil moves the acceptance deadline
// Only allowed in DRAFT status
func (q *Quotation) SetValidUntil(validUntil time.Time) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change validity on a non-draft quotation")
	}
	if !validUntil.After(time.Now()) {
		return shared.NewDomainError("INVALID_VALIDITY", "Validity deadline must be in the future")
	}

	q.ValidUntil = validUntil
	q.UpdatedAt = time.Now()

	return nil
}

// SetRemark sets the quotation remark
func (q *Quotation) SetRemark(remark string) {
	q.Remark = remark
	q.UpdatedAt = time.Now()
}

// Send transitions the quotation from DRAFT to SENT
// Requires at least one item and a positive total
func (q *Quotation) Send() error {
	if !q.Status.CanTransitionTo(QuotationStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quotation in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send quotation without items")
	}
	if q.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Quotation total must be positive")
	}
	if !q.ValidUntil.After(time.Now()) {
		return shared.NewDomainError("INVALID_VALIDITY", "Validity deadline must be in the future")
	}

	now := time.Now()
	q.Status = QuotationStatusSent
	q.SentAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationSentEvent(q))

	return nil
}

// MarkViewed records the first buyer view of the quotation.
// Subsequent views are a no-op so the first-view timestamp survives.
func (q *Quotation) MarkViewed() error {
	if q.Status == QuotationStatusViewed {
		return nil
	}
	if !q.Status.CanTransitionTo(QuotationStatusViewed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark quotation viewed in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusViewed
	q.ViewedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationViewedEvent(q))

	return nil
}

// Accept records buyer acceptance and freezes the deposit/balance split
// computed from the seller's wholesale terms at this moment.
// Allowed from SENT or VIEWED while the quotation is still within validity.
func (q *Quotation) Accept(split wholesale.PaymentSplit) error {
	if !q.Status.CanTransitionTo(QuotationStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept quotation in %s status", q.Status))
	}
	if q.IsExpired(time.Now()) {
		return shared.NewDomainError("QUOTATION_EXPIRED", "Quotation validity has passed")
	}
	if split.Deposit.Currency() != q.Currency {
		return shared.ErrCurrencyMismatch
	}
	if !split.Deposit.Amount().Add(split.Balance.Amount()).Equal(q.TotalAmount) {
		return shared.NewDomainError("INVALID_SPLIT", "Deposit and balance must sum to the quotation total")
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.DepositAmount = split.Deposit.Amount()
	q.BalanceAmount = split.Balance.Amount()
	q.AcceptedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationAcceptedEvent(q))

	return nil
}

// MarkDepositPaid records a successful deposit payment.
// A quotation with no balance remaining advances straight to FULLY_PAID.
func (q *Quotation) MarkDepositPaid() error {
	if q.Status != QuotationStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record deposit payment in %s status", q.Status))
	}

	now := time.Now()
	q.DepositPaidAt = &now
	if q.BalanceAmount.IsPositive() {
		q.Status = QuotationStatusDepositPaid
	} else {
		q.Status = QuotationStatusFullyPaid
		q.FullyPaidAt = &now
	}
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationDepositPaidEvent(q))
	if q.Status == QuotationStatusFullyPaid {
		q.AddDomainEvent(NewQuotationFullyPaidEvent(q))
	}

	return nil
}

// RequestBalance transitions to BALANCE_DUE and stamps the due date
// derived from the quotation's payment term.
func (q *Quotation) RequestBalance() error {
	if !q.Status.CanTransitionTo(QuotationStatusBalanceDue) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot request balance in %s status", q.Status))
	}
	if !q.BalanceAmount.IsPositive() {
		return shared.NewDomainError("NO_BALANCE", "Quotation has no outstanding balance")
	}

	now := time.Now()
	dueDate := q.PaymentTerm.DueDate(now)
	q.Status = QuotationStatusBalanceDue
	q.BalanceDueDate = &dueDate
	q.BalanceRequestedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationBalanceRequestedEvent(q))

	return nil
}

// MarkBalancePaid records a successful balance payment.
// Allowed from DEPOSIT_PAID (buyer pays before a formal request) or BALANCE_DUE.
func (q *Quotation) MarkBalancePaid() error {
	if !q.Status.CanTransitionTo(QuotationStatusFullyPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record balance payment in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusFullyPaid
	q.FullyPaidAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationFullyPaidEvent(q))

	return nil
}

// Complete closes out a fully paid quotation
func (q *Quotation) Complete() error {
	if !q.Status.CanTransitionTo(QuotationStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusCompleted
	q.CompletedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationCompletedEvent(q))

	return nil
}

// Cancel cancels the quotation. Allowed before any payment has been taken.
func (q *Quotation) Cancel(reason string) error {
	if !q.Status.CanTransitionTo(QuotationStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel quotation in %s status", q.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	q.Status = QuotationStatusCancelled
	q.CancelledAt = &now
	q.CancelReason = reason
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationCancelledEvent(q))

	return nil
}

// MarkExpired moves an open quotation past its validity deadline to EXPIRED.
// Invoked by the expiry sweep; a no-op error for quotations already terminal.
func (q *Quotation) MarkExpired(now time.Time) error {
	if !q.Status.CanTransitionTo(QuotationStatusExpired) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire quotation in %s status", q.Status))
	}
	if !q.IsExpired(now) {
		return shared.NewDomainError("NOT_EXPIRED", "Quotation validity has not passed yet")
	}

	q.Status = QuotationStatusExpired
	q.ExpiredAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationExpiredEvent(q))

	return nil
}

// IsExpired reports whether the validity deadline has passed
func (q *Quotation) IsExpired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// recalculateTotals recalculates the quotation totals
func (q *Quotation) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	q.Subtotal = subtotal
	q.TotalAmount = q.Subtotal.Add(q.FreightAmount).Sub(q.DiscountAmount)

	if q.TotalAmount.IsNegative() {
		q.DiscountAmount = q.Subtotal.Add(q.FreightAmount)
		q.TotalAmount = decimal.Zero
	}
}

// OrderLines converts all items into business-rules order lines
func (q *Quotation) OrderLines() []wholesale.OrderLine {
	lines := make([]wholesale.OrderLine, len(q.Items))
	for i := range q.Items {
		lines[i] = q.Items[i].OrderLine(q.Currency)
	}
	return lines
}

// TotalAmountMoney returns the total as Money
func (q *Quotation) TotalAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.TotalAmount, q.Currency)
	return m
}

// DepositAmountMoney returns the frozen deposit as Money
func (q *Quotation) DepositAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.DepositAmount, q.Currency)
	return m
}

// BalanceAmountMoney returns the frozen balance as Money
func (q *Quotation) BalanceAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.BalanceAmount, q.Currency)
	return m
}

// ItemCount returns the number of line items
func (q *Quotation) ItemCount() int {
	return len(q.Items)
}

// IsDraft returns true if the quotation is still editable
func (q *Quotation) IsDraft() bool {
	return q.Status == QuotationStatusDraft
}

// IsOpen returns true while the quotation awaits buyer action
func (q *Quotation) IsOpen() bool {
	return q.Status == QuotationStatusSent || q.Status == QuotationStatusViewed
}

// IsTerminal returns true if the quotation reached a terminal state
func (q *Quotation) IsTerminal() bool {
	return q.Status.IsTerminal()
}

// GetItem returns an item by its ID
func (q *Quotation) GetItem(itemID uuid.UUID) *QuotationItem {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (q *Quotation) GetItemByProduct(productID uuid.UUID) *QuotationItem {
	for idx := range q.Items {
		if q.Items[idx].ProductID == productID {
			return &q.Items[idx]
		}
	}
	return nil
}

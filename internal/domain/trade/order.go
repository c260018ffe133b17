package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// OrderKind distinguishes retail storefront orders from wholesale orders
type OrderKind string

const (
	OrderKindRetail    OrderKind = "RETAIL"
	OrderKindWholesale OrderKind = "WHOLESALE"
)

// IsValid checks if the kind is a valid OrderKind
func (k OrderKind) IsValid() bool {
	return k == OrderKindRetail || k == OrderKindWholesale
}

// String returns the string representation of OrderKind
func (k OrderKind) String() string {
	return string(k)
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "DRAFT"
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusDepositPaid    OrderStatus = "DEPOSIT_PAID"
	OrderStatusBalanceDue     OrderStatus = "BALANCE_DUE"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPendingPayment, OrderStatusDepositPaid,
		OrderStatusBalanceDue, OrderStatusPaid, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusPendingPayment || target == OrderStatusCancelled
	case OrderStatusPendingPayment:
		// Retail orders settle in one payment; wholesale orders start with a deposit
		return target == OrderStatusPaid || target == OrderStatusDepositPaid ||
			target == OrderStatusCancelled
	case OrderStatusDepositPaid:
		return target == OrderStatusBalanceDue || target == OrderStatusPaid
	case OrderStatusBalanceDue:
		return target == OrderStatusPaid
	case OrderStatusPaid:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // Price per unit in the order currency
	Amount      decimal.Decimal // Quantity * UnitPrice
	MOQ         *int64          // Product-level MOQ snapshot for wholesale validation
	Remark      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName, sku string, quantity decimal.Decimal, unitPrice valueobject.Money, moq *int64) (*OrderItem, error) {
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

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
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
func (i *OrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// OrderLine converts the item into a business-rules order line
func (i *OrderItem) OrderLine(cur valueobject.Currency) wholesale.OrderLine {
	price, _ := valueobject.NewMoney(i.UnitPrice, cur)
	return wholesale.OrderLine{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   price,
		MOQ:         i.MOQ,
	}
}

// Order is an aggregate root for buyer orders. Retail orders settle in a
// single payment; wholesale orders carry a deposit/balance split frozen at
// checkout from the seller's wholesale terms.
type Order struct {
	shared.SellerAggregateRoot
	OrderNumber     string
	Kind            OrderKind
	BuyerID         uuid.UUID
	BuyerName       string
	Currency        valueobject.Currency
	Items           []OrderItem
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal // Subtotal - Discount
	ShippingAddress *valueobject.Address
	PaymentTerm     wholesale.PaymentTerm
	DepositAmount   decimal.Decimal // Zero for retail orders
	BalanceAmount   decimal.Decimal
	BalanceDueDate  *time.Time
	QuotationID     *uuid.UUID // Set when the order was created from an accepted quotation
	TrackingNumber  string
	Carrier         string
	Status          OrderStatus
	Remark          string
	CheckedOutAt    *time.Time
	DepositPaidAt   *time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// TableName returns the database table name
func (Order) TableName() string {
	return "trade_orders"
}

// NewOrder creates a new order in DRAFT status
func NewOrder(sellerID uuid.UUID, orderNumber string, kind OrderKind, buyerID uuid.UUID, buyerName string, cur valueobject.Currency) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_KIND", fmt.Sprintf("Unknown order kind: %s", kind))
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

	order := &Order{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		OrderNumber:         orderNumber,
		Kind:                kind,
		BuyerID:             buyerID,
		BuyerName:           buyerName,
		Currency:            cur,
		Items:               make([]OrderItem, 0),
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TotalAmount:         decimal.Zero,
		PaymentTerm:         wholesale.PaymentTermDueOnReceipt,
		DepositAmount:       decimal.Zero,
		BalanceAmount:       decimal.Zero,
		Status:              OrderStatusDraft,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// IsWholesale returns true for wholesale orders
func (o *Order) IsWholesale() bool {
	return o.Kind == OrderKindWholesale
}

// AddItem adds a line item to the order
// Only allowed in DRAFT status
func (o *Order) AddItem(productID uuid.UUID, productName, sku string, quantity decimal.Decimal, unitPrice valueobject.Money, moq *int64) (*OrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	if unitPrice.Currency() != o.Currency {
		return nil, shared.ErrCurrencyMismatch
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, sku, quantity, unitPrice, moq)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
// Only allowed in DRAFT status
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item from the order
// Only allowed in DRAFT status
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ApplyDiscount applies an order-level discount
// Only allowed in DRAFT status
func (o *Order) ApplyDiscount(discount valueobject.Money) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft order")
	}
	if discount.Currency() != o.Currency {
		return shared.ErrCurrencyMismatch
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	o.DiscountAmount = discount.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetShippingAddress sets the delivery address
// Only allowed before payment
func (o *Order) SetShippingAddress(addr valueobject.Address) error {
	if o.Status != OrderStatusDraft && o.Status != OrderStatusPendingPayment {
		return shared.NewDomainError("INVALID_STATE", "Cannot change shipping address after payment")
	}

	o.ShippingAddress = &addr
	o.UpdatedAt = time.Now()

	return nil
}

// SetRemark sets the order remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// Checkout transitions the order from DRAFT to PENDING_PAYMENT.
// Wholesale orders must carry a deposit/balance split applied via
// ApplyWholesaleSplit before checkout.
func (o *Order) Checkout() error {
	if !o.Status.CanTransitionTo(OrderStatusPendingPayment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot check out order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot check out order without items")
	}
	if o.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	if o.IsWholesale() && o.DepositAmount.Add(o.BalanceAmount).IsZero() {
		return shared.NewDomainError("NO_PAYMENT_SPLIT", "Wholesale order requires a deposit/balance split")
	}

	now := time.Now()
	o.Status = OrderStatusPendingPayment
	o.CheckedOutAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCheckedOutEvent(o))

	return nil
}

// ApplyWholesaleSplit freezes the deposit/balance split and payment term
// for a wholesale order. Only allowed in DRAFT status.
func (o *Order) ApplyWholesaleSplit(split wholesale.PaymentSplit, term wholesale.PaymentTerm) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payment split on a non-draft order")
	}
	if !o.IsWholesale() {
		return shared.NewDomainError("NOT_WHOLESALE", "Payment splits apply to wholesale orders only")
	}
	if split.Deposit.Currency() != o.Currency {
		return shared.ErrCurrencyMismatch
	}
	if !split.Deposit.Amount().Add(split.Balance.Amount()).Equal(o.TotalAmount) {
		return shared.NewDomainError("INVALID_SPLIT", "Deposit and balance must sum to the order total")
	}
	if !term.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TERM", fmt.Sprintf("Unknown payment term: %s", term))
	}

	o.DepositAmount = split.Deposit.Amount()
	o.BalanceAmount = split.Balance.Amount()
	o.PaymentTerm = term
	o.UpdatedAt = time.Now()

	return nil
}

// MarkDepositPaid records a settled deposit payment on a wholesale order.
// A 100% deposit split settles the order outright.
func (o *Order) MarkDepositPaid() error {
	if o.Status != OrderStatusPendingPayment {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record deposit payment in %s status", o.Status))
	}
	if !o.IsWholesale() {
		return shared.NewDomainError("NOT_WHOLESALE", "Deposit payments apply to wholesale orders only")
	}

	now := time.Now()
	o.DepositPaidAt = &now
	if o.BalanceAmount.IsPositive() {
		o.Status = OrderStatusDepositPaid
	} else {
		o.Status = OrderStatusPaid
		o.PaidAt = &now
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDepositPaidEvent(o))
	if o.Status == OrderStatusPaid {
		o.AddDomainEvent(NewOrderPaidEvent(o))
	}

	return nil
}

// RequestBalance transitions a wholesale order to BALANCE_DUE and stamps
// the due date derived from the order's payment term.
func (o *Order) RequestBalance() error {
	if !o.Status.CanTransitionTo(OrderStatusBalanceDue) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot request balance in %s status", o.Status))
	}
	if !o.BalanceAmount.IsPositive() {
		return shared.NewDomainError("NO_BALANCE", "Order has no outstanding balance")
	}

	now := time.Now()
	dueDate := o.PaymentTerm.DueDate(now)
	o.Status = OrderStatusBalanceDue
	o.BalanceDueDate = &dueDate
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderBalanceRequestedEvent(o))

	return nil
}

// MarkPaid records full settlement. For retail orders this is the single
// payment; for wholesale orders it is the balance payment.
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// Ship marks the order as shipped with carrier tracking info
func (o *Order) Ship(carrier, trackingNumber string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}
	if o.ShippingAddress == nil {
		return shared.NewDomainError("NO_SHIPPING_ADDRESS", "Shipping address must be set before shipping")
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.Carrier = carrier
	o.TrackingNumber = trackingNumber
	o.ShippedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Complete marks the order as completed (delivered/received)
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel cancels the order. Allowed before any payment has been taken.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// recalculateTotals recalculates the order totals
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.TotalAmount = o.Subtotal.Sub(o.DiscountAmount)

	if o.TotalAmount.IsNegative() {
		o.DiscountAmount = o.Subtotal
		o.TotalAmount = decimal.Zero
	}
}

// OrderLines converts all items into business-rules order lines
func (o *Order) OrderLines() []wholesale.OrderLine {
	lines := make([]wholesale.OrderLine, len(o.Items))
	for i := range o.Items {
		lines[i] = o.Items[i].OrderLine(o.Currency)
	}
	return lines
}

// TotalAmountMoney returns the total as Money
func (o *Order) TotalAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.TotalAmount, o.Currency)
	return m
}

// DepositAmountMoney returns the frozen deposit as Money
func (o *Order) DepositAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.DepositAmount, o.Currency)
	return m
}

// BalanceAmountMoney returns the frozen balance as Money
func (o *Order) BalanceAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.BalanceAmount, o.Currency)
	return m
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// IsDraft returns true if the order is still editable
func (o *Order) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// IsTerminal returns true if the order is completed or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// SetQuotation links the order back to the accepted quotation it was created from
func (o *Order) SetQuotation(quotationID uuid.UUID) {
	o.QuotationID = &quotationID
	o.UpdatedAt = time.Now()
}

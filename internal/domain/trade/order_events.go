package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderCheckedOut       = "OrderCheckedOut"
	EventTypeOrderDepositPaid      = "OrderDepositPaid"
	EventTypeOrderBalanceRequested = "OrderBalanceRequested"
	EventTypeOrderPaid             = "OrderPaid"
	EventTypeOrderShipped          = "OrderShipped"
	EventTypeOrderCompleted        = "OrderCompleted"
	EventTypeOrderCancelled        = "OrderCancelled"
)

// OrderItemInfo represents line item information for events
type OrderItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func orderItemInfos(o *Order) []OrderItemInfo {
	items := make([]OrderItemInfo, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return items
}

// OrderCreatedEvent is raised when a new order draft is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID            `json:"order_id"`
	OrderNumber string               `json:"order_number"`
	Kind        OrderKind            `json:"kind"`
	BuyerID     uuid.UUID            `json:"buyer_id"`
	BuyerName   string               `json:"buyer_name"`
	Currency    valueobject.Currency `json:"currency"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		BuyerID:         o.BuyerID,
		BuyerName:       o.BuyerName,
		Currency:        o.Currency,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderCheckedOutEvent is raised when a draft order is checked out.
// The payment context listens for this to raise the first payment intent:
// the full total for retail orders, the deposit for wholesale orders.
type OrderCheckedOutEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID            `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	Kind          OrderKind            `json:"kind"`
	BuyerID       uuid.UUID            `json:"buyer_id"`
	Currency      valueobject.Currency `json:"currency"`
	Items         []OrderItemInfo      `json:"items"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	DepositAmount decimal.Decimal      `json:"deposit_amount"`
	BalanceAmount decimal.Decimal      `json:"balance_amount"`
}

// NewOrderCheckedOutEvent creates a new OrderCheckedOutEvent
func NewOrderCheckedOutEvent(o *Order) *OrderCheckedOutEvent {
	return &OrderCheckedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCheckedOut, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		BuyerID:         o.BuyerID,
		Currency:        o.Currency,
		Items:           orderItemInfos(o),
		TotalAmount:     o.TotalAmount,
		DepositAmount:   o.DepositAmount,
		BalanceAmount:   o.BalanceAmount,
	}
}

// EventType returns the event type name
func (e *OrderCheckedOutEvent) EventType() string {
	return EventTypeOrderCheckedOut
}

// OrderDepositPaidEvent is raised when a wholesale order deposit settles
type OrderDepositPaidEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID            `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	BuyerID       uuid.UUID            `json:"buyer_id"`
	Currency      valueobject.Currency `json:"currency"`
	DepositAmount decimal.Decimal      `json:"deposit_amount"`
	BalanceAmount decimal.Decimal      `json:"balance_amount"`
}

// NewOrderDepositPaidEvent creates a new OrderDepositPaidEvent
func NewOrderDepositPaidEvent(o *Order) *OrderDepositPaidEvent {
	return &OrderDepositPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDepositPaid, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		Currency:        o.Currency,
		DepositAmount:   o.DepositAmount,
		BalanceAmount:   o.BalanceAmount,
	}
}

// EventType returns the event type name
func (e *OrderDepositPaidEvent) EventType() string {
	return EventTypeOrderDepositPaid
}

// OrderBalanceRequestedEvent is raised when the seller calls the balance due
type OrderBalanceRequestedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID            `json:"order_id"`
	OrderNumber    string               `json:"order_number"`
	BuyerID        uuid.UUID            `json:"buyer_id"`
	Currency       valueobject.Currency `json:"currency"`
	BalanceAmount  decimal.Decimal      `json:"balance_amount"`
	BalanceDueDate *time.Time           `json:"balance_due_date,omitempty"`
}

// NewOrderBalanceRequestedEvent creates a new OrderBalanceRequestedEvent
func NewOrderBalanceRequestedEvent(o *Order) *OrderBalanceRequestedEvent {
	return &OrderBalanceRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderBalanceRequested, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		Currency:        o.Currency,
		BalanceAmount:   o.BalanceAmount,
		BalanceDueDate:  o.BalanceDueDate,
	}
}

// EventType returns the event type name
func (e *OrderBalanceRequestedEvent) EventType() string {
	return EventTypeOrderBalanceRequested
}

// OrderPaidEvent is raised when the order is fully settled.
// This event triggers stock deduction in the catalog context.
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID            `json:"order_id"`
	OrderNumber string               `json:"order_number"`
	Kind        OrderKind            `json:"kind"`
	BuyerID     uuid.UUID            `json:"buyer_id"`
	Currency    valueobject.Currency `json:"currency"`
	Items       []OrderItemInfo      `json:"items"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		BuyerID:         o.BuyerID,
		Currency:        o.Currency,
		Items:           orderItemInfos(o),
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderPaidEvent) EventType() string {
	return EventTypeOrderPaid
}

// OrderShippedEvent is raised when the order ships
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		Carrier:         o.Carrier,
		TrackingNumber:  o.TrackingNumber,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderCompletedEvent is raised when the order is completed
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	BuyerID     uuid.UUID `json:"buyer_id"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
	}
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// OrderCancelledEvent is raised when an order is cancelled before payment
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	Reason      string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.SellerID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		Reason:          o.CancelReason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

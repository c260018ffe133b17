package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// ==================== Quotation DTOs ====================

// QuotationLineRequest is a line item in quotation requests
type QuotationLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	// UnitPrice overrides the product's wholesale price when set.
	// Quotations are negotiated documents; sellers may offer a custom price.
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateQuotationRequest represents a request to draft a quotation
type CreateQuotationRequest struct {
	BuyerID      uuid.UUID              `json:"buyer_id" binding:"required"`
	Items        []QuotationLineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentTerm  string                 `json:"payment_term"`
	ValidityDays int                    `json:"validity_days" binding:"min=0,max=365"`
	Remark       string                 `json:"remark" binding:"max=2000"`
}

// UpdateQuotationRequest updates a draft quotation's commercial terms
type UpdateQuotationRequest struct {
	FreightAmount      *decimal.Decimal `json:"freight_amount"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	Incoterm           *string          `json:"incoterm"`
	DestinationPort    *string          `json:"destination_port"`
	DestinationCountry *string          `json:"destination_country"`
	PaymentTerm        *string          `json:"payment_term"`
	ValidUntil         *time.Time       `json:"valid_until"`
	Remark             *string          `json:"remark"`
}

// AddQuotationItemRequest adds a line to a draft quotation
type AddQuotationItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// UpdateQuotationItemRequest changes a line on a draft quotation
type UpdateQuotationItemRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CancelRequest carries the reason for cancelling a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// QuotationItemResponse represents a quotation line in API responses
type QuotationItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	MOQ         *int64          `json:"moq,omitempty"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID                 uuid.UUID               `json:"id"`
	SellerID           uuid.UUID               `json:"seller_id"`
	QuotationNumber    string                  `json:"quotation_number"`
	BuyerID            uuid.UUID               `json:"buyer_id"`
	BuyerName          string                  `json:"buyer_name"`
	BuyerEmail         string                  `json:"buyer_email,omitempty"`
	Currency           string                  `json:"currency"`
	Items              []QuotationItemResponse `json:"items"`
	Subtotal           decimal.Decimal         `json:"subtotal"`
	FreightAmount      decimal.Decimal         `json:"freight_amount"`
	DiscountAmount     decimal.Decimal         `json:"discount_amount"`
	TotalAmount        decimal.Decimal         `json:"total_amount"`
	Incoterm           string                  `json:"incoterm,omitempty"`
	DestinationPort    string                  `json:"destination_port,omitempty"`
	DestinationCountry string                  `json:"destination_country,omitempty"`
	PaymentTerm        string                  `json:"payment_term"`
	DepositAmount      decimal.Decimal         `json:"deposit_amount"`
	BalanceAmount      decimal.Decimal         `json:"balance_amount"`
	BalanceDueDate     *time.Time              `json:"balance_due_date,omitempty"`
	ValidUntil         time.Time               `json:"valid_until"`
	Status             trade.QuotationStatus   `json:"status"`
	Remark             string                  `json:"remark,omitempty"`
	SentAt             *time.Time              `json:"sent_at,omitempty"`
	ViewedAt           *time.Time              `json:"viewed_at,omitempty"`
	AcceptedAt         *time.Time              `json:"accepted_at,omitempty"`
	DepositPaidAt      *time.Time              `json:"deposit_paid_at,omitempty"`
	FullyPaidAt        *time.Time              `json:"fully_paid_at,omitempty"`
	CompletedAt        *time.Time              `json:"completed_at,omitempty"`
	CancelReason       string                  `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// IssuedQuotationResponse is returned to the issuing seller and includes
// the public view link token. Buyers never see other buyers' tokens.
type IssuedQuotationResponse struct {
	QuotationResponse
	ViewToken string `json:"view_token"`
}

// ToQuotationResponse converts a Quotation aggregate to a response DTO
func ToQuotationResponse(q *trade.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, len(q.Items))
	for i := range q.Items {
		item := &q.Items[i]
		items[i] = QuotationItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			MOQ:         item.MOQ,
		}
	}
	return QuotationResponse{
		ID:                 q.ID,
		SellerID:           q.SellerID,
		QuotationNumber:    q.QuotationNumber,
		BuyerID:            q.BuyerID,
		BuyerName:          q.BuyerName,
		BuyerEmail:         q.BuyerEmail,
		Currency:           string(q.Currency),
		Items:              items,
		Subtotal:           q.Subtotal,
		FreightAmount:      q.FreightAmount,
		DiscountAmount:     q.DiscountAmount,
		TotalAmount:        q.TotalAmount,
		Incoterm:           q.Incoterm.String(),
		DestinationPort:    q.DestinationPort,
		DestinationCountry: q.DestinationCountry,
		PaymentTerm:        q.PaymentTerm.String(),
		DepositAmount:      q.DepositAmount,
		BalanceAmount:      q.BalanceAmount,
		BalanceDueDate:     q.BalanceDueDate,
		ValidUntil:         q.ValidUntil,
		Status:             q.Status,
		Remark:             q.Remark,
		SentAt:             q.SentAt,
		ViewedAt:           q.ViewedAt,
		AcceptedAt:         q.AcceptedAt,
		DepositPaidAt:      q.DepositPaidAt,
		FullyPaidAt:        q.FullyPaidAt,
		CompletedAt:        q.CompletedAt,
		CancelReason:       q.CancelReason,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// ToQuotationResponses converts a slice of quotations to response DTOs
func ToQuotationResponses(quotations []trade.Quotation) []QuotationResponse {
	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i])
	}
	return responses
}

// QuotationListFilter represents filtering options for quotation lists
type QuotationListFilter struct {
	Page     int                    `form:"page"`
	PageSize int                    `form:"page_size"`
	Search   string                 `form:"search"`
	BuyerID  *uuid.UUID             `form:"buyer_id"`
	Status   *trade.QuotationStatus `form:"status"`
	OrderBy  string                 `form:"order_by"`
	OrderDir string                 `form:"order_dir"`
}

// ==================== Order DTOs ====================

// OrderLineRequest is a line item in order requests
type OrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOrderRequest represents a request to draft an order.
// Retail orders price lines at the product retail price; wholesale orders
// use the wholesale price and require an approved wholesale buyer.
type CreateOrderRequest struct {
	BuyerID         uuid.UUID          `json:"buyer_id" binding:"required"`
	Kind            string             `json:"kind" binding:"required,oneof=RETAIL WHOLESALE"`
	Items           []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *AddressRequest    `json:"shipping_address"`
	Remark          string             `json:"remark" binding:"max=2000"`
}

// AddressRequest carries a shipping address on order requests
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required,min=1,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"required,len=2"`
}

// UpdateOrderItemRequest changes a line quantity on a draft order
type UpdateOrderItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// WholesaleCheckoutRequest checks out a wholesale order under a payment term
type WholesaleCheckoutRequest struct {
	PaymentTerm string `json:"payment_term" binding:"required"`
}

// RetailCheckoutRequest checks out a retail order through hosted checkout
type RetailCheckoutRequest struct {
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

// ShipOrderRequest records carrier tracking info when shipping
type ShipOrderRequest struct {
	Carrier        string `json:"carrier" binding:"required,min=1,max=100"`
	TrackingNumber string `json:"tracking_number" binding:"required,min=1,max=100"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	MOQ         *int64          `json:"moq,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	SellerID       uuid.UUID           `json:"seller_id"`
	OrderNumber    string              `json:"order_number"`
	Kind           trade.OrderKind     `json:"kind"`
	BuyerID        uuid.UUID           `json:"buyer_id"`
	BuyerName      string              `json:"buyer_name"`
	Currency       string              `json:"currency"`
	Items          []OrderItemResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PaymentTerm    string              `json:"payment_term"`
	DepositAmount  decimal.Decimal     `json:"deposit_amount"`
	BalanceAmount  decimal.Decimal     `json:"balance_amount"`
	BalanceDueDate *time.Time          `json:"balance_due_date,omitempty"`
	QuotationID    *uuid.UUID          `json:"quotation_id,omitempty"`
	Carrier        string              `json:"carrier,omitempty"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Status         trade.OrderStatus   `json:"status"`
	Remark         string              `json:"remark,omitempty"`
	CheckedOutAt   *time.Time          `json:"checked_out_at,omitempty"`
	DepositPaidAt  *time.Time          `json:"deposit_paid_at,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	ShippedAt      *time.Time          `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an Order aggregate to a response DTO
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			MOQ:         item.MOQ,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		SellerID:       o.SellerID,
		OrderNumber:    o.OrderNumber,
		Kind:           o.Kind,
		BuyerID:        o.BuyerID,
		BuyerName:      o.BuyerName,
		Currency:       string(o.Currency),
		Items:          items,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		PaymentTerm:    o.PaymentTerm.String(),
		DepositAmount:  o.DepositAmount,
		BalanceAmount:  o.BalanceAmount,
		BalanceDueDate: o.BalanceDueDate,
		QuotationID:    o.QuotationID,
		Carrier:        o.Carrier,
		TrackingNumber: o.TrackingNumber,
		Status:         o.Status,
		Remark:         o.Remark,
		CheckedOutAt:   o.CheckedOutAt,
		DepositPaidAt:  o.DepositPaidAt,
		PaidAt:         o.PaidAt,
		ShippedAt:      o.ShippedAt,
		CompletedAt:    o.CompletedAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders to response DTOs
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// OrderListFilter represents filtering options for order lists
type OrderListFilter struct {
	Page     int                `form:"page"`
	PageSize int                `form:"page_size"`
	Search   string             `form:"search"`
	BuyerID  *uuid.UUID         `form:"buyer_id"`
	Kind     *trade.OrderKind   `form:"kind"`
	Status   *trade.OrderStatus `form:"status"`
	OrderBy  string             `form:"order_by"`
	OrderDir string             `form:"order_dir"`
}

// OrderStatusSummary counts a seller's orders per lifecycle state
type OrderStatusSummary struct {
	Draft          int64 `json:"draft"`
	PendingPayment int64 `json:"pending_payment"`
	DepositPaid    int64 `json:"deposit_paid"`
	BalanceDue     int64 `json:"balance_due"`
	Paid           int64 `json:"paid"`
	Shipped        int64 `json:"shipped"`
	Completed      int64 `json:"completed"`
	Cancelled      int64 `json:"cancelled"`
}

// ==================== Payment hand-off DTOs ====================

// PaymentIntentResponse carries the client-side handle for a created
// payment intent
type PaymentIntentResponse struct {
	PaymentID    uuid.UUID       `json:"payment_id"`
	IntentID     string          `json:"intent_id"`
	ClientSecret string          `json:"client_secret"`
	Phase        string          `json:"phase"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// CheckoutSessionResponse carries the hosted checkout redirect for retail orders
type CheckoutSessionResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	SessionID   string    `json:"session_id"`
	CheckoutURL string    `json:"checkout_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ComplianceViolation surfaces an MOQ shortfall to API clients
type ComplianceViolation struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Required    int64           `json:"required"`
}

func toComplianceViolations(violations []wholesale.MOQViolation) []ComplianceViolation {
	out := make([]ComplianceViolation, len(violations))
	for i, v := range violations {
		out[i] = ComplianceViolation{
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			Quantity:    v.Quantity,
			Required:    v.Required,
		}
	}
	return out
}

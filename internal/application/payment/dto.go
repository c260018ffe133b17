package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/payment"
)

// RefundRequest asks for a partial or full refund of a settled payment
type RefundRequest struct {
	// Amount refunds a partial amount when set; the full payment otherwise
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason" binding:"max=500"`
}

// RefundResponse carries the provider refund identifiers
type RefundResponse struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	RefundID  string          `json:"refund_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID            `json:"id"`
	SellerID       uuid.UUID            `json:"seller_id"`
	DocumentType   payment.DocumentType `json:"document_type"`
	DocumentID     uuid.UUID            `json:"document_id"`
	DocumentNumber string               `json:"document_number"`
	BuyerID        uuid.UUID            `json:"buyer_id"`
	Phase          payment.Phase        `json:"phase"`
	Amount         decimal.Decimal      `json:"amount"`
	Currency       string               `json:"currency"`
	Status         payment.Status       `json:"status"`
	IntentID       string               `json:"intent_id,omitempty"`
	SessionID      string               `json:"session_id,omitempty"`
	FailureReason  string               `json:"failure_reason,omitempty"`
	RefundID       string               `json:"refund_id,omitempty"`
	RefundedAmount decimal.Decimal      `json:"refunded_amount"`
	SucceededAt    *time.Time           `json:"succeeded_at,omitempty"`
	FailedAt       *time.Time           `json:"failed_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	RefundedAt     *time.Time           `json:"refunded_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ToPaymentResponse converts a Payment aggregate to a response DTO
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		SellerID:       p.SellerID,
		DocumentType:   p.DocumentType,
		DocumentID:     p.DocumentID,
		DocumentNumber: p.DocumentNumber,
		BuyerID:        p.BuyerID,
		Phase:          p.Phase,
		Amount:         p.Amount,
		Currency:       string(p.Currency),
		Status:         p.Status,
		IntentID:       p.IntentID,
		SessionID:      p.SessionID,
		FailureReason:  p.FailureReason,
		RefundID:       p.RefundID,
		RefundedAmount: p.RefundedAmount,
		SucceededAt:    p.SucceededAt,
		FailedAt:       p.FailedAt,
		CancelledAt:    p.CancelledAt,
		RefundedAt:     p.RefundedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToPaymentResponses converts a slice of payments to response DTOs
func ToPaymentResponses(payments []payment.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// PaymentListFilter represents filtering options for payment lists
type PaymentListFilter struct {
	Page     int             `form:"page"`
	PageSize int             `form:"page_size"`
	Status   *payment.Status `form:"status"`
	Phase    *payment.Phase  `form:"phase"`
	OrderBy  string          `form:"order_by"`
	OrderDir string          `form:"order_dir"`
}

package wholesale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/wholesale"
)

// ==================== Terms DTOs ====================

// UpdateTermsRequest configures the seller's wholesale rule set.
// Exactly one of DepositPercent or DepositAmount must match the split type.
type UpdateTermsRequest struct {
	SplitType           wholesale.SplitType     `json:"split_type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DepositPercent      *decimal.Decimal        `json:"deposit_percent"`
	DepositAmount       *decimal.Decimal        `json:"deposit_amount"`
	AllowedPaymentTerms []wholesale.PaymentTerm `json:"allowed_payment_terms"`
	MinOrderValue       *decimal.Decimal        `json:"min_order_value"`
	DefaultMOQ          *int64                  `json:"default_moq"`
	Active              *bool                   `json:"active"`
}

// TermsResponse represents wholesale terms in API responses
type TermsResponse struct {
	ID                  uuid.UUID               `json:"id"`
	SellerID            uuid.UUID               `json:"seller_id"`
	SplitType           wholesale.SplitType     `json:"split_type"`
	DepositPercent      decimal.Decimal         `json:"deposit_percent"`
	DepositAmount       decimal.Decimal         `json:"deposit_amount"`
	AllowedPaymentTerms []wholesale.PaymentTerm `json:"allowed_payment_terms"`
	MinOrderValue       decimal.Decimal         `json:"min_order_value"`
	DefaultMOQ          int64                   `json:"default_moq"`
	Currency            string                  `json:"currency"`
	Active              bool                    `json:"active"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// ToTermsResponse converts a Terms aggregate to a response DTO
func ToTermsResponse(t *wholesale.Terms) TermsResponse {
	return TermsResponse{
		ID:                  t.ID,
		SellerID:            t.SellerID,
		SplitType:           t.SplitType,
		DepositPercent:      t.DepositPercent,
		DepositAmount:       t.DepositAmount,
		AllowedPaymentTerms: t.AllowedPaymentTerms,
		MinOrderValue:       t.MinOrderValue,
		DefaultMOQ:          t.DefaultMOQ,
		Currency:            string(t.Currency),
		Active:              t.Active,
		UpdatedAt:           t.UpdatedAt,
	}
}

// ==================== Invitation DTOs ====================

// IssueInvitationRequest represents a request to invite a buyer to wholesale
type IssueInvitationRequest struct {
	BuyerEmail   string `json:"buyer_email" binding:"required,email"`
	Message      string `json:"message" binding:"max=2000"`
	ValidityDays int    `json:"validity_days" binding:"min=0,max=365"`
}

// AcceptInvitationRequest carries the accepting buyer's identity
type AcceptInvitationRequest struct {
	BuyerID uuid.UUID `json:"buyer_id" binding:"required"`
}

// InvitationResponse represents an invitation in API responses
type InvitationResponse struct {
	ID         uuid.UUID                  `json:"id"`
	SellerID   uuid.UUID                  `json:"seller_id"`
	BuyerEmail string                     `json:"buyer_email"`
	BuyerID    *uuid.UUID                 `json:"buyer_id,omitempty"`
	Status     wholesale.InvitationStatus `json:"status"`
	Message    string                     `json:"message,omitempty"`
	ExpiresAt  time.Time                  `json:"expires_at"`
	AcceptedAt *time.Time                 `json:"accepted_at,omitempty"`
	DeclinedAt *time.Time                 `json:"declined_at,omitempty"`
	RevokedAt  *time.Time                 `json:"revoked_at,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// IssuedInvitationResponse is returned only to the issuing seller and
// includes the acceptance token for the invitation email.
type IssuedInvitationResponse struct {
	InvitationResponse
	Token string `json:"token"`
}

// ToInvitationResponse converts an Invitation aggregate to a response DTO
func ToInvitationResponse(inv *wholesale.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:         inv.ID,
		SellerID:   inv.SellerID,
		BuyerEmail: inv.BuyerEmail,
		BuyerID:    inv.BuyerID,
		Status:     inv.Status,
		Message:    inv.Message,
		ExpiresAt:  inv.ExpiresAt,
		AcceptedAt: inv.AcceptedAt,
		DeclinedAt: inv.DeclinedAt,
		RevokedAt:  inv.RevokedAt,
		CreatedAt:  inv.CreatedAt,
	}
}

// ToInvitationResponses converts a slice of invitations to response DTOs
func ToInvitationResponses(invitations []wholesale.Invitation) []InvitationResponse {
	responses := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		responses[i] = ToInvitationResponse(&invitations[i])
	}
	return responses
}

// InvitationListFilter represents filtering options for invitation lists
type InvitationListFilter struct {
	Page     int                         `form:"page"`
	PageSize int                         `form:"page_size"`
	Status   *wholesale.InvitationStatus `form:"status"`
	Search   string                      `form:"search"`
	OrderBy  string                      `form:"order_by"`
	OrderDir string                      `form:"order_dir"`
}

package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// AddressRequest carries an address in API requests
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required,min=1,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"required,len=2"`
}

// ToAddress converts the request into an Address value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Line1, r.City, r.Country,
		valueobject.WithLine2(r.Line2),
		valueobject.WithRegion(r.Region),
		valueobject.WithPostalCode(r.PostalCode),
	)
}

// AddressResponse carries an address in API responses
type AddressResponse struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

func toAddressResponse(addr *valueobject.Address) *AddressResponse {
	if addr == nil || addr.IsEmpty() {
		return nil
	}
	return &AddressResponse{
		Line1:      addr.Line1(),
		Line2:      addr.Line2(),
		City:       addr.City(),
		Region:     addr.Region(),
		PostalCode: addr.PostalCode(),
		Country:    addr.Country(),
	}
}

// CreateBuyerRequest represents a request to register a buyer
type CreateBuyerRequest struct {
	Email           string          `json:"email" binding:"required,email"`
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	CompanyName     string          `json:"company_name" binding:"max=200"`
	Phone           string          `json:"phone" binding:"max=50"`
	TaxID           string          `json:"tax_id" binding:"max=50"`
	ShippingAddress *AddressRequest `json:"shipping_address"`
	BillingAddress  *AddressRequest `json:"billing_address"`
	Notes           string          `json:"notes"`
}

// UpdateBuyerRequest represents a request to update a buyer
type UpdateBuyerRequest struct {
	Name            *string         `json:"name"`
	CompanyName     *string         `json:"company_name"`
	Email           *string         `json:"email" binding:"omitempty,email"`
	Phone           *string         `json:"phone"`
	TaxID           *string         `json:"tax_id"`
	ShippingAddress *AddressRequest `json:"shipping_address"`
	BillingAddress  *AddressRequest `json:"billing_address"`
	Notes           *string         `json:"notes"`
	Attributes      *string         `json:"attributes"`
}

// SuspendWholesaleRequest carries the reason for suspending wholesale access
type SuspendWholesaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// BlockBuyerRequest carries the reason for blocking a buyer
type BlockBuyerRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// BuyerResponse represents a buyer in API responses
type BuyerResponse struct {
	ID              uuid.UUID               `json:"id"`
	SellerID        uuid.UUID               `json:"seller_id"`
	Email           string                  `json:"email"`
	Name            string                  `json:"name"`
	CompanyName     string                  `json:"company_name,omitempty"`
	Phone           string                  `json:"phone,omitempty"`
	TaxID           string                  `json:"tax_id,omitempty"`
	Status          partner.BuyerStatus     `json:"status"`
	WholesaleStatus partner.WholesaleStatus `json:"wholesale_status"`
	WholesaleSince  *time.Time              `json:"wholesale_since,omitempty"`
	UserID          *uuid.UUID              `json:"user_id,omitempty"`
	Business        bool                    `json:"business"`
	ShippingAddress *AddressResponse        `json:"shipping_address,omitempty"`
	BillingAddress  *AddressResponse        `json:"billing_address,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToBuyerResponse converts a Buyer aggregate to a response DTO
func ToBuyerResponse(b *partner.Buyer) BuyerResponse {
	return BuyerResponse{
		ID:              b.ID,
		SellerID:        b.SellerID,
		Email:           b.Email,
		Name:            b.Name,
		CompanyName:     b.CompanyName,
		Phone:           b.Phone,
		TaxID:           b.TaxID,
		Status:          b.Status,
		WholesaleStatus: b.WholesaleStatus,
		WholesaleSince:  b.WholesaleSince,
		UserID:          b.UserID,
		Business:        b.IsBusiness(),
		ShippingAddress: toAddressResponse(b.ShippingAddress),
		BillingAddress:  toAddressResponse(b.BillingAddress),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToBuyerResponses converts a slice of buyers to response DTOs
func ToBuyerResponses(buyers []partner.Buyer) []BuyerResponse {
	responses := make([]BuyerResponse, len(buyers))
	for i := range buyers {
		responses[i] = ToBuyerResponse(&buyers[i])
	}
	return responses
}

// BuyerListFilter represents filtering options for buyer lists
type BuyerListFilter struct {
	Page            int                      `form:"page"`
	PageSize        int                      `form:"page_size"`
	Search          string                   `form:"search"`
	Status          *partner.BuyerStatus     `form:"status"`
	WholesaleStatus *partner.WholesaleStatus `form:"wholesale_status"`
	WholesaleOnly   bool                     `form:"wholesale_only"`
	OrderBy         string                   `form:"order_by"`
	OrderDir        string                   `form:"order_dir"`
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
// Sort fields are interpolated into ORDER BY clauses, so anything outside the
// whitelist is rejected rather than escaped.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// SellerSortFields contains allowed sort fields for sellers
var SellerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"slug":       true,
	"name":       true,
	"status":     true,
	"country":    true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"sku":             true,
	"name":            true,
	"category_id":     true,
	"status":          true,
	"retail_price":    true,
	"wholesale_price": true,
	"moq":             true,
	"stock_quantity":  true,
	"min_stock":       true,
	"sort_order":      true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"slug":       true,
	"name":       true,
	"parent_id":  true,
	"level":      true,
	"sort_order": true,
	"status":     true,
}

// BuyerSortFields contains allowed sort fields for buyers
var BuyerSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"email":            true,
	"name":             true,
	"company_name":     true,
	"status":           true,
	"wholesale_status": true,
	"wholesale_since":  true,
}

// InvitationSortFields contains allowed sort fields for wholesale invitations
var InvitationSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"buyer_email": true,
	"status":      true,
	"expires_at":  true,
}

// QuotationSortFields contains allowed sort fields for trade quotations
var QuotationSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"quotation_number": true,
	"buyer_name":       true,
	"status":           true,
	"total_amount":     true,
	"deposit_amount":   true,
	"balance_amount":   true,
	"valid_until":      true,
	"sent_at":          true,
	"accepted_at":      true,
}

// OrderSortFields contains allowed sort fields for trade orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"kind":         true,
	"buyer_name":   true,
	"status":       true,
	"total_amount": true,
	"shipped_at":   true,
	"paid_at":      true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"document_type":   true,
	"document_number": true,
	"phase":           true,
	"amount":          true,
	"status":          true,
	"succeeded_at":    true,
}

package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrCurrencyMismatch    = NewDomainError("CURRENCY_MISMATCH", "Amounts are in different currencies")
	ErrInvalidCurrency     = NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	ErrMOQNotMet           = NewDomainError("MOQ_NOT_MET", "Minimum order quantity not met")
	ErrBelowMinOrderValue  = NewDomainError("BELOW_MIN_ORDER_VALUE", "Order total is below the minimum order value")

	ErrPaymentTermNotAllowed = NewDomainError("PAYMENT_TERM_NOT_ALLOWED", "Payment term is not allowed by the seller")
)

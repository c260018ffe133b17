package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByIDForSeller finds a quotation by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Quotation, error)

	// FindByNumber finds a quotation by quotation number for a seller
	FindByNumber(ctx context.Context, sellerID uuid.UUID, quotationNumber string) (*Quotation, error)

	// FindByViewToken finds a quotation by its public view token.
	// Not seller scoped: buyers reach quotations through the token alone.
	FindByViewToken(ctx context.Context, token string) (*Quotation, error)

	// FindAllForSeller finds all quotations for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByBuyer finds quotations for a buyer
	FindByBuyer(ctx context.Context, sellerID, buyerID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByStatus finds quotations by status for a seller
	FindByStatus(ctx context.Context, sellerID uuid.UUID, status QuotationStatus, filter shared.Filter) ([]Quotation, error)

	// FindExpiredOpen finds SENT/VIEWED quotations whose validity passed
	// before the cutoff. Used by the expiry sweep.
	FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]Quotation, error)

	// Save creates or updates a quotation
	Save(ctx context.Context, quotation *Quotation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, quotation *Quotation) error

	// DeleteForSeller deletes a quotation for a seller (soft delete)
	DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error

	// CountForSeller counts quotations for a seller with optional filters
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts quotations by status for a seller
	CountByStatus(ctx context.Context, sellerID uuid.UUID, status QuotationStatus) (int64, error)

	// ExistsByNumber checks if a quotation number exists for a seller
	ExistsByNumber(ctx context.Context, sellerID uuid.UUID, quotationNumber string) (bool, error)

	// GenerateQuotationNumber generates the next QT-YYYY-NNNNN number for a seller
	GenerateQuotationNumber(ctx context.Context, sellerID uuid.UUID) (string, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForSeller finds an order by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by order number for a seller
	FindByNumber(ctx context.Context, sellerID uuid.UUID, orderNumber string) (*Order, error)

	// FindByQuotation finds the order created from a quotation, if any
	FindByQuotation(ctx context.Context, sellerID, quotationID uuid.UUID) (*Order, error)

	// FindAllForSeller finds all orders for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByBuyer finds orders for a buyer
	FindByBuyer(ctx context.Context, sellerID, buyerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by status for a seller
	FindByStatus(ctx context.Context, sellerID uuid.UUID, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// DeleteForSeller deletes an order for a seller (soft delete)
	DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error

	// CountForSeller counts orders for a seller with optional filters
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts orders by status for a seller
	CountByStatus(ctx context.Context, sellerID uuid.UUID, status OrderStatus) (int64, error)

	// CountIncompleteByBuyer counts orders for a buyer that are not yet
	// COMPLETED or CANCELLED. Used for validation before buyer removal.
	CountIncompleteByBuyer(ctx context.Context, sellerID, buyerID uuid.UUID) (int64, error)

	// ExistsByNumber checks if an order number exists for a seller
	ExistsByNumber(ctx context.Context, sellerID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber generates the next ORD-YYYY-NNNNN number for a seller
	GenerateOrderNumber(ctx context.Context, sellerID uuid.UUID) (string, error)
}

package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// BuyerRepository defines the interface for buyer persistence
type BuyerRepository interface {
	// FindByID finds a buyer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Buyer, error)

	// FindByIDForSeller finds a buyer by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Buyer, error)

	// FindByEmail finds a buyer by email for a seller
	FindByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*Buyer, error)

	// FindByUser finds the buyer record linked to an identity account for a seller
	FindByUser(ctx context.Context, sellerID, userID uuid.UUID) (*Buyer, error)

	// FindAllForSeller finds all buyers for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Buyer, error)

	// FindWholesaleApproved finds buyers with active wholesale access
	FindWholesaleApproved(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Buyer, error)

	// Save creates or updates a buyer
	Save(ctx context.Context, buyer *Buyer) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, buyer *Buyer) error

	// DeleteForSeller deletes a buyer for a seller (soft delete)
	DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error

	// CountForSeller counts buyers for a seller with optional filters
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if an email exists for a seller
	ExistsByEmail(ctx context.Context, sellerID uuid.UUID, email string) (bool, error)
}

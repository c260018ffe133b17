package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForSeller finds a product by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Product, error)

	// FindByIDs finds products by a set of IDs for a seller
	FindByIDs(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindBySKU finds a product by SKU for a seller
	FindBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*Product, error)

	// FindAllForSeller finds all products for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByCategory finds products in a category
	FindByCategory(ctx context.Context, sellerID, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindWholesaleOffered finds active products carrying a wholesale price
	FindWholesaleOffered(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, product *Product) error

	// DeleteForSeller deletes a product for a seller (soft delete)
	DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error

	// CountForSeller counts products for a seller with optional filters
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByCategory counts products in a category
	CountByCategory(ctx context.Context, sellerID, categoryID uuid.UUID) (int64, error)

	// ExistsBySKU checks if a SKU exists for a seller
	ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (bool, error)
}

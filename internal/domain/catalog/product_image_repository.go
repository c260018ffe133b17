package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductImageRepository defines the interface for product image persistence
type ProductImageRepository interface {
	// FindByID finds an image by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)

	// FindByIDForSeller finds an image by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*ProductImage, error)

	// FindByProduct finds all non-deleted images for a product ordered by sort order
	FindByProduct(ctx context.Context, sellerID, productID uuid.UUID) ([]ProductImage, error)

	// FindPrimaryByProduct finds the primary image for a product, if any
	FindPrimaryByProduct(ctx context.Context, sellerID, productID uuid.UUID) (*ProductImage, error)

	// FindStalePending finds pending images created before the cutoff.
	// Used by the cleanup sweep to reap abandoned uploads.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]ProductImage, error)

	// Save creates or updates an image
	Save(ctx context.Context, image *ProductImage) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, image *ProductImage) error

	// Delete hard-deletes an image record
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByProduct counts non-deleted images for a product
	CountByProduct(ctx context.Context, sellerID, productID uuid.UUID) (int64, error)
}

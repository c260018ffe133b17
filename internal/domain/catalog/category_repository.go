package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForSeller finds a category by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by slug for a seller
	FindBySlug(ctx context.Context, sellerID uuid.UUID, slug string) (*Category, error)

	// FindAllForSeller finds all categories for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Category, error)

	// FindChildren finds the direct children of a category
	FindChildren(ctx context.Context, sellerID, parentID uuid.UUID) ([]Category, error)

	// FindRoots finds the root categories for a seller
	FindRoots(ctx context.Context, sellerID uuid.UUID) ([]Category, error)

	// FindDescendants finds all descendants of a category using its path
	FindDescendants(ctx context.Context, sellerID uuid.UUID, path string) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, category *Category) error

	// DeleteForSeller deletes a category for a seller (soft delete)
	DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error

	// ExistsBySlug checks if a slug exists for a seller
	ExistsBySlug(ctx context.Context, sellerID uuid.UUID, slug string) (bool, error)

	// HasChildren checks if a category has child categories
	HasChildren(ctx context.Context, sellerID, id uuid.UUID) (bool, error)
}

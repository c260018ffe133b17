package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// SellerRepository defines the interface for seller persistence
type SellerRepository interface {
	// FindByID finds a seller by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)

	// FindBySlug finds a seller by its storefront slug
	FindBySlug(ctx context.Context, slug string) (*Seller, error)

	// FindAll finds all sellers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Seller, error)

	// Save creates or updates a seller
	Save(ctx context.Context, seller *Seller) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, seller *Seller) error

	// Count counts sellers with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForSeller finds a user by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email within a seller storefront
	FindByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*User, error)

	// FindAllForSeller finds all users for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]User, error)

	// FindByRole finds users with the given role for a seller
	FindByRole(ctx context.Context, sellerID uuid.UUID, role Role, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, user *User) error

	// DeleteForSeller deletes a user for a seller (soft delete)
	DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error

	// CountForSeller counts users for a seller with optional filters
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if an email is taken within a seller storefront
	ExistsByEmail(ctx context.Context, sellerID uuid.UUID, email string) (bool, error)
}

// TokenBlacklist revokes issued JWTs before their natural expiry.
// Logout blacklists the token's JTI until the token would have expired.
type TokenBlacklist interface {
	// Revoke records a token ID until its expiry
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token ID has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

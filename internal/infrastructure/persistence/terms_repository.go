package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// GormTermsRepository implements TermsRepository using GORM.
// Wholesale terms are one-per-seller, so every lookup goes by seller ID.
type GormTermsRepository struct {
	db *gorm.DB
}

// NewGormTermsRepository creates a new GormTermsRepository
func NewGormTermsRepository(db *gorm.DB) *GormTermsRepository {
	return &GormTermsRepository{db: db}
}

// FindBySeller finds the wholesale terms configured by a seller
func (r *GormTermsRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) (*wholesale.Terms, error) {
	var terms wholesale.Terms
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		First(&terms).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &terms, nil
}

// Save creates or updates wholesale terms
func (r *GormTermsRepository) Save(ctx context.Context, terms *wholesale.Terms) error {
	return r.db.WithContext(ctx).Save(terms).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormTermsRepository) SaveWithLock(ctx context.Context, terms *wholesale.Terms) error {
	currentVersion := terms.Version
	terms.IncrementVersion()
	terms.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&wholesale.Terms{}).
		Where("id = ? AND version = ?", terms.ID, currentVersion).
		Select("*").Omit("created_at").
		Updates(terms)

	if result.Error != nil {
		terms.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		terms.Version = currentVersion
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The wholesale terms have been modified by another user")
	}
	return nil
}

// Delete removes a seller's wholesale terms
func (r *GormTermsRepository) Delete(ctx context.Context, sellerID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&wholesale.Terms{}, "seller_id = ?", sellerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTermsRepository implements TermsRepository
var _ wholesale.TermsRepository = (*GormTermsRepository)(nil)

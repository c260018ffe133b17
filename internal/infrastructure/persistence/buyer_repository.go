package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
)

// GormBuyerRepository implements BuyerRepository using GORM
type GormBuyerRepository struct {
	db *gorm.DB
}

// NewGormBuyerRepository creates a new GormBuyerRepository
func NewGormBuyerRepository(db *gorm.DB) *GormBuyerRepository {
	return &GormBuyerRepository{db: db}
}

// FindByID finds a buyer by its ID
func (r *GormBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &buyer, nil
}

// FindByIDForSeller finds a buyer by ID within a seller storefront
func (r *GormBuyerRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND id = ?", sellerID, id).
		First(&buyer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &buyer, nil
}

// FindByEmail finds a buyer by email within a seller storefront
func (r *GormBuyerRepository) FindByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND email = ?", sellerID, strings.ToLower(email)).
		First(&buyer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &buyer, nil
}

// FindByUser finds the buyer record linked to an identity account
func (r *GormBuyerRepository) FindByUser(ctx context.Context, sellerID, userID uuid.UUID) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND user_id = ?", sellerID, userID).
		First(&buyer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &buyer, nil
}

// FindAllForSeller finds all buyers for a seller
func (r *GormBuyerRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]partner.Buyer, error) {
	var buyers []partner.Buyer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Buyer{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

// FindWholesaleApproved finds buyers with active wholesale access
func (r *GormBuyerRepository) FindWholesaleApproved(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]partner.Buyer, error) {
	var buyers []partner.Buyer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Buyer{}).
			Where("seller_id = ? AND wholesale_status = ?", sellerID, partner.WholesaleStatusApproved),
		filter,
	)

	if err := query.Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

// Save creates or updates a buyer
func (r *GormBuyerRepository) Save(ctx context.Context, buyer *partner.Buyer) error {
	return r.db.WithContext(ctx).Save(buyer).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormBuyerRepository) SaveWithLock(ctx context.Context, buyer *partner.Buyer) error {
	currentVersion := buyer.Version
	buyer.IncrementVersion()
	buyer.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&partner.Buyer{}).
		Where("id = ? AND version = ?", buyer.ID, currentVersion).
		Select("*").Omit("created_at").
		Updates(buyer)

	if result.Error != nil {
		buyer.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		buyer.Version = currentVersion
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The buyer has been modified by another user")
	}
	return nil
}

// DeleteForSeller deletes a buyer within a seller storefront
func (r *GormBuyerRepository) DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Buyer{}, "seller_id = ? AND id = ?", sellerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForSeller counts buyers for a seller
func (r *GormBuyerRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&partner.Buyer{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a buyer with the given email exists in the storefront
func (r *GormBuyerRepository) ExistsByEmail(ctx context.Context, sellerID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Buyer{}).
		Where("seller_id = ? AND email = ?", sellerID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormBuyerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, BuyerSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBuyerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR company_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "wholesale_status":
			query = query.Where("wholesale_status = ?", value)
		case "has_account":
			if value == true {
				query = query.Where("user_id IS NOT NULL")
			} else {
				query = query.Where("user_id IS NULL")
			}
		}
	}

	return query
}

// Ensure GormBuyerRepository implements BuyerRepository
var _ partner.BuyerRepository = (*GormBuyerRepository)(nil)

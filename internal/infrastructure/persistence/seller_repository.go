package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

// GormSellerRepository implements SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by its ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Seller, error) {
	var seller identity.Seller
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindBySlug finds a seller by its storefront slug
func (r *GormSellerRepository) FindBySlug(ctx context.Context, slug string) (*identity.Seller, error) {
	var seller identity.Seller
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindAll finds all sellers matching the filter
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Seller, error) {
	var sellers []identity.Seller
	query := r.applyFilter(r.db.WithContext(ctx).Model(&identity.Seller{}), filter)

	if err := query.Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Save creates or updates a seller
func (r *GormSellerRepository) Save(ctx context.Context, seller *identity.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSellerRepository) SaveWithLock(ctx context.Context, seller *identity.Seller) error {
	currentVersion := seller.Version
	seller.IncrementVersion()
	seller.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&identity.Seller{}).
		Where("id = ? AND version = ?", seller.ID, currentVersion).
		Select("*").Omit("created_at").
		Updates(seller)

	if result.Error != nil {
		seller.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		seller.Version = currentVersion
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The seller has been modified by another user")
	}
	return nil
}

// Count counts sellers matching the filter
func (r *GormSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&identity.Seller{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a seller with the given slug exists
func (r *GormSellerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Seller{}).
		Where("slug = ?", strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormSellerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, SellerSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSellerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		}
	}

	return query
}

// Ensure GormSellerRepository implements SellerRepository
var _ identity.SellerRepository = (*GormSellerRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// GormProductImageRepository implements ProductImageRepository using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByIDForSeller finds an image by ID within a seller storefront
func (r *GormProductImageRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND id = ?", sellerID, id).
		First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByProduct finds all non-deleted images for a product
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, sellerID, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND product_id = ? AND status != ?", sellerID, productID, catalog.ImageStatusDeleted).
		Order("sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindPrimaryByProduct finds the primary image for a product, if any
func (r *GormProductImageRepository) FindPrimaryByProduct(ctx context.Context, sellerID, productID uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND product_id = ? AND \"primary\" = true AND status = ?",
			sellerID, productID, catalog.ImageStatusActive).
		First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindStalePending finds pending images created before the cutoff
func (r *GormProductImageRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", catalog.ImageStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Save creates or updates an image
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormProductImageRepository) SaveWithLock(ctx context.Context, image *catalog.ProductImage) error {
	currentVersion := image.Version
	image.IncrementVersion()
	image.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&catalog.ProductImage{}).
		Where("id = ? AND version = ?", image.ID, currentVersion).
		Select("*").Omit("created_at").
		Updates(image)

	if result.Error != nil {
		image.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		image.Version = currentVersion
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The image has been modified by another user")
	}
	return nil
}

// Delete hard-deletes an image record
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByProduct counts non-deleted images for a product
func (r *GormProductImageRepository) CountByProduct(ctx context.Context, sellerID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductImage{}).
		Where("seller_id = ? AND product_id = ? AND status != ?", sellerID, productID, catalog.ImageStatusDeleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormProductImageRepository implements ProductImageRepository
var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)

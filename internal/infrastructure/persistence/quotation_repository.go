package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByIDForSeller finds a quotation by ID within a seller storefront
func (r *GormQuotationRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("seller_id = ? AND id = ?", sellerID, id).
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByNumber finds a quotation by quotation number for a seller
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, sellerID uuid.UUID, quotationNumber string) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("seller_id = ? AND quotation_number = ?", sellerID, quotationNumber).
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByViewToken finds a quotation by its public view token
func (r *GormQuotationRepository) FindByViewToken(ctx context.Context, token string) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("view_token = ?", token).
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindAllForSeller finds all quotations for a seller
func (r *GormQuotationRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Quotation{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByBuyer finds quotations for a buyer
func (r *GormQuotationRepository) FindByBuyer(ctx context.Context, sellerID, buyerID uuid.UUID, filter shared.Filter) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Quotation{}).
			Where("seller_id = ? AND buyer_id = ?", sellerID, buyerID),
		filter,
	)

	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByStatus finds quotations by status for a seller
func (r *GormQuotationRepository) FindByStatus(ctx context.Context, sellerID uuid.UUID, status trade.QuotationStatus, filter shared.Filter) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Quotation{}).
			Where("seller_id = ? AND status = ?", sellerID, status),
		filter,
	)

	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindExpiredOpen finds SENT/VIEWED quotations whose validity passed before the cutoff
func (r *GormQuotationRepository) FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ? AND valid_until < ?",
			[]trade.QuotationStatus{trade.QuotationStatusSent, trade.QuotationStatusViewed}, cutoff).
		Order("valid_until ASC").
		Limit(limit).
		Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// Save creates or updates a quotation
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *trade.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quotation).Error; err != nil {
			return err
		}
		return r.saveItems(tx, quotation)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *trade.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := quotation.Version
		quotation.IncrementVersion()
		quotation.UpdatedAt = time.Now()

		result := tx.Model(&trade.Quotation{}).
			Where("id = ? AND version = ?", quotation.ID, currentVersion).
			Select("*").Omit("created_at", "Items").
			Updates(quotation)

		if result.Error != nil {
			quotation.Version = currentVersion
			return result.Error
		}
		if result.RowsAffected == 0 {
			quotation.Version = currentVersion
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The quotation has been modified by another user")
		}

		return r.saveItems(tx, quotation)
	})
}

// saveItems reconciles the quotation's line items: removed items are
// deleted, current ones saved.
func (r *GormQuotationRepository) saveItems(tx *gorm.DB, quotation *trade.Quotation) error {
	currentItemIDs := make([]uuid.UUID, len(quotation.Items))
	for i, item := range quotation.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("quotation_id = ? AND id NOT IN ?", quotation.ID, currentItemIDs).
			Delete(&trade.QuotationItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("quotation_id = ?", quotation.ID).
			Delete(&trade.QuotationItem{}).Error; err != nil {
			return err
		}
	}

	for i := range quotation.Items {
		quotation.Items[i].QuotationID = quotation.ID
		if err := tx.Save(&quotation.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// DeleteForSeller deletes a quotation within a seller storefront
func (r *GormQuotationRepository) DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", id).Delete(&trade.QuotationItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Quotation{}, "seller_id = ? AND id = ?", sellerID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForSeller counts quotations for a seller
func (r *GormQuotationRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&trade.Quotation{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts quotations by status for a seller
func (r *GormQuotationRepository) CountByStatus(ctx context.Context, sellerID uuid.UUID, status trade.QuotationStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Quotation{}).
		Where("seller_id = ? AND status = ?", sellerID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if a quotation number exists for a seller
func (r *GormQuotationRepository) ExistsByNumber(ctx context.Context, sellerID uuid.UUID, quotationNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Quotation{}).
		Where("seller_id = ? AND quotation_number = ?", sellerID, quotationNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateQuotationNumber generates a unique quotation number for a seller
// Format: QT-YYYY-NNNNN (e.g., QT-2026-00001)
func (r *GormQuotationRepository) GenerateQuotationNumber(ctx context.Context, sellerID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("QT-%d-", year)

	// Get the highest quotation number for this year
	var lastQuotation trade.Quotation
	err := r.db.WithContext(ctx).
		Model(&trade.Quotation{}).
		Where("seller_id = ? AND quotation_number LIKE ?", sellerID, prefix+"%").
		Order("quotation_number DESC").
		First(&lastQuotation).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastQuotation.QuotationNumber != "" {
		parts := strings.Split(lastQuotation.QuotationNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	quotationNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness
	exists, err := r.ExistsByNumber(ctx, sellerID, quotationNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			quotationNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByNumber(ctx, sellerID, quotationNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return quotationNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuotationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("quotation_number ILIKE ? OR buyer_name ILIKE ? OR buyer_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		case "incoterm":
			query = query.Where("incoterm = ?", value)
		case "valid_before":
			query = query.Where("valid_until < ?", value)
		case "valid_after":
			query = query.Where("valid_until >= ?", value)
		}
	}

	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ trade.QuotationRepository = (*GormQuotationRepository)(nil)

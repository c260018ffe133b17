package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var pmt payment.Payment
	if err := r.db.WithContext(ctx).First(&pmt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pmt, nil
}

// FindByIDForSeller finds a payment by ID within a seller storefront
func (r *GormPaymentRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*payment.Payment, error) {
	var pmt payment.Payment
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND id = ?", sellerID, id).
		First(&pmt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pmt, nil
}

// FindByIntentID finds a payment by its provider PaymentIntent ID
func (r *GormPaymentRepository) FindByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	var pmt payment.Payment
	if err := r.db.WithContext(ctx).
		Where("intent_id = ?", intentID).
		First(&pmt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pmt, nil
}

// FindBySessionID finds a payment by its provider Checkout Session ID
func (r *GormPaymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*payment.Payment, error) {
	var pmt payment.Payment
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&pmt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pmt, nil
}

// FindByDocument finds all payments recorded against a document
func (r *GormPaymentRepository) FindByDocument(ctx context.Context, sellerID uuid.UUID, docType payment.DocumentType, docID uuid.UUID) ([]payment.Payment, error) {
	var payments []payment.Payment
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND document_type = ? AND document_id = ?", sellerID, docType, docID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindPendingByDocument finds pending payments for a document and phase
func (r *GormPaymentRepository) FindPendingByDocument(ctx context.Context, sellerID uuid.UUID, docType payment.DocumentType, docID uuid.UUID, phase payment.Phase) ([]payment.Payment, error) {
	var payments []payment.Payment
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND document_type = ? AND document_id = ? AND phase = ? AND status = ?",
			sellerID, docType, docID, phase, payment.StatusPending).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAllForSeller finds all payments for a seller
func (r *GormPaymentRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.Payment, error) {
	var payments []payment.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&payment.Payment{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindStalePending finds pending payments created before the cutoff
func (r *GormPaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]payment.Payment, error) {
	var payments []payment.Payment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", payment.StatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, pmt *payment.Payment) error {
	return r.db.WithContext(ctx).Save(pmt).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, pmt *payment.Payment) error {
	currentVersion := pmt.Version
	pmt.IncrementVersion()
	pmt.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("id = ? AND version = ?", pmt.ID, currentVersion).
		Select("*").Omit("created_at").
		Updates(pmt)

	if result.Error != nil {
		pmt.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		pmt.Version = currentVersion
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another transaction")
	}
	return nil
}

// CountForSeller counts payments for a seller
func (r *GormPaymentRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&payment.Payment{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("document_number ILIKE ? OR intent_id ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "phase":
			query = query.Where("phase = ?", value)
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "document_id":
			query = query.Where("document_id = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		}
	}

	return query
}

// Ensure GormPaymentRepository implements payment.Repository
var _ payment.Repository = (*GormPaymentRepository)(nil)

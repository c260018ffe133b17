package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// GormInvitationRepository implements InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByID finds an invitation by its ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*wholesale.Invitation, error) {
	var invitation wholesale.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindByIDForSeller finds an invitation by ID within a seller storefront
func (r *GormInvitationRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*wholesale.Invitation, error) {
	var invitation wholesale.Invitation
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND id = ?", sellerID, id).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its acceptance token.
// Not seller scoped: buyers reach invitations through the token alone.
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*wholesale.Invitation, error) {
	var invitation wholesale.Invitation
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindAllForSeller finds all invitations for a seller
func (r *GormInvitationRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]wholesale.Invitation, error) {
	var invitations []wholesale.Invitation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&wholesale.Invitation{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// FindPendingByEmail finds the pending invitation for a buyer email, if any
func (r *GormInvitationRepository) FindPendingByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*wholesale.Invitation, error) {
	var invitation wholesale.Invitation
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND buyer_email = ? AND status = ?",
			sellerID, strings.ToLower(email), wholesale.InvitationStatusPending).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindExpiredPending finds pending invitations whose expiry passed before the cutoff
func (r *GormInvitationRepository) FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]wholesale.Invitation, error) {
	var invitations []wholesale.Invitation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", wholesale.InvitationStatusPending, before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// CountForSeller counts invitations for a seller
func (r *GormInvitationRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&wholesale.Invitation{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invitation
func (r *GormInvitationRepository) Save(ctx context.Context, invitation *wholesale.Invitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInvitationRepository) SaveWithLock(ctx context.Context, invitation *wholesale.Invitation) error {
	currentVersion := invitation.Version
	invitation.IncrementVersion()
	invitation.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&wholesale.Invitation{}).
		Where("id = ? AND version = ?", invitation.ID, currentVersion).
		Select("*").Omit("created_at").
		Updates(invitation)

	if result.Error != nil {
		invitation.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		invitation.Version = currentVersion
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invitation has been modified by another user")
	}
	return nil
}

// Delete removes an invitation record
func (r *GormInvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&wholesale.Invitation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormInvitationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, InvitationSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInvitationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("buyer_email ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		}
	}

	return query
}

// Ensure GormInvitationRepository implements InvitationRepository
var _ wholesale.InvitationRepository = (*GormInvitationRepository)(nil)

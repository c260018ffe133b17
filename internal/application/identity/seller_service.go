package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// SellerService manages seller storefronts and their onboarding
type SellerService struct {
	sellerRepo identity.SellerRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewSellerService creates a new seller service
func NewSellerService(
	sellerRepo identity.SellerRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *SellerService {
	return &SellerService{
		sellerRepo: sellerRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Register opens a new storefront together with its first admin account
func (s *SellerService) Register(ctx context.Context, req RegisterSellerRequest) (*RegisterSellerResult, error) {
	taken, err := s.sellerRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLUG_TAKEN", "This storefront slug is already in use")
	}

	seller, err := identity.NewSeller(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Country != "" {
		if err := seller.SetCountry(req.Country); err != nil {
			return nil, err
		}
	}

	admin, err := identity.NewUser(seller.ID, req.AdminEmail, req.AdminPassword, identity.RoleSellerAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Storefront registered",
		zap.String("seller_id", seller.ID.String()),
		zap.String("slug", seller.Slug))

	return &RegisterSellerResult{
		Seller: ToSellerResponse(seller),
		Admin:  ToUserInfo(admin),
	}, nil
}

// GetByID retrieves a seller by ID
func (s *SellerService) GetByID(ctx context.Context, sellerID uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// GetBySlug retrieves a seller by its storefront slug
func (s *SellerService) GetBySlug(ctx context.Context, slug string) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// List retrieves sellers with pagination
func (s *SellerService) List(ctx context.Context, page, pageSize int) ([]SellerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	sellers, err := s.sellerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sellerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToSellerResponses(sellers), total, nil
}

// Update updates a storefront's profile
func (s *SellerService) Update(ctx context.Context, sellerID uuid.UUID, req UpdateSellerRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := seller.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.ContactPhone != nil || req.ContactEmail != nil {
		contactName := seller.ContactName
		contactPhone := seller.ContactPhone
		contactEmail := seller.ContactEmail
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			contactPhone = *req.ContactPhone
		}
		if req.ContactEmail != nil {
			contactEmail = *req.ContactEmail
		}
		if err := seller.SetContact(contactName, contactPhone, contactEmail); err != nil {
			return nil, err
		}
	}
	if req.Country != nil {
		if err := seller.SetCountry(*req.Country); err != nil {
			return nil, err
		}
	}
	if req.LogoURL != nil {
		if err := seller.SetLogoURL(*req.LogoURL); err != nil {
			return nil, err
		}
	}

	if err := s.sellerRepo.SaveWithLock(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// UpdateConfig updates a storefront's settings
func (s *SellerService) UpdateConfig(ctx context.Context, sellerID uuid.UUID, req UpdateSellerConfigRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	config := identity.SellerConfig{
		Currency: valueobject.Currency(req.Currency),
		Timezone: req.Timezone,
		Locale:   req.Locale,
		Settings: req.Settings,
	}
	if config.Locale == "" {
		config.Locale = seller.Config.Locale
	}
	if config.Settings == "" {
		config.Settings = seller.Config.Settings
	}

	if err := seller.UpdateConfig(config); err != nil {
		return nil, err
	}

	if err := s.sellerRepo.SaveWithLock(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// Activate activates a storefront
func (s *SellerService) Activate(ctx context.Context, sellerID uuid.UUID) (*SellerResponse, error) {
	return s.transition(ctx, sellerID, (*identity.Seller).Activate)
}

// Deactivate deactivates a storefront
func (s *SellerService) Deactivate(ctx context.Context, sellerID uuid.UUID) (*SellerResponse, error) {
	return s.transition(ctx, sellerID, (*identity.Seller).Deactivate)
}

// Suspend suspends a storefront for policy violations
func (s *SellerService) Suspend(ctx context.Context, sellerID uuid.UUID) (*SellerResponse, error) {
	return s.transition(ctx, sellerID, (*identity.Seller).Suspend)
}

func (s *SellerService) transition(ctx context.Context, sellerID uuid.UUID, op func(*identity.Seller) error) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if err := op(seller); err != nil {
		return nil, err
	}

	if err := s.sellerRepo.SaveWithLock(ctx, seller); err != nil {
		return nil, err
	}

	s.logger.Info("Storefront status changed",
		zap.String("seller_id", sellerID.String()),
		zap.String("status", string(seller.Status)))

	response := ToSellerResponse(seller)
	return &response, nil
}

package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

// UserService manages staff accounts on a storefront. Buyer accounts are
// created through registration, not here.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create creates a staff account on the storefront
func (s *UserService) Create(ctx context.Context, sellerID uuid.UUID, req CreateUserRequest) (*UserInfo, error) {
	role := identity.Role(req.Role)
	if !role.IsSellerSide() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Staff role must be SELLER_ADMIN or SELLER_STAFF")
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, sellerID, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(sellerID, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.String("role", user.Role.String()))

	info := ToUserInfo(user)
	return &info, nil
}

// GetByID retrieves a user by ID for a seller
func (s *UserService) GetByID(ctx context.Context, sellerID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForSeller(ctx, sellerID, userID)
	if err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// List retrieves users for a seller with filtering and pagination
func (s *UserService) List(ctx context.Context, sellerID uuid.UUID, filter UserListFilter) ([]UserInfo, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	var (
		users []identity.User
		err   error
	)
	if filter.Role != nil {
		users, err = s.userRepo.FindByRole(ctx, sellerID, *filter.Role, domainFilter)
		domainFilter.Filters["role"] = string(*filter.Role)
	} else {
		users, err = s.userRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserInfos(users), total, nil
}

// Update updates a staff account's display name or role
func (s *UserService) Update(ctx context.Context, sellerID, userID uuid.UUID, req UpdateUserRequest) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForSeller(ctx, sellerID, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.ChangeRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// ResetPassword sets a new password without the current one (admin reset).
// The user's outstanding refresh tokens are invalidated.
func (s *UserService) ResetPassword(ctx context.Context, sellerID, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForSeller(ctx, sellerID, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Password reset by admin", zap.String("user_id", userID.String()))
	return nil
}

// Activate re-activates a deactivated or locked user
func (s *UserService) Activate(ctx context.Context, sellerID, userID uuid.UUID) (*UserInfo, error) {
	return s.transition(ctx, sellerID, userID, (*identity.User).Activate)
}

// Deactivate deactivates a user account
func (s *UserService) Deactivate(ctx context.Context, sellerID, userID uuid.UUID) (*UserInfo, error) {
	return s.transition(ctx, sellerID, userID, (*identity.User).Deactivate)
}

// Unlock clears a login-failure lock before it expires on its own
func (s *UserService) Unlock(ctx context.Context, sellerID, userID uuid.UUID) (*UserInfo, error) {
	return s.transition(ctx, sellerID, userID, (*identity.User).Unlock)
}

// Delete soft-deletes a user account
func (s *UserService) Delete(ctx context.Context, sellerID, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByIDForSeller(ctx, sellerID, userID); err != nil {
		return err
	}
	return s.userRepo.DeleteForSeller(ctx, sellerID, userID)
}

func (s *UserService) transition(ctx context.Context, sellerID, userID uuid.UUID, op func(*identity.User) error) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForSeller(ctx, sellerID, userID)
	if err != nil {
		return nil, err
	}

	if err := op(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

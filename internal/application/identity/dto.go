package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	SellerID uuid.UUID
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned to clients
type UserInfo struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Email       string
	DisplayName string
	Role        identity.Role
	Status      identity.UserStatus
	LastLoginAt *time.Time
}

// RegisterInput contains the input for account registration
type RegisterInput struct {
	SellerID    uuid.UUID
	Email       string
	Password    string
	DisplayName string
	Role        identity.Role
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout. The JTI and remaining TTL
// come from the access token presented on the logout request.
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	SellerID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserRequest is the request to create a staff account
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
	Role        string `json:"role" binding:"required"`
}

// UpdateUserRequest is the request to update a staff account
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Role        *string `json:"role" binding:"omitempty"`
}

// ResetPasswordRequest is the request for an admin password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserListFilter contains filters for listing users
type UserListFilter struct {
	Page     int
	PageSize int
	Role     *identity.Role
	Search   string
	OrderBy  string
	OrderDir string
}

// ToUserInfo converts a user aggregate to its response form
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		SellerID:    user.SellerID,
		Email:       user.Email,
		DisplayName: user.GetDisplayNameOrEmail(),
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
	}
}

// ToUserInfos converts a slice of user aggregates
func ToUserInfos(users []identity.User) []UserInfo {
	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = ToUserInfo(&users[i])
	}
	return infos
}

// RegisterSellerRequest is the request to open a new storefront with its
// first admin account
type RegisterSellerRequest struct {
	Slug          string `json:"slug" binding:"required,max=50"`
	Name          string `json:"name" binding:"required,max=200"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	Country       string `json:"country" binding:"omitempty,len=2"`
}

// UpdateSellerRequest is the request to update a storefront profile
type UpdateSellerRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	Country      *string `json:"country" binding:"omitempty,len=2"`
	LogoURL      *string `json:"logo_url" binding:"omitempty,url,max=500"`
}

// UpdateSellerConfigRequest is the request to update storefront settings
type UpdateSellerConfigRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
	Timezone string `json:"timezone" binding:"required"`
	Locale   string `json:"locale" binding:"omitempty"`
	Settings string `json:"settings" binding:"omitempty"`
}

// SellerResponse is the response form of a seller storefront
type SellerResponse struct {
	ID           uuid.UUID             `json:"id"`
	Slug         string                `json:"slug"`
	Name         string                `json:"name"`
	Status       identity.SellerStatus `json:"status"`
	ContactName  string                `json:"contact_name,omitempty"`
	ContactPhone string                `json:"contact_phone,omitempty"`
	ContactEmail string                `json:"contact_email,omitempty"`
	Country      string                `json:"country,omitempty"`
	LogoURL      string                `json:"logo_url,omitempty"`
	Currency     string                `json:"currency"`
	Timezone     string                `json:"timezone"`
	Locale       string                `json:"locale,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// RegisterSellerResult carries the new storefront and its admin account
type RegisterSellerResult struct {
	Seller SellerResponse
	Admin  UserInfo
}

// ToSellerResponse converts a seller aggregate to its response form
func ToSellerResponse(seller *identity.Seller) SellerResponse {
	return SellerResponse{
		ID:           seller.ID,
		Slug:         seller.Slug,
		Name:         seller.Name,
		Status:       seller.Status,
		ContactName:  seller.ContactName,
		ContactPhone: seller.ContactPhone,
		ContactEmail: seller.ContactEmail,
		Country:      seller.Country,
		LogoURL:      seller.LogoURL,
		Currency:     string(seller.Config.Currency),
		Timezone:     seller.Config.Timezone,
		Locale:       seller.Config.Locale,
		CreatedAt:    seller.CreatedAt,
		UpdatedAt:    seller.UpdatedAt,
	}
}

// ToSellerResponses converts a slice of seller aggregates
func ToSellerResponses(sellers []identity.Seller) []SellerResponse {
	responses := make([]SellerResponse, len(sellers))
	for i := range sellers {
		responses[i] = ToSellerResponse(&sellers[i])
	}
	return responses
}

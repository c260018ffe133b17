package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	identityapp "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

func setupAuthHandler(userRepo *MockUserRepository, sellerRepo *MockSellerRepository) *AuthHandler {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-handler-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "marketplace-test",
	})
	authService := identityapp.NewAuthService(
		userRepo, sellerRepo, jwtService,
		auth.NewInMemoryTokenBlacklist(),
		identityapp.DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
	return NewAuthHandler(authService)
}

func createTestBuyerUser(password string) *identity.User {
	user, _ := identity.NewUser(testSellerID, "buyer@example.com", password, identity.RoleBuyer)
	return user
}

func TestAuthHandler_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(createTestSeller(), nil)
	userRepo.On("ExistsByEmail", mock.Anything, testSellerID, "buyer@example.com").Return(false, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", handler.Register)

	reqBody := RegisterRequest{
		SellerID:    testSellerID.String(),
		Email:       "buyer@example.com",
		Password:    "s3cure-passw0rd",
		DisplayName: "Test Buyer",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "buyer@example.com")
	userRepo.AssertExpectations(t)
	sellerRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(createTestSeller(), nil)
	userRepo.On("ExistsByEmail", mock.Anything, testSellerID, "buyer@example.com").Return(true, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", handler.Register)

	reqBody := RegisterRequest{
		SellerID: testSellerID.String(),
		Email:    "buyer@example.com",
		Password: "s3cure-passw0rd",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_MissingStorefront(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", handler.Register)

	reqBody := RegisterRequest{
		Email:    "buyer@example.com",
		Password: "s3cure-passw0rd",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	user := createTestBuyerUser("s3cure-passw0rd")
	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(createTestSeller(), nil)
	userRepo.On("FindByEmail", mock.Anything, testSellerID, "buyer@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", handler.Login)

	reqBody := LoginRequest{
		SellerID: testSellerID.String(),
		Email:    "buyer@example.com",
		Password: "s3cure-passw0rd",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
				TokenType    string `json:"token_type"`
			} `json:"token"`
		} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token.AccessToken)
	assert.NotEmpty(t, resp.Data.Token.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	user := createTestBuyerUser("s3cure-passw0rd")
	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(createTestSeller(), nil)
	userRepo.On("FindByEmail", mock.Anything, testSellerID, "buyer@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", handler.Login)

	reqBody := LoginRequest{
		SellerID: testSellerID.String(),
		Email:    "buyer@example.com",
		Password: "wrong-passw0rd",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_SuspendedStorefront(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	seller := createTestSeller()
	_ = seller.Suspend()
	sellerRepo.On("FindByID", mock.Anything, testSellerID).Return(seller, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", handler.Login)

	reqBody := LoginRequest{
		SellerID: testSellerID.String(),
		Email:    "buyer@example.com",
		Password: "s3cure-passw0rd",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	sellerRepo.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	userRepo := new(MockUserRepository)
	sellerRepo := new(MockSellerRepository)
	handler := setupAuthHandler(userRepo, sellerRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/refresh", handler.RefreshToken)

	body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: "not-a-valid-token"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

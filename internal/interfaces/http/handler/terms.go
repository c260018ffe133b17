package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/marketplace/backend/internal/application/identity"
	wholesaleapp "github.com/marketplace/backend/internal/application/wholesale"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// TermsHandler handles wholesale terms API endpoints
type TermsHandler struct {
	BaseHandler
	termsService  *wholesaleapp.TermsService
	sellerService *identityapp.SellerService
}

// NewTermsHandler creates a new TermsHandler
func NewTermsHandler(termsService *wholesaleapp.TermsService, sellerService *identityapp.SellerService) *TermsHandler {
	return &TermsHandler{
		termsService:  termsService,
		sellerService: sellerService,
	}
}

// RegisterRoutes registers wholesale terms routes
func (h *TermsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wholesale := rg.Group("/wholesale")
	{
		wholesale.GET("/terms", h.Get)
		wholesale.PUT("/terms", h.Update)
	}
}

// Get godoc
// @ID           getWholesaleTerms
// @Summary      Get wholesale terms
// @Description  Get the storefront's wholesale rule set; defaults are returned when none configured
// @Tags         wholesale
// @Produce      json
// @Success      200 {object} APIResponse[wholesale.TermsResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wholesale/terms [get]
func (h *TermsHandler) Get(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	terms, err := h.termsService.Get(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, terms)
}

// Update godoc
// @ID           updateWholesaleTerms
// @Summary      Update wholesale terms
// @Description  Configure the deposit split, payment-term whitelist, minimum order value and default MOQ
// @Tags         wholesale
// @Accept       json
// @Produce      json
// @Param        request body wholesale.UpdateTermsRequest true "Terms update request"
// @Success      200 {object} APIResponse[wholesale.TermsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wholesale/terms [put]
func (h *TermsHandler) Update(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req wholesaleapp.UpdateTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, ok := h.sellerCurrency(c, sellerID)
	if !ok {
		return
	}

	terms, err := h.termsService.Update(c.Request.Context(), sellerID, currency, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, terms)
}

func (h *TermsHandler) sellerCurrency(c *gin.Context, sellerID uuid.UUID) (valueobject.Currency, bool) {
	seller, err := h.sellerService.GetByID(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return "", false
	}
	return valueobject.Currency(seller.Currency), true
}

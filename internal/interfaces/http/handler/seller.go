package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/marketplace/backend/internal/application/identity"
)

// SellerHandler handles seller account management HTTP requests
type SellerHandler struct {
	BaseHandler
	sellerService *identityapp.SellerService
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(sellerService *identityapp.SellerService) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
	}
}

// RegisterRoutes registers seller routes
func (h *SellerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sellers := rg.Group("/sellers")
	{
		sellers.POST("/register", h.Register)
		sellers.GET("/me", h.GetCurrent)
		sellers.PUT("/me", h.UpdateCurrent)
		sellers.PUT("/me/config", h.UpdateConfig)
		sellers.POST("/me/activate", h.Activate)
		sellers.POST("/me/deactivate", h.Deactivate)
	}

	public := rg.Group("/public/sellers")
	{
		public.GET("/slug/:slug", h.GetBySlug)
	}
}

// Register godoc
// @ID           registerSeller
// @Summary      Register a new seller
// @Description  Create a seller account together with its initial admin user
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterSellerRequest true "Seller registration request"
// @Success      201 {object} SuccessResponse{data=identityapp.RegisterSellerResult}
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /sellers/register [post]
func (h *SellerHandler) Register(c *gin.Context) {
	var req identityapp.RegisterSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.sellerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetCurrent godoc
// @ID           getCurrentSeller
// @Summary      Get current seller
// @Description  Get the seller account of the authenticated user
// @Tags         sellers
// @Produce      json
// @Success      200 {object} SuccessResponse{data=identityapp.SellerResponse}
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/me [get]
func (h *SellerHandler) GetCurrent(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	seller, err := h.sellerService.GetByID(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, seller)
}

// UpdateCurrent godoc
// @ID           updateCurrentSeller
// @Summary      Update current seller
// @Description  Update the profile of the authenticated seller
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateSellerRequest true "Seller update request"
// @Success      200 {object} SuccessResponse{data=identityapp.SellerResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/me [put]
func (h *SellerHandler) UpdateCurrent(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req identityapp.UpdateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.sellerService.Update(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, seller)
}

// UpdateConfig godoc
// @ID           updateSellerConfig
// @Summary      Update seller configuration
// @Description  Update currency, timezone, locale and storefront settings
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateSellerConfigRequest true "Configuration update request"
// @Success      200 {object} SuccessResponse{data=identityapp.SellerResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/me/config [put]
func (h *SellerHandler) UpdateConfig(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req identityapp.UpdateSellerConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.sellerService.UpdateConfig(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, seller)
}

// Activate godoc
// @ID           activateSeller
// @Summary      Activate storefront
// @Description  Reopen a previously deactivated storefront
// @Tags         sellers
// @Produce      json
// @Success      200 {object} SuccessResponse{data=identityapp.SellerResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/me/activate [post]
func (h *SellerHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.sellerService.Activate)
}

// Deactivate godoc
// @ID           deactivateSeller
// @Summary      Deactivate storefront
// @Description  Temporarily close the storefront to buyers
// @Tags         sellers
// @Produce      json
// @Success      200 {object} SuccessResponse{data=identityapp.SellerResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/me/deactivate [post]
func (h *SellerHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.sellerService.Deactivate)
}

func (h *SellerHandler) changeStatus(c *gin.Context, op func(context.Context, uuid.UUID) (*identityapp.SellerResponse, error)) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	seller, err := op(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, seller)
}

// GetBySlug godoc
// @ID           getSellerBySlug
// @Summary      Get seller by slug
// @Description  Resolve a public storefront by its slug
// @Tags         sellers
// @Produce      json
// @Param        slug path string true "Storefront slug"
// @Success      200 {object} SuccessResponse{data=identityapp.SellerResponse}
// @Failure      404 {object} ErrorResponse
// @Router       /public/sellers/slug/{slug} [get]
func (h *SellerHandler) GetBySlug(c *gin.Context) {
	seller, err := h.sellerService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, seller)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/marketplace/backend/internal/application/partner"
)

// BuyerHandler handles buyer partner API endpoints
type BuyerHandler struct {
	BaseHandler
	buyerService *partnerapp.BuyerService
}

// NewBuyerHandler creates a new BuyerHandler
func NewBuyerHandler(buyerService *partnerapp.BuyerService) *BuyerHandler {
	return &BuyerHandler{
		buyerService: buyerService,
	}
}

// LinkUserRequest links a login account to a buyer record
// @Description Request body for linking a user account to a buyer
type LinkUserRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// RegisterRoutes registers buyer routes
func (h *BuyerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	buyers := rg.Group("/buyers")
	{
		buyers.POST("", h.Create)
		buyers.GET("", h.List)
		buyers.GET("/:id", h.GetByID)
		buyers.GET("/email/:email", h.GetByEmail)
		buyers.PUT("/:id", h.Update)
		buyers.POST("/:id/link-user", h.LinkUser)
		buyers.POST("/:id/wholesale/suspend", h.SuspendWholesale)
		buyers.POST("/:id/wholesale/reinstate", h.ReinstateWholesale)
		buyers.POST("/:id/block", h.Block)
		buyers.POST("/:id/unblock", h.Unblock)
		buyers.POST("/:id/activate", h.Activate)
		buyers.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create godoc
// @ID           createBuyer
// @Summary      Create a buyer
// @Description  Register a buyer record on the storefront
// @Tags         buyers
// @Accept       json
// @Produce      json
// @Param        request body partner.CreateBuyerRequest true "Buyer creation request"
// @Success      201 {object} APIResponse[partner.BuyerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers [post]
func (h *BuyerHandler) Create(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req partnerapp.CreateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buyer, err := h.buyerService.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, buyer)
}

// GetByID godoc
// @ID           getBuyer
// @Summary      Get a buyer by ID
// @Tags         buyers
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id} [get]
func (h *BuyerHandler) GetByID(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	buyer, err := h.buyerService.GetByID(c.Request.Context(), sellerID, buyerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

// GetByEmail godoc
// @ID           getBuyerByEmail
// @Summary      Get a buyer by email
// @Tags         buyers
// @Produce      json
// @Param        email path string true "Buyer email"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/email/{email} [get]
func (h *BuyerHandler) GetByEmail(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyer, err := h.buyerService.GetByEmail(c.Request.Context(), sellerID, c.Param("email"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

// List godoc
// @ID           listBuyers
// @Summary      List buyers
// @Description  List the storefront's buyers with filtering and pagination
// @Tags         buyers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in name, email and company"
// @Param        status query string false "Filter by buyer status"
// @Param        wholesale_status query string false "Filter by wholesale status"
// @Param        wholesale_only query bool false "Only approved wholesale buyers"
// @Success      200 {object} APIResponse[[]partner.BuyerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers [get]
func (h *BuyerHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var filter partnerapp.BuyerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	buyers, total, err := h.buyerService.List(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, buyers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateBuyer
// @Summary      Update a buyer
// @Tags         buyers
// @Accept       json
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Param        request body partner.UpdateBuyerRequest true "Buyer update request"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id} [put]
func (h *BuyerHandler) Update(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	var req partnerapp.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buyer, err := h.buyerService.Update(c.Request.Context(), sellerID, buyerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

// LinkUser godoc
// @ID           linkBuyerUser
// @Summary      Link a login account to a buyer
// @Tags         buyers
// @Accept       json
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Param        request body LinkUserRequest true "User link request"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/link-user [post]
func (h *BuyerHandler) LinkUser(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	var req LinkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buyer, err := h.buyerService.LinkUser(c.Request.Context(), sellerID, buyerID, req.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

// SuspendWholesale godoc
// @ID           suspendBuyerWholesale
// @Summary      Suspend a buyer's wholesale access
// @Tags         buyers
// @Accept       json
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Param        request body partner.SuspendWholesaleRequest true "Suspension reason"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/wholesale/suspend [post]
func (h *BuyerHandler) SuspendWholesale(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	var req partnerapp.SuspendWholesaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buyer, err := h.buyerService.SuspendWholesale(c.Request.Context(), sellerID, buyerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

// ReinstateWholesale godoc
// @ID           reinstateBuyerWholesale
// @Summary      Reinstate a buyer's wholesale access
// @Tags         buyers
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/wholesale/reinstate [post]
func (h *BuyerHandler) ReinstateWholesale(c *gin.Context) {
	h.transition(c, func(sellerID, buyerID uuid.UUID) (*partnerapp.BuyerResponse, error) {
		return h.buyerService.ReinstateWholesale(c.Request.Context(), sellerID, buyerID)
	})
}

// Block godoc
// @ID           blockBuyer
// @Summary      Block a buyer
// @Description  Block a buyer from all ordering on the storefront
// @Tags         buyers
// @Accept       json
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Param        request body partner.BlockBuyerRequest true "Block reason"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/block [post]
func (h *BuyerHandler) Block(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	var req partnerapp.BlockBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buyer, err := h.buyerService.Block(c.Request.Context(), sellerID, buyerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

// Unblock godoc
// @ID           unblockBuyer
// @Summary      Unblock a buyer
// @Tags         buyers
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/unblock [post]
func (h *BuyerHandler) Unblock(c *gin.Context) {
	h.transition(c, func(sellerID, buyerID uuid.UUID) (*partnerapp.BuyerResponse, error) {
		return h.buyerService.Unblock(c.Request.Context(), sellerID, buyerID)
	})
}

// Activate godoc
// @ID           activateBuyer
// @Summary      Activate a buyer
// @Tags         buyers
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/activate [post]
func (h *BuyerHandler) Activate(c *gin.Context) {
	h.transition(c, func(sellerID, buyerID uuid.UUID) (*partnerapp.BuyerResponse, error) {
		return h.buyerService.Activate(c.Request.Context(), sellerID, buyerID)
	})
}

// Deactivate godoc
// @ID           deactivateBuyer
// @Summary      Deactivate a buyer
// @Tags         buyers
// @Produce      json
// @Param        id path string true "Buyer ID"
// @Success      200 {object} APIResponse[partner.BuyerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buyers/{id}/deactivate [post]
func (h *BuyerHandler) Deactivate(c *gin.Context) {
	h.transition(c, func(sellerID, buyerID uuid.UUID) (*partnerapp.BuyerResponse, error) {
		return h.buyerService.Deactivate(c.Request.Context(), sellerID, buyerID)
	})
}

func (h *BuyerHandler) transition(c *gin.Context, op func(sellerID, buyerID uuid.UUID) (*partnerapp.BuyerResponse, error)) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	buyer, err := op(sellerID, buyerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, buyer)
}

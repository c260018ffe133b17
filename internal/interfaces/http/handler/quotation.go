package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/marketplace/backend/internal/application/trade"
)

// QuotationHandler handles trade quotation API endpoints. Sellers draft and
// manage quotations; buyers view and accept them through the public
// view-token routes.
type QuotationHandler struct {
	BaseHandler
	quotationService *tradeapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *tradeapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
	}
}

// RegisterRoutes registers quotation routes
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotations := rg.Group("/quotations")
	{
		quotations.POST("", h.Create)
		quotations.GET("", h.List)
		quotations.GET("/:id", h.GetByID)
		quotations.PUT("/:id", h.Update)
		quotations.POST("/:id/items", h.AddItem)
		quotations.PUT("/:id/items/:itemId", h.UpdateItem)
		quotations.DELETE("/:id/items/:itemId", h.RemoveItem)
		quotations.POST("/:id/send", h.Send)
		quotations.POST("/:id/request-balance", h.RequestBalance)
		quotations.POST("/:id/complete", h.Complete)
		quotations.POST("/:id/cancel", h.Cancel)
		quotations.GET("/:id/pdf", h.DownloadPDF)
	}

	public := rg.Group("/public/quotations")
	{
		public.GET("/:token", h.ViewByToken)
		public.POST("/:token/accept", h.AcceptByToken)
	}
}

// Create godoc
// @ID           createQuotation
// @Summary      Draft a quotation
// @Description  Draft a wholesale quotation for an approved buyer; lines default to the product wholesale price
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body trade.CreateQuotationRequest true "Quotation draft request"
// @Success      201 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req tradeapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, quotation)
}

// GetByID godoc
// @ID           getQuotation
// @Summary      Get a quotation by ID
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), sellerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List godoc
// @ID           listQuotations
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in quotation number and buyer name"
// @Param        buyer_id query string false "Filter by buyer"
// @Param        status query string false "Filter by status"
// @Success      200 {object} APIResponse[[]trade.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var filter tradeapp.QuotationListFilter
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

	quotations, total, err := h.quotationService.List(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateQuotation
// @Summary      Update a draft quotation
// @Description  Update commercial terms on a draft; sent quotations are immutable
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body trade.UpdateQuotationRequest true "Quotation update request"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	var req tradeapp.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), sellerID, quotationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// AddItem godoc
// @ID           addQuotationItem
// @Summary      Add a line to a draft quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body trade.AddQuotationItemRequest true "Line item"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/items [post]
func (h *QuotationHandler) AddItem(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	var req tradeapp.AddQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.AddItem(c.Request.Context(), sellerID, quotationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// UpdateItem godoc
// @ID           updateQuotationItem
// @Summary      Update a line on a draft quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        itemId path string true "Item ID"
// @Param        request body trade.UpdateQuotationItemRequest true "Line changes"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/items/{itemId} [put]
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req tradeapp.UpdateQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.UpdateItem(c.Request.Context(), sellerID, quotationID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// RemoveItem godoc
// @ID           removeQuotationItem
// @Summary      Remove a line from a draft quotation
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/items/{itemId} [delete]
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	quotation, err := h.quotationService.RemoveItem(c.Request.Context(), sellerID, quotationID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Send godoc
// @ID           sendQuotation
// @Summary      Send a quotation
// @Description  Transition a draft to SENT; the wholesale rules are enforced and the view token becomes live
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotationService.Send(c.Request.Context(), sellerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// RequestBalance godoc
// @ID           requestQuotationBalance
// @Summary      Request the balance payment
// @Description  Open a balance payment intent once the deposit has settled
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} APIResponse[trade.PaymentIntentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/request-balance [post]
func (h *QuotationHandler) RequestBalance(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	intent, err := h.quotationService.RequestBalance(c.Request.Context(), sellerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, intent)
}

// Complete godoc
// @ID           completeQuotation
// @Summary      Complete a quotation
// @Description  Close a fully paid quotation after fulfilment
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/complete [post]
func (h *QuotationHandler) Complete(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotationService.Complete(c.Request.Context(), sellerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Cancel godoc
// @ID           cancelQuotation
// @Summary      Cancel a quotation
// @Description  Cancel before any payment has settled; open payment intents are voided
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body trade.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[trade.IssuedQuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/cancel [post]
func (h *QuotationHandler) Cancel(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	var req tradeapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.Cancel(c.Request.Context(), sellerID, quotationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// DownloadPDF godoc
// @ID           downloadQuotationPDF
// @Summary      Download the quotation PDF
// @Description  Render the quotation document as PDF
// @Tags         quotations
// @Produce      application/pdf
// @Param        id path string true "Quotation ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/pdf [get]
func (h *QuotationHandler) DownloadPDF(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	quotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	pdf, err := h.quotationService.RenderPDF(c.Request.Context(), sellerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quotation-%s.pdf", quotationID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ViewByToken godoc
// @ID           viewQuotationByToken
// @Summary      View a quotation by token
// @Description  Public endpoint for the buyer's view link; the first view marks the quotation VIEWED
// @Tags         quotations
// @Produce      json
// @Param        token path string true "View token"
// @Success      200 {object} APIResponse[trade.QuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Router       /public/quotations/{token} [get]
func (h *QuotationHandler) ViewByToken(c *gin.Context) {
	quotation, err := h.quotationService.GetByViewToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// AcceptByToken godoc
// @ID           acceptQuotationByToken
// @Summary      Accept a quotation by token
// @Description  Public endpoint; acceptance computes the deposit split and opens the deposit payment intent
// @Tags         quotations
// @Produce      json
// @Param        token path string true "View token"
// @Success      200 {object} APIResponse[trade.AcceptQuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /public/quotations/{token}/accept [post]
func (h *QuotationHandler) AcceptByToken(c *gin.Context) {
	result, err := h.quotationService.AcceptByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

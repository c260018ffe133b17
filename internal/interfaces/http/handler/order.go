package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/marketplace/backend/internal/application/identity"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// OrderHandler handles trade order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService  *tradeapp.OrderService
	sellerService *identityapp.SellerService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, sellerService *identityapp.SellerService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		sellerService: sellerService,
	}
}

// CreateOrderFromQuotationRequest converts an accepted quotation into an order
// @Description Request body for creating an order from a quotation
type CreateOrderFromQuotationRequest struct {
	QuotationID uuid.UUID `json:"quotation_id" binding:"required"`
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.POST("/from-quotation", h.CreateFromQuotation)
		orders.GET("", h.List)
		orders.GET("/summary", h.StatusSummary)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id/items/:itemId", h.UpdateItemQuantity)
		orders.DELETE("/:id/items/:itemId", h.RemoveItem)
		orders.POST("/:id/checkout/retail", h.CheckoutRetail)
		orders.POST("/:id/checkout/wholesale", h.CheckoutWholesale)
		orders.POST("/:id/request-balance", h.RequestBalance)
		orders.POST("/:id/ship", h.Ship)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create godoc
// @ID           createOrder
// @Summary      Draft an order
// @Description  Draft a retail or wholesale order; wholesale drafts require an approved wholesale buyer
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body trade.CreateOrderRequest true "Order draft request"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.sellerService.GetByID(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), sellerID, valueobject.Currency(seller.Currency), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// CreateFromQuotation godoc
// @ID           createOrderFromQuotation
// @Summary      Create an order from a quotation
// @Description  Materialize an accepted quotation into a wholesale order carrying its negotiated terms
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body CreateOrderFromQuotationRequest true "Source quotation"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/from-quotation [post]
func (h *OrderHandler) CreateFromQuotation(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req CreateOrderFromQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CreateFromQuotation(c.Request.Context(), sellerID, req.QuotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get an order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), sellerID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in order number and buyer name"
// @Param        buyer_id query string false "Filter by buyer"
// @Param        kind query string false "Filter by RETAIL or WHOLESALE"
// @Param        status query string false "Filter by status"
// @Success      200 {object} APIResponse[[]trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var filter tradeapp.OrderListFilter
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

	orders, total, err := h.orderService.List(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// StatusSummary godoc
// @ID           getOrderSummary
// @Summary      Order status summary
// @Description  Count the storefront's orders per lifecycle state
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[trade.OrderStatusSummary]
// @Security     BearerAuth
// @Router       /orders/summary [get]
func (h *OrderHandler) StatusSummary(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	summary, err := h.orderService.StatusSummary(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// UpdateItemQuantity godoc
// @ID           updateOrderItem
// @Summary      Change a line quantity on a draft order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        itemId path string true "Item ID"
// @Param        request body trade.UpdateOrderItemRequest true "New quantity"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/items/{itemId} [put]
func (h *OrderHandler) UpdateItemQuantity(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req tradeapp.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItemQuantity(c.Request.Context(), sellerID, orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem godoc
// @ID           removeOrderItem
// @Summary      Remove a line from a draft order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), sellerID, orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// CheckoutRetail godoc
// @ID           checkoutRetailOrder
// @Summary      Check out a retail order
// @Description  Reserve stock and open a hosted checkout session for the full amount
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.RetailCheckoutRequest true "Checkout redirect URLs"
// @Success      200 {object} APIResponse[trade.CheckoutSessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/checkout/retail [post]
func (h *OrderHandler) CheckoutRetail(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.RetailCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.orderService.CheckoutRetail(c.Request.Context(), sellerID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// CheckoutWholesale godoc
// @ID           checkoutWholesaleOrder
// @Summary      Check out a wholesale order
// @Description  Evaluate the wholesale rules (MOQ, minimum order value, payment-term whitelist), compute the deposit split and open the deposit payment intent
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.WholesaleCheckoutRequest true "Requested payment term"
// @Success      200 {object} APIResponse[trade.PaymentIntentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/checkout/wholesale [post]
func (h *OrderHandler) CheckoutWholesale(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.WholesaleCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	intent, err := h.orderService.CheckoutWholesale(c.Request.Context(), sellerID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, intent)
}

// RequestBalance godoc
// @ID           requestOrderBalance
// @Summary      Request the balance payment
// @Description  Open a balance payment intent after the deposit has settled
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[trade.PaymentIntentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/request-balance [post]
func (h *OrderHandler) RequestBalance(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	intent, err := h.orderService.RequestBalance(c.Request.Context(), sellerID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, intent)
}

// Ship godoc
// @ID           shipOrder
// @Summary      Ship an order
// @Description  Record carrier tracking info; wholesale orders must be fully paid first
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.ShipOrderRequest true "Tracking info"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Ship(c.Request.Context(), sellerID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Complete godoc
// @ID           completeOrder
// @Summary      Complete an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Complete(c.Request.Context(), sellerID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Cancel before shipment; reserved stock is released and open payment intents are voided
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), sellerID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

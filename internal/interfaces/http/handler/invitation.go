package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	wholesaleapp "github.com/marketplace/backend/internal/application/wholesale"
)

// InvitationHandler handles wholesale invitation API endpoints. Sellers
// issue and manage invitations; buyers act on them through the public
// token routes linked from the invitation email.
type InvitationHandler struct {
	BaseHandler
	invitationService *wholesaleapp.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(invitationService *wholesaleapp.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// RegisterRoutes registers seller-side invitation routes plus the
// token-based public routes buyers reach without a storefront session
func (h *InvitationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invitations := rg.Group("/wholesale/invitations")
	{
		invitations.POST("", h.Issue)
		invitations.GET("", h.List)
		invitations.POST("/:id/revoke", h.Revoke)
	}

	public := rg.Group("/public/invitations")
	{
		public.GET("/:token", h.GetByToken)
		public.POST("/:token/accept", h.Accept)
		public.POST("/:token/decline", h.Decline)
	}
}

// Issue godoc
// @ID           issueInvitation
// @Summary      Issue a wholesale invitation
// @Description  Invite a buyer to wholesale; the response includes the acceptance token for the invitation email
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        request body wholesale.IssueInvitationRequest true "Invitation request"
// @Success      201 {object} APIResponse[wholesale.IssuedInvitationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wholesale/invitations [post]
func (h *InvitationHandler) Issue(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var req wholesaleapp.IssueInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invitation, err := h.invitationService.Issue(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invitation)
}

// List godoc
// @ID           listInvitations
// @Summary      List wholesale invitations
// @Tags         invitations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by invitation status"
// @Param        search query string false "Search in buyer email"
// @Success      200 {object} APIResponse[[]wholesale.InvitationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wholesale/invitations [get]
func (h *InvitationHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	var filter wholesaleapp.InvitationListFilter
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

	invitations, total, err := h.invitationService.List(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invitations, total, filter.Page, filter.PageSize)
}

// Revoke godoc
// @ID           revokeInvitation
// @Summary      Revoke a pending invitation
// @Tags         invitations
// @Produce      json
// @Param        id path string true "Invitation ID"
// @Success      200 {object} APIResponse[wholesale.InvitationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wholesale/invitations/{id}/revoke [post]
func (h *InvitationHandler) Revoke(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invitation ID format")
		return
	}

	invitation, err := h.invitationService.Revoke(c.Request.Context(), sellerID, invitationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invitation)
}

// GetByToken godoc
// @ID           getInvitationByToken
// @Summary      View an invitation by token
// @Description  Public endpoint for the invited buyer; expired invitations return 410
// @Tags         invitations
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      200 {object} APIResponse[wholesale.InvitationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Router       /public/invitations/{token} [get]
func (h *InvitationHandler) GetByToken(c *gin.Context) {
	invitation, err := h.invitationService.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invitation)
}

// Accept godoc
// @ID           acceptInvitation
// @Summary      Accept an invitation
// @Description  Public endpoint; accepting grants the buyer wholesale access on the storefront
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        token path string true "Invitation token"
// @Param        request body wholesale.AcceptInvitationRequest true "Accepting buyer"
// @Success      200 {object} APIResponse[wholesale.InvitationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /public/invitations/{token}/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req wholesaleapp.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invitation, err := h.invitationService.Accept(c.Request.Context(), c.Param("token"), req.BuyerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invitation)
}

// Decline godoc
// @ID           declineInvitation
// @Summary      Decline an invitation
// @Description  Public endpoint; declining is final for the token
// @Tags         invitations
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      200 {object} APIResponse[wholesale.InvitationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /public/invitations/{token}/decline [post]
func (h *InvitationHandler) Decline(c *gin.Context) {
	invitation, err := h.invitationService.Decline(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invitation)
}

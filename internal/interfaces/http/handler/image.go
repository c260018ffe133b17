package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
)

// ImageHandler handles product image API endpoints. Uploads are two-phase:
// the client requests a presigned URL, uploads the bytes directly to object
// storage, then confirms.
type ImageHandler struct {
	BaseHandler
	imageService *catalogapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *catalogapp.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// RegisterRoutes registers product image routes
func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products/:id/images", h.RequestUpload)
	rg.GET("/products/:id/images", h.ListByProduct)

	images := rg.Group("/images")
	{
		images.POST("/:id/confirm", h.ConfirmUpload)
		images.POST("/:id/primary", h.SetPrimary)
		images.DELETE("/:id", h.Delete)
	}
}

// RequestUpload godoc
// @ID           requestImageUpload
// @Summary      Request an image upload
// @Description  Start a two-phase upload and receive a presigned PUT URL
// @Tags         images
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalog.RequestImageUploadRequest true "Upload request"
// @Success      201 {object} APIResponse[catalog.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images [post]
func (h *ImageHandler) RequestUpload(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.RequestImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var uploadedBy *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		uploadedBy = &userID
	}

	upload, err := h.imageService.RequestUpload(c.Request.Context(), sellerID, productID, uploadedBy, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, upload)
}

// ConfirmUpload godoc
// @ID           confirmImageUpload
// @Summary      Confirm an image upload
// @Description  Mark a pending upload as ready after the client has stored the bytes
// @Tags         images
// @Produce      json
// @Param        id path string true "Image ID"
// @Success      200 {object} APIResponse[catalog.ImageResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /images/{id}/confirm [post]
func (h *ImageHandler) ConfirmUpload(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID format")
		return
	}

	image, err := h.imageService.ConfirmUpload(c.Request.Context(), sellerID, imageID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, image)
}

// SetPrimary godoc
// @ID           setPrimaryImage
// @Summary      Set the primary product image
// @Tags         images
// @Produce      json
// @Param        id path string true "Image ID"
// @Success      200 {object} APIResponse[catalog.ImageResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /images/{id}/primary [post]
func (h *ImageHandler) SetPrimary(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID format")
		return
	}

	image, err := h.imageService.SetPrimary(c.Request.Context(), sellerID, imageID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, image)
}

// Delete godoc
// @ID           deleteImage
// @Summary      Delete a product image
// @Tags         images
// @Produce      json
// @Param        id path string true "Image ID"
// @Success      204 "No Content"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /images/{id} [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID format")
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), sellerID, imageID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByProduct godoc
// @ID           listProductImages
// @Summary      List a product's images
// @Tags         images
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[[]catalog.ImageResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images [get]
func (h *ImageHandler) ListByProduct(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Seller context required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	images, err := h.imageService.ListByProduct(c.Request.Context(), sellerID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, images)
}

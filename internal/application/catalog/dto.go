package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/catalog"
)

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product listing
type CreateProductRequest struct {
	SKU            string           `json:"sku" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	RetailPrice    decimal.Decimal  `json:"retail_price" binding:"required"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	MOQ            *int64           `json:"moq"`
	StockQuantity  *decimal.Decimal `json:"stock_quantity"`
	MinStock       *decimal.Decimal `json:"min_stock"`
	Attributes     string           `json:"attributes"`
}

// UpdateProductRequest represents a request to update a product listing
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	MOQ            *int64           `json:"moq"`
	ClearMOQ       bool             `json:"clear_moq"`
	MinStock       *decimal.Decimal `json:"min_stock"`
	Attributes     *string          `json:"attributes"`
}

// AdjustStockRequest represents a guarded stock adjustment
type AdjustStockRequest struct {
	// Delta is added to the current stock; negative values deduct
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                       uuid.UUID             `json:"id"`
	SellerID                 uuid.UUID             `json:"seller_id"`
	SKU                      string                `json:"sku"`
	Name                     string                `json:"name"`
	Description              string                `json:"description,omitempty"`
	CategoryID               *uuid.UUID            `json:"category_id,omitempty"`
	Currency                 string                `json:"currency"`
	RetailPrice              decimal.Decimal       `json:"retail_price"`
	WholesalePrice           decimal.Decimal       `json:"wholesale_price"`
	WholesaleOffered         bool                  `json:"wholesale_offered"`
	WholesaleDiscountPercent decimal.Decimal       `json:"wholesale_discount_percent"`
	MOQ                      *int64                `json:"moq,omitempty"`
	StockQuantity            decimal.Decimal       `json:"stock_quantity"`
	MinStock                 decimal.Decimal       `json:"min_stock"`
	Status                   catalog.ProductStatus `json:"status"`
	Attributes               string                `json:"attributes,omitempty"`
	CreatedAt                time.Time             `json:"created_at"`
	UpdatedAt                time.Time             `json:"updated_at"`
}

// ToProductResponse converts a Product aggregate to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                       p.ID,
		SellerID:                 p.SellerID,
		SKU:                      p.SKU,
		Name:                     p.Name,
		Description:              p.Description,
		CategoryID:               p.CategoryID,
		Currency:                 string(p.Currency),
		RetailPrice:              p.RetailPrice,
		WholesalePrice:           p.WholesalePrice,
		WholesaleOffered:         p.IsWholesaleOffered(),
		WholesaleDiscountPercent: p.WholesaleDiscountPercent(),
		MOQ:                      p.MOQ,
		StockQuantity:            p.StockQuantity,
		MinStock:                 p.MinStock,
		Status:                   p.Status,
		Attributes:               p.Attributes,
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ProductListFilter represents filtering options for product lists
type ProductListFilter struct {
	Page          int                    `form:"page"`
	PageSize      int                    `form:"page_size"`
	Search        string                 `form:"search"`
	CategoryID    *uuid.UUID             `form:"category_id"`
	Status        *catalog.ProductStatus `form:"status"`
	WholesaleOnly bool                   `form:"wholesale_only"`
	OrderBy       string                 `form:"order_by"`
	OrderDir      string                 `form:"order_dir"`
}

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Slug        string     `json:"slug" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID              `json:"id"`
	SellerID    uuid.UUID              `json:"seller_id"`
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	ParentID    *uuid.UUID             `json:"parent_id,omitempty"`
	Path        string                 `json:"path"`
	Level       int                    `json:"level"`
	SortOrder   int                    `json:"sort_order"`
	Status      catalog.CategoryStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ToCategoryResponse converts a Category to a response DTO
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		SellerID:    c.SellerID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Path:        c.Path,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of categories to response DTOs
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// ==================== Image DTOs ====================

// RequestImageUploadRequest starts a two-phase image upload
type RequestImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned upload URL for the client
type ImageUploadResponse struct {
	ImageID   uuid.UUID `json:"image_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImageResponse represents a product image in API responses
type ImageResponse struct {
	ID          uuid.UUID           `json:"id"`
	ProductID   uuid.UUID           `json:"product_id"`
	FileName    string              `json:"file_name"`
	FileSize    int64               `json:"file_size"`
	ContentType string              `json:"content_type"`
	Status      catalog.ImageStatus `json:"status"`
	Primary     bool                `json:"primary"`
	SortOrder   int                 `json:"sort_order"`
	URL         string              `json:"url,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToImageResponse converts a ProductImage to a response DTO
func ToImageResponse(img *catalog.ProductImage, url string) ImageResponse {
	return ImageResponse{
		ID:          img.ID,
		ProductID:   img.ProductID,
		FileName:    img.FileName,
		FileSize:    img.FileSize,
		ContentType: img.ContentType,
		Status:      img.Status,
		Primary:     img.Primary,
		SortOrder:   img.SortOrder,
		URL:         url,
		CreatedAt:   img.CreatedAt,
	}
}

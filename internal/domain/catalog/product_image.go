package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxImageFileSize is the maximum allowed image size (10MB)
const MaxImageFileSize = 10 * 1024 * 1024

// ImageStatus represents the upload status of a product image
type ImageStatus string

const (
	ImageStatusPending ImageStatus = "pending"
	ImageStatusActive  ImageStatus = "active"
	ImageStatusDeleted ImageStatus = "deleted"
)

// IsValid checks if the image status is valid
func (s ImageStatus) IsValid() bool {
	switch s {
	case ImageStatusPending, ImageStatusActive, ImageStatusDeleted:
		return true
	default:
		return false
	}
}

// ProductImage is a product photo stored in object storage. Uploads are
// two-phase: the record is created pending with a presigned upload URL
// and confirmed once the object exists in the bucket.
type ProductImage struct {
	shared.SellerAggregateRoot
	ProductID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status       ImageStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	FileName     string      `gorm:"type:varchar(255);not null"`
	FileSize     int64       `gorm:"not null"`
	ContentType  string      `gorm:"type:varchar(100);not null"`
	StorageKey   string      `gorm:"type:varchar(500);not null"` // Key in the S3 bucket
	ThumbnailKey string      `gorm:"type:varchar(500)"`
	Primary      bool        `gorm:"not null;default:false"` // Shown as the listing image
	SortOrder    int         `gorm:"not null;default:0"`
	UploadedBy   *uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates a new product image in pending status
func NewProductImage(
	sellerID, productID uuid.UUID,
	fileName string,
	fileSize int64,
	contentType string,
	storageKey string,
	uploadedBy *uuid.UUID,
) (*ProductImage, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER_ID", "Seller ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if err := validateImageFileName(fileName); err != nil {
		return nil, err
	}
	if err := validateImageFileSize(fileSize); err != nil {
		return nil, err
	}
	if err := validateImageContentType(contentType); err != nil {
		return nil, err
	}
	if err := validateStorageKey(storageKey); err != nil {
		return nil, err
	}

	image := &ProductImage{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		ProductID:           productID,
		Status:              ImageStatusPending,
		FileName:            fileName,
		FileSize:            fileSize,
		ContentType:         contentType,
		StorageKey:          storageKey,
		UploadedBy:          uploadedBy,
	}

	return image, nil
}

// Confirm confirms the upload and activates the image
// Called after the object is verified to exist in storage
func (i *ProductImage) Confirm() error {
	if i.Status == ImageStatusActive {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Image is already confirmed")
	}
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_CONFIRM_DELETED", "Cannot confirm a deleted image")
	}

	i.Status = ImageStatusActive
	i.UpdatedAt = time.Now()

	return nil
}

// Delete marks the image as deleted (soft delete)
// The object itself is removed from storage asynchronously
func (i *ProductImage) Delete() error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Image is already deleted")
	}

	i.Status = ImageStatusDeleted
	i.Primary = false
	i.UpdatedAt = time.Now()

	return nil
}

// SetPrimary marks the image as the primary listing image
// The application service demotes the previous primary image
func (i *ProductImage) SetPrimary() error {
	if i.Status != ImageStatusActive {
		return shared.NewDomainError("NOT_ACTIVE", "Only active images can be set as primary")
	}

	i.Primary = true
	i.UpdatedAt = time.Now()

	return nil
}

// ClearPrimary demotes the image from primary
func (i *ProductImage) ClearPrimary() {
	i.Primary = false
	i.UpdatedAt = time.Now()
}

// SetSortOrder sets the gallery display order
func (i *ProductImage) SetSortOrder(order int) error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update a deleted image")
	}
	if order < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}

	i.SortOrder = order
	i.UpdatedAt = time.Now()

	return nil
}

// SetThumbnailKey sets the storage key for the generated thumbnail
func (i *ProductImage) SetThumbnailKey(key string) error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update a deleted image")
	}
	if err := validateStorageKey(key); err != nil {
		return err
	}

	i.ThumbnailKey = key
	i.UpdatedAt = time.Now()

	return nil
}

// IsPending returns true if the upload is not yet confirmed
func (i *ProductImage) IsPending() bool {
	return i.Status == ImageStatusPending
}

// IsActive returns true if the image is active
func (i *ProductImage) IsActive() bool {
	return i.Status == ImageStatusActive
}

// IsDeleted returns true if the image is deleted
func (i *ProductImage) IsDeleted() bool {
	return i.Status == ImageStatusDeleted
}

// validation functions

func validateImageFileName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewDomainError("INVALID_FILE_NAME", "File name contains invalid characters")
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

func validateImageFileSize(size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > MaxImageFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "File size cannot exceed 10MB")
	}
	return nil
}

func validateImageContentType(contentType string) error {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return nil
	}
	return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type must be an image format (jpeg, png, webp, gif)")
}

func validateStorageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	// Prevent path traversal
	if strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot contain path traversal sequences")
	}
	// Must be relative within the bucket
	if strings.HasPrefix(key, "/") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key must be a relative path")
	}
	return nil
}

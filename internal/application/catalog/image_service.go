package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ObjectStorageService abstracts presigned-URL object storage (S3 or compatible)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading an object
	GenerateUploadURL(ctx context.Context, storageKey string, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks whether an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageServiceConfig holds tunables for the image upload flow
type ImageServiceConfig struct {
	UploadURLExpiry     time.Duration
	DownloadURLExpiry   time.Duration
	MaxImagesPerProduct int
	// PendingTTL is how long an unconfirmed upload is kept before cleanup
	PendingTTL time.Duration
}

// DefaultImageServiceConfig returns the default image service configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry:     15 * time.Minute,
		DownloadURLExpiry:   1 * time.Hour,
		MaxImagesPerProduct: 10,
		PendingTTL:          24 * time.Hour,
	}
}

// ImageService handles the two-phase product image upload flow
type ImageService struct {
	imageRepo   catalog.ProductImageRepository
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	config      ImageServiceConfig
}

// NewImageService creates a new ImageService
func NewImageService(
	imageRepo catalog.ProductImageRepository,
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	config ImageServiceConfig,
) *ImageService {
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = 15 * time.Minute
	}
	if config.DownloadURLExpiry <= 0 {
		config.DownloadURLExpiry = 1 * time.Hour
	}
	if config.MaxImagesPerProduct <= 0 {
		config.MaxImagesPerProduct = 10
	}
	if config.PendingTTL <= 0 {
		config.PendingTTL = 24 * time.Hour
	}
	return &ImageService{
		imageRepo:   imageRepo,
		productRepo: productRepo,
		storage:     storage,
		config:      config,
	}
}

// RequestUpload creates a pending image record and returns a presigned
// upload URL. The client PUTs the file and then calls ConfirmUpload.
func (s *ImageService) RequestUpload(ctx context.Context, sellerID, productID uuid.UUID, uploadedBy *uuid.UUID, req RequestImageUploadRequest) (*ImageUploadResponse, error) {
	if _, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID); err != nil {
		return nil, err
	}

	count, err := s.imageRepo.CountByProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.config.MaxImagesPerProduct) {
		return nil, shared.NewDomainError("IMAGE_LIMIT_REACHED",
			fmt.Sprintf("A product can have at most %d images", s.config.MaxImagesPerProduct))
	}

	storageKey := buildStorageKey(sellerID, productID, req.FileName)
	image, err := catalog.NewProductImage(sellerID, productID, req.FileName, req.FileSize, req.ContentType, storageKey, uploadedBy)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate upload url: %w", err)
	}

	if err := s.imageRepo.Save(ctx, image); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		ImageID:   image.ID,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmUpload verifies the object landed in storage and activates the image.
// The first confirmed image of a product becomes primary.
func (s *ImageService) ConfirmUpload(ctx context.Context, sellerID, imageID uuid.UUID) (*ImageResponse, error) {
	image, err := s.imageRepo.FindByIDForSeller(ctx, sellerID, imageID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, image.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("check object: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "The uploaded file was not found in storage")
	}

	if err := image.Confirm(); err != nil {
		return nil, err
	}

	primary, err := s.imageRepo.FindPrimaryByProduct(ctx, sellerID, image.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if primary == nil {
		if err := image.SetPrimary(); err != nil {
			return nil, err
		}
	}

	if err := s.imageRepo.SaveWithLock(ctx, image); err != nil {
		return nil, err
	}

	return s.toResponseWithURL(ctx, image)
}

// SetPrimary makes an image the listing image, clearing the previous primary
func (s *ImageService) SetPrimary(ctx context.Context, sellerID, imageID uuid.UUID) (*ImageResponse, error) {
	image, err := s.imageRepo.FindByIDForSeller(ctx, sellerID, imageID)
	if err != nil {
		return nil, err
	}

	previous, err := s.imageRepo.FindPrimaryByProduct(ctx, sellerID, image.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if previous != nil && previous.ID != image.ID {
		previous.ClearPrimary()
		if err := s.imageRepo.SaveWithLock(ctx, previous); err != nil {
			return nil, err
		}
	}

	if err := image.SetPrimary(); err != nil {
		return nil, err
	}
	if err := s.imageRepo.SaveWithLock(ctx, image); err != nil {
		return nil, err
	}

	return s.toResponseWithURL(ctx, image)
}

// Delete soft-deletes an image and removes the object from storage
func (s *ImageService) Delete(ctx context.Context, sellerID, imageID uuid.UUID) error {
	image, err := s.imageRepo.FindByIDForSeller(ctx, sellerID, imageID)
	if err != nil {
		return err
	}

	if err := image.Delete(); err != nil {
		return err
	}
	if err := s.imageRepo.SaveWithLock(ctx, image); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, image.StorageKey); err != nil {
		// The record is already soft-deleted; the sweep retries orphans
		return nil
	}
	return nil
}

// ListByProduct returns a product's images with presigned download URLs
func (s *ImageService) ListByProduct(ctx context.Context, sellerID, productID uuid.UUID) ([]ImageResponse, error) {
	images, err := s.imageRepo.FindByProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]ImageResponse, 0, len(images))
	for i := range images {
		img := &images[i]
		if img.IsDeleted() {
			continue
		}
		url := ""
		if img.IsActive() {
			url, _, err = s.storage.GenerateDownloadURL(ctx, img.StorageKey, s.config.DownloadURLExpiry)
			if err != nil {
				return nil, fmt.Errorf("generate download url: %w", err)
			}
		}
		responses = append(responses, ToImageResponse(img, url))
	}
	return responses, nil
}

// CleanupStalePending deletes pending images whose upload window lapsed.
// Returns the number of images cleaned up.
func (s *ImageService) CleanupStalePending(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	cutoff := time.Now().Add(-s.config.PendingTTL)
	images, err := s.imageRepo.FindStalePending(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for i := range images {
		img := &images[i]
		if err := img.Delete(); err != nil {
			continue
		}
		if err := s.imageRepo.SaveWithLock(ctx, img); err != nil {
			continue
		}
		// Best effort: the object may never have been uploaded
		_ = s.storage.DeleteObject(ctx, img.StorageKey)
		cleaned++
	}
	return cleaned, nil
}

func (s *ImageService) toResponseWithURL(ctx context.Context, image *catalog.ProductImage) (*ImageResponse, error) {
	url := ""
	if image.IsActive() {
		var err error
		url, _, err = s.storage.GenerateDownloadURL(ctx, image.StorageKey, s.config.DownloadURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("generate download url: %w", err)
		}
	}
	response := ToImageResponse(image, url)
	return &response, nil
}

// buildStorageKey lays out objects as sellers/<seller>/products/<product>/images/<uuid><ext>
func buildStorageKey(sellerID, productID uuid.UUID, fileName string) string {
	ext := path.Ext(fileName)
	return fmt.Sprintf("sellers/%s/products/%s/images/%s%s", sellerID, productID, uuid.New(), ext)
}

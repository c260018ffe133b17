package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

func pendingImage(t *testing.T, sellerID, productID uuid.UUID) *catalog.ProductImage {
	t.Helper()
	image, err := catalog.NewProductImage(sellerID, productID, "mug.jpg", 120_000, "image/jpeg",
		"sellers/s/products/p/images/a.jpg", nil)
	require.NoError(t, err)
	return image
}

func TestImageService_RequestUpload(t *testing.T) {
	imageRepo := new(MockProductImageRepository)
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	service := NewImageService(imageRepo, productRepo, storage, DefaultImageServiceConfig())

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")
	expiresAt := time.Now().Add(15 * time.Minute)

	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	imageRepo.On("CountByProduct", mock.Anything, sellerID, product.ID).Return(int64(2), nil)
	storage.On("GenerateUploadURL", mock.Anything, mock.AnythingOfType("string"), "image/jpeg", 15*time.Minute).
		Return("https://bucket.example.com/presigned-put", expiresAt, nil)
	imageRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ProductImage")).Return(nil)

	resp, err := service.RequestUpload(context.Background(), sellerID, product.ID, nil, RequestImageUploadRequest{
		FileName:    "mug.jpg",
		FileSize:    120_000,
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ImageID)
	assert.Equal(t, "https://bucket.example.com/presigned-put", resp.UploadURL)
	assert.Equal(t, expiresAt, resp.ExpiresAt)
	imageRepo.AssertExpectations(t)
}

func TestImageService_RequestUpload_LimitReached(t *testing.T) {
	imageRepo := new(MockProductImageRepository)
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	service := NewImageService(imageRepo, productRepo, storage, ImageServiceConfig{MaxImagesPerProduct: 3})

	sellerID := uuid.New()
	product := pricedProduct(t, sellerID, "MUG-001")

	productRepo.On("FindByIDForSeller", mock.Anything, sellerID, product.ID).Return(product, nil)
	imageRepo.On("CountByProduct", mock.Anything, sellerID, product.ID).Return(int64(3), nil)

	_, err := service.RequestUpload(context.Background(), sellerID, product.ID, nil, RequestImageUploadRequest{
		FileName:    "mug.jpg",
		FileSize:    120_000,
		ContentType: "image/jpeg",
	})

	assertCode(t, err, "IMAGE_LIMIT_REACHED")
	imageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestImageService_ConfirmUpload(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()

	t.Run("first image becomes primary", func(t *testing.T) {
		imageRepo := new(MockProductImageRepository)
		storage := new(MockObjectStorage)
		service := NewImageService(imageRepo, new(MockProductRepository), storage, DefaultImageServiceConfig())

		image := pendingImage(t, sellerID, productID)
		imageRepo.On("FindByIDForSeller", mock.Anything, sellerID, image.ID).Return(image, nil)
		storage.On("ObjectExists", mock.Anything, image.StorageKey).Return(true, nil)
		imageRepo.On("FindPrimaryByProduct", mock.Anything, sellerID, productID).Return(nil, shared.ErrNotFound)
		imageRepo.On("SaveWithLock", mock.Anything, image).Return(nil)
		storage.On("GenerateDownloadURL", mock.Anything, image.StorageKey, 1*time.Hour).
			Return("https://bucket.example.com/presigned-get", time.Now().Add(time.Hour), nil)

		resp, err := service.ConfirmUpload(context.Background(), sellerID, image.ID)

		require.NoError(t, err)
		assert.Equal(t, catalog.ImageStatusActive, resp.Status)
		assert.True(t, resp.Primary)
		assert.Equal(t, "https://bucket.example.com/presigned-get", resp.URL)
	})

	t.Run("object missing in storage", func(t *testing.T) {
		imageRepo := new(MockProductImageRepository)
		storage := new(MockObjectStorage)
		service := NewImageService(imageRepo, new(MockProductRepository), storage, DefaultImageServiceConfig())

		image := pendingImage(t, sellerID, productID)
		imageRepo.On("FindByIDForSeller", mock.Anything, sellerID, image.ID).Return(image, nil)
		storage.On("ObjectExists", mock.Anything, image.StorageKey).Return(false, nil)

		_, err := service.ConfirmUpload(context.Background(), sellerID, image.ID)

		assertCode(t, err, "UPLOAD_NOT_FOUND")
		imageRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestImageService_SetPrimary_ClearsPrevious(t *testing.T) {
	imageRepo := new(MockProductImageRepository)
	storage := new(MockObjectStorage)
	service := NewImageService(imageRepo, new(MockProductRepository), storage, DefaultImageServiceConfig())

	sellerID := uuid.New()
	productID := uuid.New()

	previous := pendingImage(t, sellerID, productID)
	require.NoError(t, previous.Confirm())
	require.NoError(t, previous.SetPrimary())

	next := pendingImage(t, sellerID, productID)
	require.NoError(t, next.Confirm())

	imageRepo.On("FindByIDForSeller", mock.Anything, sellerID, next.ID).Return(next, nil)
	imageRepo.On("FindPrimaryByProduct", mock.Anything, sellerID, productID).Return(previous, nil)
	imageRepo.On("SaveWithLock", mock.Anything, previous).Return(nil)
	imageRepo.On("SaveWithLock", mock.Anything, next).Return(nil)
	storage.On("GenerateDownloadURL", mock.Anything, next.StorageKey, 1*time.Hour).
		Return("https://bucket.example.com/presigned-get", time.Now().Add(time.Hour), nil)

	resp, err := service.SetPrimary(context.Background(), sellerID, next.ID)

	require.NoError(t, err)
	assert.True(t, resp.Primary)
	assert.False(t, previous.Primary)
	imageRepo.AssertExpectations(t)
}

func TestImageService_Delete(t *testing.T) {
	imageRepo := new(MockProductImageRepository)
	storage := new(MockObjectStorage)
	service := NewImageService(imageRepo, new(MockProductRepository), storage, DefaultImageServiceConfig())

	sellerID := uuid.New()
	image := pendingImage(t, sellerID, uuid.New())
	require.NoError(t, image.Confirm())

	imageRepo.On("FindByIDForSeller", mock.Anything, sellerID, image.ID).Return(image, nil)
	imageRepo.On("SaveWithLock", mock.Anything, image).Return(nil)
	storage.On("DeleteObject", mock.Anything, image.StorageKey).Return(nil)

	err := service.Delete(context.Background(), sellerID, image.ID)

	require.NoError(t, err)
	assert.True(t, image.IsDeleted())
	storage.AssertExpectations(t)
}

func TestImageService_ListByProduct_SkipsDeleted(t *testing.T) {
	imageRepo := new(MockProductImageRepository)
	storage := new(MockObjectStorage)
	service := NewImageService(imageRepo, new(MockProductRepository), storage, DefaultImageServiceConfig())

	sellerID := uuid.New()
	productID := uuid.New()

	active := pendingImage(t, sellerID, productID)
	require.NoError(t, active.Confirm())
	deleted := pendingImage(t, sellerID, productID)
	require.NoError(t, deleted.Delete())
	pending := pendingImage(t, sellerID, productID)

	imageRepo.On("FindByProduct", mock.Anything, sellerID, productID).
		Return([]catalog.ProductImage{*active, *deleted, *pending}, nil)
	storage.On("GenerateDownloadURL", mock.Anything, active.StorageKey, 1*time.Hour).
		Return("https://bucket.example.com/presigned-get", time.Now().Add(time.Hour), nil)

	responses, err := service.ListByProduct(context.Background(), sellerID, productID)

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, catalog.ImageStatusActive, responses[0].Status)
	assert.Equal(t, "https://bucket.example.com/presigned-get", responses[0].URL)
	assert.Equal(t, catalog.ImageStatusPending, responses[1].Status)
	assert.Empty(t, responses[1].URL)
}

func TestImageService_CleanupStalePending(t *testing.T) {
	imageRepo := new(MockProductImageRepository)
	storage := new(MockObjectStorage)
	service := NewImageService(imageRepo, new(MockProductRepository), storage, DefaultImageServiceConfig())

	sellerID := uuid.New()
	first := pendingImage(t, sellerID, uuid.New())
	second := pendingImage(t, sellerID, uuid.New())

	imageRepo.On("FindStalePending", mock.Anything, mock.AnythingOfType("time.Time"), 100).
		Return([]catalog.ProductImage{*first, *second}, nil)
	imageRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*catalog.ProductImage")).Return(nil).Twice()
	storage.On("DeleteObject", mock.Anything, mock.AnythingOfType("string")).Return(nil).Twice()

	cleaned, err := service.CleanupStalePending(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 2, cleaned)
	imageRepo.AssertExpectations(t)
}

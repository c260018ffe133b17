package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CategoryService handles category tree operations
type CategoryService struct {
	categoryRepo   catalog.CategoryRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a category, either at the root or under a parent
func (s *CategoryService) Create(ctx context.Context, sellerID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, sellerID, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A category with this slug already exists")
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		category, err = catalog.NewChildCategory(sellerID, req.Slug, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(sellerID, req.Slug, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if req.Description != "" {
		if err := category.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != 0 {
		category.SetSortOrder(req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, sellerID, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, categoryID)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, sellerID uuid.UUID, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, sellerID, slug)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// ListRoots retrieves the top-level categories
func (s *CategoryService) ListRoots(ctx context.Context, sellerID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindRoots(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// ListChildren retrieves the direct children of a category
func (s *CategoryService) ListChildren(ctx context.Context, sellerID, parentID uuid.UUID) ([]CategoryResponse, error) {
	if _, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, parentID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindChildren(ctx, sellerID, parentID)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Update updates a category's name, description or sort order
func (s *CategoryService) Update(ctx context.Context, sellerID, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		description := category.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.SaveWithLock(ctx, category); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate restores a deactivated category
func (s *CategoryService) Activate(ctx context.Context, sellerID, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := category.Activate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.SaveWithLock(ctx, category); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Deactivate hides a category from the storefront
func (s *CategoryService) Deactivate(ctx context.Context, sellerID, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := category.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.SaveWithLock(ctx, category); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes an empty leaf category. Categories with children or
// assigned products cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, sellerID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, categoryID); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, sellerID, categoryID)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("CATEGORY_HAS_CHILDREN", "Cannot delete a category with child categories")
	}

	productCount, err := s.productRepo.CountByCategory(ctx, sellerID, categoryID)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Cannot delete a category with assigned products")
	}

	return s.categoryRepo.DeleteForSeller(ctx, sellerID, categoryID)
}

func (s *CategoryService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}

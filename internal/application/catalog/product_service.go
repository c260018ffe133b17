package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product listing in the seller's storefront currency
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, cur valueobject.Currency, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, sellerID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_TAKEN", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(sellerID, req.SKU, req.Name, cur)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	retail, err := valueobject.NewMoney(req.RetailPrice, cur)
	if err != nil {
		return nil, err
	}
	wholesalePrice := decimal.Zero
	if req.WholesalePrice != nil {
		wholesalePrice = *req.WholesalePrice
	}
	wholesale, err := valueobject.NewMoney(wholesalePrice, cur)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(retail, wholesale); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.MOQ != nil {
		if err := product.SetMOQ(*req.MOQ); err != nil {
			return nil, err
		}
	}

	if req.StockQuantity != nil {
		if err := product.SetStock(*req.StockQuantity); err != nil {
			return nil, err
		}
	}

	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if req.Attributes != "" {
		if err := product.SetAttributes(req.Attributes); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, sellerID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sellerID, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, sellerID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	var (
		products []catalog.Product
		err      error
	)
	if filter.WholesaleOnly {
		products, err = s.productRepo.FindWholesaleOffered(ctx, sellerID, domainFilter)
	} else {
		products, err = s.productRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product listing
func (s *ProductService) Update(ctx context.Context, sellerID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForSeller(ctx, sellerID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.RetailPrice != nil {
		retail, err := valueobject.NewMoney(*req.RetailPrice, product.Currency)
		if err != nil {
			return nil, err
		}
		if err := product.UpdateRetailPrice(retail); err != nil {
			return nil, err
		}
	}

	if req.WholesalePrice != nil {
		wholesale, err := valueobject.NewMoney(*req.WholesalePrice, product.Currency)
		if err != nil {
			return nil, err
		}
		if err := product.UpdateWholesalePrice(wholesale); err != nil {
			return nil, err
		}
	}

	if req.ClearMOQ {
		product.ClearMOQ()
	} else if req.MOQ != nil {
		if err := product.SetMOQ(*req.MOQ); err != nil {
			return nil, err
		}
	}

	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if req.Attributes != nil {
		if err := product.SetAttributes(*req.Attributes); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a guarded stock delta. Deductions below zero fail.
func (s *ProductService) AdjustStock(ctx context.Context, sellerID, productID uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if req.Delta.IsNegative() {
		err = product.DeductStock(req.Delta.Neg())
	} else {
		err = product.AddStock(req.Delta)
	}
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Activate restores a deactivated product
func (s *ProductService) Activate(ctx context.Context, sellerID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, sellerID, productID, func(p *catalog.Product) error { return p.Activate() })
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, sellerID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, sellerID, productID, func(p *catalog.Product) error { return p.Deactivate() })
}

// Discontinue permanently retires a product
func (s *ProductService) Discontinue(ctx context.Context, sellerID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, sellerID, productID, func(p *catalog.Product) error { return p.Discontinue() })
}

func (s *ProductService) changeStatus(ctx context.Context, sellerID, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}

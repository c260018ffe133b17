package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a listing in a seller's catalog.
// Retail price is what storefront buyers pay; the wholesale price serves
// approved wholesale buyers and may carry a per-product MOQ override.
type Product struct {
	shared.SellerAggregateRoot
	SKU            string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_seller_sku,priority:2"`
	Name           string               `gorm:"type:varchar(200);not null"`
	Description    string               `gorm:"type:text"`
	CategoryID     *uuid.UUID           `gorm:"type:uuid;index"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	RetailPrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	MOQ            *int64               // Wholesale MOQ override; nil falls back to the seller's default
	StockQuantity  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock alert threshold
	Status         ProductStatus        `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder      int                  `gorm:"not null;default:0"`
	Attributes     string               `gorm:"type:jsonb"` // JSON storage for custom attributes
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product listing
func NewProduct(sellerID uuid.UUID, sku, name string, cur valueobject.Currency) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !cur.IsValid() {
		return nil, shared.ErrInvalidCurrency
	}

	product := &Product{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Currency:            cur,
		RetailPrice:         decimal.Zero,
		WholesalePrice:      decimal.Zero,
		StockQuantity:       decimal.Zero,
		MinStock:            decimal.Zero,
		Status:              ProductStatusActive,
		Attributes:          "{}",
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrices creates a new product with retail and wholesale prices
func NewProductWithPrices(
	sellerID uuid.UUID,
	sku, name string,
	retailPrice, wholesalePrice valueobject.Money,
) (*Product, error) {
	product, err := NewProduct(sellerID, sku, name, retailPrice.Currency())
	if err != nil {
		return nil, err
	}

	if err := product.SetPrices(retailPrice, wholesalePrice); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// UpdateSKU updates the product's SKU
// Note: use with caution, quotations and orders snapshot the SKU
func (p *Product) UpdateSKU(sku string) error {
	if err := validateSKU(sku); err != nil {
		return err
	}

	p.SKU = strings.ToUpper(sku)
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetPrices sets both retail and wholesale prices.
// Both must be in the product currency; a zero wholesale price means the
// product is not offered wholesale.
func (p *Product) SetPrices(retailPrice, wholesalePrice valueobject.Money) error {
	if retailPrice.Currency() != p.Currency || wholesalePrice.Currency() != p.Currency {
		return shared.ErrCurrencyMismatch
	}
	if retailPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Retail price cannot be negative")
	}
	if wholesalePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Wholesale price cannot be negative")
	}

	oldRetail := p.RetailPrice
	oldWholesale := p.WholesalePrice

	p.RetailPrice = retailPrice.Amount()
	p.WholesalePrice = wholesalePrice.Amount()
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldRetail, oldWholesale))

	return nil
}

// UpdateRetailPrice updates only the retail price
func (p *Product) UpdateRetailPrice(price valueobject.Money) error {
	if price.Currency() != p.Currency {
		return shared.ErrCurrencyMismatch
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Retail price cannot be negative")
	}

	oldRetail := p.RetailPrice
	p.RetailPrice = price.Amount()
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldRetail, p.WholesalePrice))

	return nil
}

// UpdateWholesalePrice updates only the wholesale price
func (p *Product) UpdateWholesalePrice(price valueobject.Money) error {
	if price.Currency() != p.Currency {
		return shared.ErrCurrencyMismatch
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Wholesale price cannot be negative")
	}

	oldWholesale := p.WholesalePrice
	p.WholesalePrice = price.Amount()
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, p.RetailPrice, oldWholesale))

	return nil
}

// SetMOQ sets the per-product wholesale MOQ override
func (p *Product) SetMOQ(moq int64) error {
	if moq < 1 {
		return shared.NewDomainError("INVALID_MOQ", "MOQ must be at least 1")
	}

	p.MOQ = &moq
	p.UpdatedAt = time.Now()

	return nil
}

// ClearMOQ removes the MOQ override so the seller default applies
func (p *Product) ClearMOQ() {
	p.MOQ = nil
	p.UpdatedAt = time.Now()
}

// SetStock sets the absolute stock quantity
func (p *Product) SetStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()

	return nil
}

// AddStock increases the stock quantity
func (p *Product) AddStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.StockQuantity = p.StockQuantity.Add(quantity)
	p.UpdatedAt = time.Now()

	return nil
}

// DeductStock decreases the stock quantity, failing on insufficient stock
func (p *Product) DeductStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.StockQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity = p.StockQuantity.Sub(quantity)
	p.UpdatedAt = time.Now()

	if p.StockQuantity.LessThanOrEqual(p.MinStock) && p.MinStock.IsPositive() {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}

	return nil
}

// HasStock reports whether the requested quantity is available
func (p *Product) HasStock(quantity decimal.Decimal) bool {
	return p.StockQuantity.GreaterThanOrEqual(quantity)
}

// SetMinStock sets the low-stock alert threshold
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()

	return nil
}

// SetSortOrder sets the display order of the product
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
}

// SetAttributes sets custom attributes as JSON
func (p *Product) SetAttributes(attributes string) error {
	if attributes == "" {
		attributes = "{}"
	}
	trimmed := strings.TrimSpace(attributes)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be valid JSON object")
	}

	p.Attributes = trimmed
	p.UpdatedAt = time.Now()

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Cannot deactivate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue marks the product as discontinued
// A discontinued product cannot be reactivated
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsDiscontinued returns true if the product is discontinued
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// IsWholesaleOffered reports whether the product carries a wholesale price
func (p *Product) IsWholesaleOffered() bool {
	return p.WholesalePrice.IsPositive()
}

// RetailPriceMoney returns the retail price as Money
func (p *Product) RetailPriceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.RetailPrice, p.Currency)
	return m
}

// WholesalePriceMoney returns the wholesale price as Money
func (p *Product) WholesalePriceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.WholesalePrice, p.Currency)
	return m
}

// WholesaleDiscountPercent returns the wholesale discount relative to retail.
// Returns 0 if the retail price is zero.
func (p *Product) WholesaleDiscountPercent() decimal.Decimal {
	if p.RetailPrice.IsZero() {
		return decimal.Zero
	}
	discount := p.RetailPrice.Sub(p.WholesalePrice)
	return discount.Div(p.RetailPrice).Mul(decimal.NewFromInt(100))
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	// SKU should be alphanumeric with underscores and hyphens
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

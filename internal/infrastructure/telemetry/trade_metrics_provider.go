// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTradeMetricsProvider implements TradeMetricsProvider using GORM.
// It queries the trade_quotations and payments tables directly for
// aggregated gauge values.
type GormTradeMetricsProvider struct {
	db *gorm.DB
}

// NewGormTradeMetricsProvider creates a new GormTradeMetricsProvider.
func NewGormTradeMetricsProvider(db *gorm.DB) *GormTradeMetricsProvider {
	return &GormTradeMetricsProvider{db: db}
}

// GetOpenQuotationCount returns the number of quotations awaiting a buyer
// decision for a seller.
func (p *GormTradeMetricsProvider) GetOpenQuotationCount(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("trade_quotations").
		Where("seller_id = ?", sellerID).
		Where("status IN ?", []string{"SENT", "VIEWED"}).
		Count(&count).Error

	return count, err
}

// GetPendingPaymentCount returns the number of payments still awaiting
// provider confirmation for a seller.
func (p *GormTradeMetricsProvider) GetPendingPaymentCount(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("payments").
		Where("seller_id = ?", sellerID).
		Where("status = ?", "PENDING").
		Count(&count).Error

	return count, err
}

// GormSellerProvider implements SellerProvider using GORM.
type GormSellerProvider struct {
	db *gorm.DB
}

// NewGormSellerProvider creates a new GormSellerProvider.
func NewGormSellerProvider(db *gorm.DB) *GormSellerProvider {
	return &GormSellerProvider{db: db}
}

// GetActiveSellerIDs returns all active seller IDs.
func (p *GormSellerProvider) GetActiveSellerIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("sellers").
		Select("id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}

var _ TradeMetricsProvider = (*GormTradeMetricsProvider)(nil)
var _ SellerProvider = (*GormSellerProvider)(nil)

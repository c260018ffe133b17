// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// BusinessMetrics provides business metrics for the marketplace.
// It tracks quotation lifecycle, order creation, and payment activity.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	quotationCreatedTotal  *Counter
	quotationAcceptedTotal *Counter
	orderCreatedTotal      *Counter
	orderAmountTotal       *Counter
	paymentTotal           *Counter

	// Gauge metrics (point-in-time values)
	openQuotationCount  *Gauge
	pendingPaymentCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	tradeProvider TradeMetricsProvider
}

// TradeMetricsProvider provides trade document data for periodic metrics
// collection. The interface keeps the telemetry layer from depending on the
// trade and payment domains directly.
type TradeMetricsProvider interface {
	// GetOpenQuotationCount returns the number of quotations awaiting a
	// buyer decision (sent or viewed) for a seller
	GetOpenQuotationCount(ctx context.Context, sellerID uuid.UUID) (int64, error)

	// GetPendingPaymentCount returns the number of payments still awaiting
	// provider confirmation for a seller
	GetPendingPaymentCount(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	TradeProvider   TradeMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		tradeProvider: cfg.TradeProvider,
	}

	var err error

	// Quotation metrics
	bm.quotationCreatedTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_quotation_created_total",
		"Total number of quotations created",
		"{quotations}",
	)
	if err != nil {
		return nil, err
	}

	bm.quotationAcceptedTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_quotation_accepted_total",
		"Total number of quotations accepted by buyers",
		"{quotations}",
	)
	if err != nil {
		return nil, err
	}

	// Order metrics
	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_order_amount_total",
		"Total order amount in minor currency units",
		"{minor_units}",
	)
	if err != nil {
		return nil, err
	}

	// Payment metrics
	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_payment_total",
		"Total number of payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	// Trade gauge metrics
	bm.openQuotationCount, err = NewGauge(
		cfg.Meter,
		"marketplace_quotation_open_count",
		"Number of quotations awaiting a buyer decision",
		"{quotations}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingPaymentCount, err = NewGauge(
		cfg.Meter,
		"marketplace_payment_pending_count",
		"Number of payments awaiting provider confirmation",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Quotation Metrics
// =============================================================================

// RecordQuotationCreated records a quotation creation event.
func (bm *BusinessMetrics) RecordQuotationCreated(ctx context.Context, sellerID uuid.UUID) {
	bm.quotationCreatedTotal.Inc(ctx,
		AttrSellerID.String(sellerID.String()),
	)
}

// RecordQuotationAccepted records a buyer accepting a quotation.
func (bm *BusinessMetrics) RecordQuotationAccepted(ctx context.Context, sellerID uuid.UUID) {
	bm.quotationAcceptedTotal.Inc(ctx,
		AttrSellerID.String(sellerID.String()),
	)
}

// =============================================================================
// Order Metrics
// =============================================================================

// OrderKind distinguishes retail storefront orders from wholesale orders
// for metrics labeling.
type OrderKind string

const (
	OrderKindRetail    OrderKind = "retail"
	OrderKindWholesale OrderKind = "wholesale"
)

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, sellerID uuid.UUID, kind OrderKind) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrSellerID.String(sellerID.String()),
		AttrOrderKind.String(string(kind)),
	)
}

// RecordOrderAmount records the order amount in minor currency units.
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, sellerID uuid.UUID, kind OrderKind, minorUnits int64) {
	bm.orderAmountTotal.Add(ctx, minorUnits,
		AttrSellerID.String(sellerID.String()),
		AttrOrderKind.String(string(kind)),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, sellerID uuid.UUID, kind OrderKind, amount valueobject.Money) {
	bm.RecordOrderCreated(ctx, sellerID, kind)
	bm.RecordOrderAmount(ctx, sellerID, kind, amount.MinorUnits())
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentStatus represents the outcome of a payment for metrics labeling.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// RecordPayment records a payment transaction outcome.
// Phase is the payment phase label (deposit, balance, or full).
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, sellerID uuid.UUID, phase string, status PaymentStatus) {
	bm.paymentTotal.Inc(ctx,
		AttrSellerID.String(sellerID.String()),
		AttrPaymentPhase.String(phase),
		AttrPaymentStatus.String(string(status)),
	)
}

// =============================================================================
// Trade Gauge Metrics
// =============================================================================

// RecordOpenQuotationCount records the current number of open quotations for a seller.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenQuotationCount(ctx context.Context, sellerID uuid.UUID, count int64) {
	bm.openQuotationCount.Record(ctx, count,
		AttrSellerID.String(sellerID.String()),
	)
}

// RecordPendingPaymentCount records the current number of pending payments for a seller.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordPendingPaymentCount(ctx context.Context, sellerID uuid.UUID, count int64) {
	bm.pendingPaymentCount.Record(ctx, count,
		AttrSellerID.String(sellerID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// SellerProvider provides seller IDs for periodic metrics collection.
type SellerProvider interface {
	GetActiveSellerIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects trade metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, sellerProvider SellerProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, sellerProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, sellerProvider SellerProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectTradeMetrics(ctx, sellerProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectTradeMetrics(ctx, sellerProvider)
		}
	}
}

// collectTradeMetrics collects trade gauge metrics for all sellers.
func (bm *BusinessMetrics) collectTradeMetrics(ctx context.Context, sellerProvider SellerProvider) {
	if bm.tradeProvider == nil {
		bm.logger.Debug("No trade provider configured, skipping trade metrics collection")
		return
	}

	sellerIDs, err := sellerProvider.GetActiveSellerIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get seller IDs for metrics collection", zap.Error(err))
		return
	}

	for _, sellerID := range sellerIDs {
		bm.collectSellerTradeMetrics(ctx, sellerID)
	}
}

// collectSellerTradeMetrics collects trade metrics for a single seller.
func (bm *BusinessMetrics) collectSellerTradeMetrics(ctx context.Context, sellerID uuid.UUID) {
	openCount, err := bm.tradeProvider.GetOpenQuotationCount(ctx, sellerID)
	if err != nil {
		bm.logger.Warn("Failed to get open quotation count for seller",
			zap.String("seller_id", sellerID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenQuotationCount(ctx, sellerID, openCount)
	}

	pendingCount, err := bm.tradeProvider.GetPendingPaymentCount(ctx, sellerID)
	if err != nil {
		bm.logger.Warn("Failed to get pending payment count for seller",
			zap.String("seller_id", sellerID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordPendingPaymentCount(ctx, sellerID, pendingCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

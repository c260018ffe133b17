package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared"
)

// ActivityLogHandler records every domain event as a structured log entry.
// It subscribes to all event types and serves as the storefront activity
// trail: quotation lifecycle, payments, invitations and order movements
// all pass through here.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{
		logger: logger.Named("activity"),
	}
}

// EventTypes returns an empty slice so the bus delivers every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("seller_id", event.SellerID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)

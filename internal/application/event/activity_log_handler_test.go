package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marketplace/backend/internal/domain/shared"
)

type recordedEvent struct {
	shared.BaseDomainEvent
}

func TestActivityLogHandlerReceivesAllEvents(t *testing.T) {
	h := NewActivityLogHandler(zap.NewNop())
	assert.Empty(t, h.EventTypes())
}

func TestActivityLogHandlerLogsEventFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewActivityLogHandler(zap.New(core))

	sellerID := uuid.New()
	aggregateID := uuid.New()
	evt := &recordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuotationAccepted", "Quotation", aggregateID, sellerID),
	}

	require.NoError(t, h.Handle(context.Background(), evt))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "QuotationAccepted", fields["event_type"])
	assert.Equal(t, "Quotation", fields["aggregate_type"])
	assert.Equal(t, aggregateID.String(), fields["aggregate_id"])
	assert.Equal(t, sellerID.String(), fields["seller_id"])
}

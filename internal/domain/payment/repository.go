package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Repository defines the interface for payment persistence
type Repository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForSeller finds a payment by ID scoped to a seller
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Payment, error)

	// FindByIntentID finds a payment by its provider PaymentIntent ID.
	// Not seller scoped: webhook processing resolves payments before the
	// seller context is known.
	FindByIntentID(ctx context.Context, intentID string) (*Payment, error)

	// FindBySessionID finds a payment by its provider Checkout Session ID
	FindBySessionID(ctx context.Context, sessionID string) (*Payment, error)

	// FindByDocument finds all payments recorded against a document
	FindByDocument(ctx context.Context, sellerID uuid.UUID, docType DocumentType, docID uuid.UUID) ([]Payment, error)

	// FindPendingByDocument finds pending payments for a document and phase.
	// Used to cancel superseded intents before creating a retry.
	FindPendingByDocument(ctx context.Context, sellerID uuid.UUID, docType DocumentType, docID uuid.UUID, phase Phase) ([]Payment, error)

	// FindAllForSeller finds all payments for a seller with filtering
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// FindStalePending finds pending payments created before the cutoff.
	// Used by the sweep that cancels abandoned checkout attempts.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// CountForSeller counts payments for a seller with optional filters
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)
}

// WebhookEventStore deduplicates provider webhook deliveries. The provider
// retries deliveries, so each event ID must be processed at most once.
type WebhookEventStore interface {
	// MarkProcessed records an event ID. Returns false if the event was
	// already recorded, true if this call recorded it first.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// Unmark removes a recorded event ID so the provider's redelivery of
	// the same event is processed again after a handling failure.
	Unmark(ctx context.Context, eventID string) error
}

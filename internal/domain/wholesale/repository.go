package wholesale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// TermsRepository defines the persistence interface for wholesale terms.
// Each seller has at most one terms record.
type TermsRepository interface {
	FindBySeller(ctx context.Context, sellerID uuid.UUID) (*Terms, error)
	Save(ctx context.Context, terms *Terms) error
	SaveWithLock(ctx context.Context, terms *Terms) error
	Delete(ctx context.Context, sellerID uuid.UUID) error
}

// InvitationRepository defines the persistence interface for wholesale invitations
type InvitationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Invitation, error)
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Invitation, error)
	FindPendingByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*Invitation, error)
	FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]Invitation, error)
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, invitation *Invitation) error
	SaveWithLock(ctx context.Context, invitation *Invitation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

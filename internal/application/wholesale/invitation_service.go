package wholesale

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// InvitationService handles the wholesale invitation lifecycle
type InvitationService struct {
	invitationRepo wholesale.InvitationRepository
	buyerRepo      partner.BuyerRepository
	eventPublisher shared.EventPublisher
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(invitationRepo wholesale.InvitationRepository, buyerRepo partner.BuyerRepository) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		buyerRepo:      buyerRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvitationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Issue creates a pending invitation for a buyer email. A seller can have
// at most one pending invitation per email; a repeat issue returns the
// existing invitation instead of generating a second token.
func (s *InvitationService) Issue(ctx context.Context, sellerID uuid.UUID, req IssueInvitationRequest) (*IssuedInvitationResponse, error) {
	existing, err := s.invitationRepo.FindPendingByEmail(ctx, sellerID, req.BuyerEmail)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && !existing.IsExpired(time.Now()) {
		response := IssuedInvitationResponse{
			InvitationResponse: ToInvitationResponse(existing),
			Token:              existing.Token,
		}
		return &response, nil
	}

	validity := time.Duration(req.ValidityDays) * 24 * time.Hour
	invitation, err := wholesale.NewInvitation(sellerID, req.BuyerEmail, req.Message, validity)
	if err != nil {
		return nil, err
	}

	if err := s.invitationRepo.Save(ctx, invitation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invitation)

	response := IssuedInvitationResponse{
		InvitationResponse: ToInvitationResponse(invitation),
		Token:              invitation.Token,
	}
	return &response, nil
}

// GetByToken resolves an invitation from its public acceptance token.
// An invitation past its validity is marked expired on first access.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*InvitationResponse, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if invitation.IsPending() && invitation.IsExpired(time.Now()) {
		if err := invitation.MarkExpired(); err != nil {
			return nil, err
		}
		if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
			return nil, err
		}
	}

	response := ToInvitationResponse(invitation)
	return &response, nil
}

// Accept accepts an invitation on behalf of a buyer and grants the buyer
// wholesale access. The buyer record must belong to the issuing seller.
func (s *InvitationService) Accept(ctx context.Context, token string, buyerID uuid.UUID) (*InvitationResponse, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, invitation.SellerID, buyerID)
	if err != nil {
		return nil, err
	}

	if err := invitation.Accept(buyer.ID); err != nil {
		return nil, err
	}

	if !buyer.IsWholesaleApproved() {
		if err := buyer.ApproveWholesale(); err != nil {
			return nil, err
		}
	}

	if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
		return nil, err
	}
	if err := s.buyerRepo.SaveWithLock(ctx, buyer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invitation)
	s.publishEvents(ctx, buyer)

	response := ToInvitationResponse(invitation)
	return &response, nil
}

// Decline declines an invitation on behalf of the invited buyer
func (s *InvitationService) Decline(ctx context.Context, token string) (*InvitationResponse, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := invitation.Decline(); err != nil {
		return nil, err
	}

	if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invitation)

	response := ToInvitationResponse(invitation)
	return &response, nil
}

// Revoke withdraws a pending invitation. Seller side only.
func (s *InvitationService) Revoke(ctx context.Context, sellerID, invitationID uuid.UUID) (*InvitationResponse, error) {
	invitation, err := s.invitationRepo.FindByIDForSeller(ctx, sellerID, invitationID)
	if err != nil {
		return nil, err
	}

	if err := invitation.Revoke(); err != nil {
		return nil, err
	}

	if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invitation)

	response := ToInvitationResponse(invitation)
	return &response, nil
}

// List retrieves invitations for a seller with filtering and pagination
func (s *InvitationService) List(ctx context.Context, sellerID uuid.UUID, filter InvitationListFilter) ([]InvitationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	invitations, err := s.invitationRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invitationRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvitationResponses(invitations), total, nil
}

// ExpireSweep marks pending invitations past their validity as expired.
// Called periodically by the scheduler; returns the number expired.
func (s *InvitationService) ExpireSweep(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	invitations, err := s.invitationRepo.FindExpiredPending(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range invitations {
		invitation := &invitations[i]
		if err := invitation.MarkExpired(); err != nil {
			continue
		}
		if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
			continue
		}
		s.publishEvents(ctx, invitation)
		expired++
	}

	return expired, nil
}

func (s *InvitationService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}

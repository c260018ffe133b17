package wholesale

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// TermsService manages the seller's wholesale rule configuration
type TermsService struct {
	termsRepo      wholesale.TermsRepository
	eventPublisher shared.EventPublisher
}

// NewTermsService creates a new TermsService
func NewTermsService(termsRepo wholesale.TermsRepository) *TermsService {
	return &TermsService{
		termsRepo: termsRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TermsService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Get retrieves the seller's wholesale terms
func (s *TermsService) Get(ctx context.Context, sellerID uuid.UUID) (*TermsResponse, error) {
	terms, err := s.termsRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	response := ToTermsResponse(terms)
	return &response, nil
}

// Update creates or updates the seller's wholesale terms. The currency is
// fixed to the storefront currency at creation; existing terms keep theirs.
func (s *TermsService) Update(ctx context.Context, sellerID uuid.UUID, cur valueobject.Currency, req UpdateTermsRequest) (*TermsResponse, error) {
	terms, err := s.termsRepo.FindBySeller(ctx, sellerID)
	created := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		terms, err = wholesale.NewTerms(sellerID, cur)
		if err != nil {
			return nil, err
		}
		created = true
	}

	switch req.SplitType {
	case wholesale.SplitTypePercentage:
		if req.DepositPercent == nil {
			return nil, shared.NewDomainError("INVALID_SPLIT", "Percentage split requires deposit_percent")
		}
		if err := terms.SetPercentageSplit(*req.DepositPercent); err != nil {
			return nil, err
		}
	case wholesale.SplitTypeFixedAmount:
		if req.DepositAmount == nil {
			return nil, shared.NewDomainError("INVALID_SPLIT", "Fixed split requires deposit_amount")
		}
		fixed, err := valueobject.NewMoney(*req.DepositAmount, terms.Currency)
		if err != nil {
			return nil, err
		}
		if err := terms.SetFixedSplit(fixed); err != nil {
			return nil, err
		}
	}

	if req.AllowedPaymentTerms != nil {
		if err := terms.SetAllowedPaymentTerms(req.AllowedPaymentTerms); err != nil {
			return nil, err
		}
	}

	if req.MinOrderValue != nil {
		minValue, err := valueobject.NewMoney(*req.MinOrderValue, terms.Currency)
		if err != nil {
			return nil, err
		}
		if err := terms.SetMinOrderValue(minValue); err != nil {
			return nil, err
		}
	}

	if req.DefaultMOQ != nil {
		if err := terms.SetDefaultMOQ(*req.DefaultMOQ); err != nil {
			return nil, err
		}
	}

	if req.Active != nil {
		if *req.Active {
			terms.Activate()
		} else {
			terms.Deactivate()
		}
	}

	if created {
		err = s.termsRepo.Save(ctx, terms)
	} else {
		err = s.termsRepo.SaveWithLock(ctx, terms)
	}
	if err != nil {
		return nil, err
	}

	response := ToTermsResponse(terms)
	return &response, nil
}

// RequireActive loads the seller's terms and fails unless they are active.
// Order and quotation flows call this before evaluating wholesale rules.
func (s *TermsService) RequireActive(ctx context.Context, sellerID uuid.UUID) (*wholesale.Terms, error) {
	terms, err := s.termsRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WHOLESALE_NOT_CONFIGURED", "Seller has not configured wholesale terms")
		}
		return nil, err
	}
	if !terms.Active {
		return nil, shared.NewDomainError("WHOLESALE_DISABLED", "Seller has disabled wholesale ordering")
	}
	return terms, nil
}

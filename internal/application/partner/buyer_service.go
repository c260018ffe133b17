package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
)

// BuyerService handles buyer management for a seller's storefront
type BuyerService struct {
	buyerRepo      partner.BuyerRepository
	eventPublisher shared.EventPublisher
}

// NewBuyerService creates a new BuyerService
func NewBuyerService(buyerRepo partner.BuyerRepository) *BuyerService {
	return &BuyerService{buyerRepo: buyerRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BuyerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new retail buyer
func (s *BuyerService) Create(ctx context.Context, sellerID uuid.UUID, req CreateBuyerRequest) (*BuyerResponse, error) {
	exists, err := s.buyerRepo.ExistsByEmail(ctx, sellerID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A buyer with this email already exists")
	}

	buyer, err := partner.NewBuyer(sellerID, req.Email, req.Name)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != "" {
		if err := buyer.Update(req.Name, req.CompanyName); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := buyer.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.TaxID != "" {
		if err := buyer.SetTaxID(req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.ShippingAddress != nil {
		addr, err := req.ShippingAddress.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		buyer.SetShippingAddress(addr)
	}
	if req.BillingAddress != nil {
		addr, err := req.BillingAddress.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		buyer.SetBillingAddress(addr)
	}
	if req.Notes != "" {
		buyer.SetNotes(req.Notes)
	}

	if err := s.buyerRepo.Save(ctx, buyer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, buyer)

	response := ToBuyerResponse(buyer)
	return &response, nil
}

// GetByID retrieves a buyer by ID
func (s *BuyerService) GetByID(ctx context.Context, sellerID, buyerID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	response := ToBuyerResponse(buyer)
	return &response, nil
}

// GetByEmail retrieves a buyer by email
func (s *BuyerService) GetByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByEmail(ctx, sellerID, email)
	if err != nil {
		return nil, err
	}
	response := ToBuyerResponse(buyer)
	return &response, nil
}

// GetByUser retrieves the buyer record linked to an identity account
func (s *BuyerService) GetByUser(ctx context.Context, sellerID, userID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByUser(ctx, sellerID, userID)
	if err != nil {
		return nil, err
	}
	response := ToBuyerResponse(buyer)
	return &response, nil
}

// List retrieves buyers with filtering and pagination
func (s *BuyerService) List(ctx context.Context, sellerID uuid.UUID, filter BuyerListFilter) ([]BuyerResponse, int64, error) {
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
	if filter.WholesaleStatus != nil {
		domainFilter.Filters["wholesale_status"] = string(*filter.WholesaleStatus)
	}

	var (
		buyers []partner.Buyer
		err    error
	)
	if filter.WholesaleOnly {
		buyers, err = s.buyerRepo.FindWholesaleApproved(ctx, sellerID, domainFilter)
	} else {
		buyers, err = s.buyerRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.buyerRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBuyerResponses(buyers), total, nil
}

// Update updates a buyer's profile
func (s *BuyerService) Update(ctx context.Context, sellerID, buyerID uuid.UUID, req UpdateBuyerRequest) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.CompanyName != nil {
		name := buyer.Name
		companyName := buyer.CompanyName
		if req.Name != nil {
			name = *req.Name
		}
		if req.CompanyName != nil {
			companyName = *req.CompanyName
		}
		if err := buyer.Update(name, companyName); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		exists, err := s.buyerRepo.ExistsByEmail(ctx, sellerID, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "A buyer with this email already exists")
		}
		if err := buyer.UpdateEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := buyer.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.TaxID != nil {
		if err := buyer.SetTaxID(*req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.ShippingAddress != nil {
		addr, err := req.ShippingAddress.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		buyer.SetShippingAddress(addr)
	}
	if req.BillingAddress != nil {
		addr, err := req.BillingAddress.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		buyer.SetBillingAddress(addr)
	}
	if req.Notes != nil {
		buyer.SetNotes(*req.Notes)
	}
	if req.Attributes != nil {
		if err := buyer.SetAttributes(*req.Attributes); err != nil {
			return nil, err
		}
	}

	if err := s.buyerRepo.SaveWithLock(ctx, buyer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, buyer)

	response := ToBuyerResponse(buyer)
	return &response, nil
}

// LinkUser attaches a registered identity account to a buyer
func (s *BuyerService) LinkUser(ctx context.Context, sellerID, buyerID, userID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.LinkUser(userID); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

// SuspendWholesale suspends a buyer's wholesale access
func (s *BuyerService) SuspendWholesale(ctx context.Context, sellerID, buyerID uuid.UUID, req SuspendWholesaleRequest) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.SuspendWholesale(req.Reason); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

// ReinstateWholesale restores suspended wholesale access
func (s *BuyerService) ReinstateWholesale(ctx context.Context, sellerID, buyerID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.ReinstateWholesale(); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

// Block blocks a buyer from placing orders
func (s *BuyerService) Block(ctx context.Context, sellerID, buyerID uuid.UUID, req BlockBuyerRequest) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.Block(req.Reason); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

// Unblock lifts a block on a buyer
func (s *BuyerService) Unblock(ctx context.Context, sellerID, buyerID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.Unblock(); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

// Deactivate deactivates a buyer
func (s *BuyerService) Deactivate(ctx context.Context, sellerID, buyerID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.Deactivate(); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

// Activate reactivates a deactivated buyer
func (s *BuyerService) Activate(ctx context.Context, sellerID, buyerID uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.Activate(); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, buyer)
}

func (s *BuyerService) saveAndRespond(ctx context.Context, buyer *partner.Buyer) (*BuyerResponse, error) {
	if err := s.buyerRepo.SaveWithLock(ctx, buyer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, buyer)

	response := ToBuyerResponse(buyer)
	return &response, nil
}

func (s *BuyerService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}

package wholesale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// MockTermsRepository is a mock implementation of TermsRepository
type MockTermsRepository struct {
	mock.Mock
}

func (m *MockTermsRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) (*wholesale.Terms, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wholesale.Terms), args.Error(1)
}

func (m *MockTermsRepository) Save(ctx context.Context, terms *wholesale.Terms) error {
	args := m.Called(ctx, terms)
	return args.Error(0)
}

func (m *MockTermsRepository) SaveWithLock(ctx context.Context, terms *wholesale.Terms) error {
	args := m.Called(ctx, terms)
	return args.Error(0)
}

func (m *MockTermsRepository) Delete(ctx context.Context, sellerID uuid.UUID) error {
	args := m.Called(ctx, sellerID)
	return args.Error(0)
}

// MockInvitationRepository is a mock implementation of InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*wholesale.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wholesale.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*wholesale.Invitation, error) {
	args := m.Called(ctx, sellerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wholesale.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByToken(ctx context.Context, token string) (*wholesale.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wholesale.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]wholesale.Invitation, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wholesale.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*wholesale.Invitation, error) {
	args := m.Called(ctx, sellerID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wholesale.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]wholesale.Invitation, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wholesale.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, sellerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationRepository) Save(ctx context.Context, invitation *wholesale.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) SaveWithLock(ctx context.Context, invitation *wholesale.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBuyerRepository is a mock implementation of partner.BuyerRepository
type MockBuyerRepository struct {
	mock.Mock
}

func (m *MockBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*partner.Buyer, error) {
	args := m.Called(ctx, sellerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) FindByEmail(ctx context.Context, sellerID uuid.UUID, email string) (*partner.Buyer, error) {
	args := m.Called(ctx, sellerID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) FindByUser(ctx context.Context, sellerID, userID uuid.UUID) (*partner.Buyer, error) {
	args := m.Called(ctx, sellerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]partner.Buyer, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) FindWholesaleApproved(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]partner.Buyer, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) Save(ctx context.Context, buyer *partner.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) SaveWithLock(ctx context.Context, buyer *partner.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) DeleteForSeller(ctx context.Context, sellerID, id uuid.UUID) error {
	args := m.Called(ctx, sellerID, id)
	return args.Error(0)
}

func (m *MockBuyerRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, sellerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuyerRepository) ExistsByEmail(ctx context.Context, sellerID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, sellerID, email)
	return args.Bool(0), args.Error(1)
}

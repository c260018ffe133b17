package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
)

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

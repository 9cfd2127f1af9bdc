package offers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOffer(ctx context.Context, offer *Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockRepository) GetOfferByID(ctx context.Context, id uuid.UUID) (*Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Offer), args.Error(1)
}

func (m *MockRepository) ListOffersByUser(ctx context.Context, userID uuid.UUID) ([]Offer, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Offer), args.Error(1)
}

func (m *MockRepository) UpdateOffer(ctx context.Context, offer *Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockRepository) SaveSnapshot(ctx context.Context, id uuid.UUID, snapshot json.RawMessage) error {
	args := m.Called(ctx, id, snapshot)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status OfferStatus, publishedAt *time.Time) error {
	args := m.Called(ctx, id, status, publishedAt)
	return args.Error(0)
}

func (m *MockRepository) CreatePackage(ctx context.Context, pkg *Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockRepository) ListPackages(ctx context.Context, offerID uuid.UUID) ([]Package, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]Package), args.Error(1)
}

func (m *MockRepository) ListPackagesForOffers(ctx context.Context, offerIDs []uuid.UUID) ([]Package, error) {
	args := m.Called(ctx, offerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Package), args.Error(1)
}

func (m *MockRepository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListStaleDrafts(ctx context.Context, userID uuid.UUID, source OfferSource, before time.Time) ([]Offer, error) {
	args := m.Called(ctx, userID, source, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Offer), args.Error(1)
}

func (m *MockRepository) ListUsersWithStaleDrafts(ctx context.Context, source OfferSource, before time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, source, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRepository) MarkDeleted(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListPublished(ctx context.Context, filters *MarketplaceFilters) ([]Offer, int, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]Offer), args.Int(1), args.Error(2)
}

package sale

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockLedger is a mock implementation of sale.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) InsertSale(ctx context.Context, s *sale.Sale) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) InsertLineItem(ctx context.Context, item *sale.LineItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) FindSaleByID(ctx context.Context, id int64) (*sale.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockLedger) ListSalesWithClientNames(ctx context.Context, filter shared.Filter) ([]sale.Summary, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]sale.Summary), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedger) LineItemsForSale(ctx context.Context, saleID int64) ([]sale.LineItem, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sale.LineItem), args.Error(1)
}

// MockProductCatalog is a mock implementation of catalog.ProductCatalog
type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) GetByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductCatalog) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductCatalog) AdjustStock(ctx context.Context, productID int64, delta int) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

// MockPartyDirectory is a mock implementation of partner.PartyDirectory
type MockPartyDirectory struct {
	mock.Mock
}

func (m *MockPartyDirectory) ClientByID(ctx context.Context, id int64) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockPartyDirectory) ClientByCode(ctx context.Context, code string) (*partner.Client, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockPartyDirectory) SupplierByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockPartyDirectory) SupplierByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

// MockReplayStore is a mock implementation of CommitReplayStore
type MockReplayStore struct {
	mock.Mock
}

func (m *MockReplayStore) Reserve(ctx context.Context, key string, ttl time.Duration) (int64, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockReplayStore) Complete(ctx context.Context, key string, saleID int64, ttl time.Duration) error {
	args := m.Called(ctx, key, saleID, ttl)
	return args.Error(0)
}

func (m *MockReplayStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

package receipt

import (
	"context"

	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
)

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
	return args.Get(0).([]sale.Summary), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedger) LineItemsForSale(ctx context.Context, saleID int64) ([]sale.LineItem, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sale.LineItem), args.Error(1)
}

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

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context) (*business.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Profile), args.Error(1)
}

// fakeRenderer records the HTML it was given and returns a tiny PDF
type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.html = req.HTML
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4 receipt"), PageCount: 1}, nil
}

func (f *fakeRenderer) Close() error { return nil }

type fakeViewer struct {
	opened []string
	err    error
}

func (f *fakeViewer) Open(ctx context.Context, path string) error {
	f.opened = append(f.opened, path)
	return f.err
}

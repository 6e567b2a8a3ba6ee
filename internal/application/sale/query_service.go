package sale

import (
	"context"

	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
)

// QueryService answers read-only questions about committed sales.
type QueryService struct {
	ledger sale.Ledger
}

// NewQueryService creates a new QueryService
func NewQueryService(ledger sale.Ledger) *QueryService {
	return &QueryService{ledger: ledger}
}

// GetSale returns a sale with its line items
func (s *QueryService) GetSale(ctx context.Context, id int64) (*SaleResponse, error) {
	found, err := s.ledger.FindSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.ledger.LineItemsForSale(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(found, items)
	return &resp, nil
}

// ListSales returns one page of sales with client names. Walk-in sales
// are labelled with the walk-in placeholder name.
func (s *QueryService) ListSales(ctx context.Context, filter shared.Filter) (*shared.Paginated[SaleListItemResponse], error) {
	filter = filter.Normalize()
	rows, total, err := s.ledger.ListSalesWithClientNames(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleListItemResponse, 0, len(rows))
	for _, row := range rows {
		name := row.ClientName
		if row.ClientID == nil || name == "" {
			name = partner.WalkInClientName
		}
		items = append(items, SaleListItemResponse{
			ID:         row.ID,
			ClientID:   row.ClientID,
			ClientName: name,
			Vendor:     row.Vendor,
			Total:      row.Total,
			CreatedAt:  row.CreatedAt,
		})
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

package sale

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
)

// Ledger is the persistence boundary for sales and line items. It holds no
// business rules.
type Ledger interface {
	// InsertSale stores the header, sets sale.ID to the store-generated id
	// and returns it
	InsertSale(ctx context.Context, sale *Sale) (int64, error)

	// InsertLineItem stores one line item and sets its id
	InsertLineItem(ctx context.Context, item *LineItem) (int64, error)

	// FindSaleByID returns shared.ErrNotFound when no sale has this id
	FindSaleByID(ctx context.Context, id int64) (*Sale, error)

	// ListSalesWithClientNames lists sales newest first by default, with the
	// client name resolved. Walk-in sales carry an empty ClientName.
	ListSalesWithClientNames(ctx context.Context, filter shared.Filter) ([]Summary, int64, error)

	// LineItemsForSale returns the sale's items in insertion order. A sale
	// without items yields an empty slice.
	LineItemsForSale(ctx context.Context, saleID int64) ([]LineItem, error)
}

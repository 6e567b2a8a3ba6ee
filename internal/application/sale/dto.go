package sale

import (
	"time"

	"github.com/pos/backend/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// CommitInput is the cart handed to Coordinator.Commit.
type CommitInput struct {
	Lines    []sale.CartLine
	ClientID *int64
	Vendor   string
}

// CommitResult describes a committed sale.
type CommitResult struct {
	SaleID    int64           `json:"id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	LineCount int             `json:"line_count"`
	// Replayed is set when the result comes from an earlier commit with
	// the same idempotency key
	Replayed bool `json:"replayed"`
}

// LineItemResponse is a line item as returned to callers.
type LineItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse is a sale with its line items.
type SaleResponse struct {
	ID        int64              `json:"id"`
	ClientID  *int64             `json:"client_id,omitempty"`
	Vendor    string             `json:"vendor"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []LineItemResponse `json:"items"`
}

// SaleListItemResponse is one row of the sales listing.
type SaleListItemResponse struct {
	ID         int64           `json:"id"`
	ClientID   *int64          `json:"client_id,omitempty"`
	ClientName string          `json:"client_name"`
	Vendor     string          `json:"vendor"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToSaleResponse converts a sale and its items
func ToSaleResponse(s *sale.Sale, items []sale.LineItem) SaleResponse {
	resp := SaleResponse{
		ID:        s.ID,
		ClientID:  s.ClientID,
		Vendor:    s.Vendor,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
		Items:     make([]LineItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return resp
}

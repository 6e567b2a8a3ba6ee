// Package sale models committed sales and their line items.
//
// A sale moves from an in-memory cart to a committed record exactly once.
// Committed sales and line items are immutable; there is no update or
// cancellation path.
package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one requested product and quantity before commit.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// PricedLine is a cart line with the unit price captured at commit time.
type PricedLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity * unit price
func (l PricedLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is a committed transaction record. ClientID is nil for walk-in sales.
type Sale struct {
	ID        int64
	ClientID  *int64
	Vendor    string
	Total     decimal.Decimal
	CreatedAt time.Time
}

// LineItem is one product entry of a sale. UnitPrice is the price captured
// when the sale was committed, not the current catalog price.
type LineItem struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	ProductName string // read-side projection, not persisted on the line
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal returns quantity * unit price
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Summary is a sale row joined with its client name for listings.
type Summary struct {
	ID         int64
	ClientID   *int64
	ClientName string
	Vendor     string
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// ValidateCart checks the cart shape. It never touches the store.
func ValidateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return NewValidationError("lines", "cart must contain at least one line")
	}
	for i, line := range lines {
		if line.ProductID <= 0 {
			return NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "product id must be positive")
		}
		if line.Quantity <= 0 {
			return NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "quantity must be greater than zero")
		}
	}
	return nil
}

// ValidateVendor checks the cashier name recorded on the sale
func ValidateVendor(vendor string) error {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return NewValidationError("vendor", "vendor is required")
	}
	if len(vendor) > 100 {
		return NewValidationError("vendor", "vendor cannot exceed 100 characters")
	}
	return nil
}

// MergeCart folds repeated products into one line each, keeping the order
// in which products first appear.
func MergeCart(lines []CartLine) []CartLine {
	index := make(map[int64]int, len(lines))
	merged := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// NewSale builds the sale header for priced lines. The total is the sum of
// line subtotals.
func NewSale(clientID *int64, vendor string, lines []PricedLine, now time.Time) (*Sale, error) {
	if len(lines) == 0 {
		return nil, NewValidationError("lines", "cart must contain at least one line")
	}
	if err := ValidateVendor(vendor); err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, line := range lines {
		if line.UnitPrice.IsNegative() {
			return nil, NewValidationError("unit_price", "unit price cannot be negative")
		}
		total = total.Add(line.Subtotal())
	}
	return &Sale{
		ClientID:  clientID,
		Vendor:    strings.TrimSpace(vendor),
		Total:     total,
		CreatedAt: now,
	}, nil
}

// LineItemFor builds the line item that records line under this sale. The
// sale must already carry its store-generated id.
func (s *Sale) LineItemFor(line PricedLine) LineItem {
	return LineItem{
		SaleID:    s.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
}

// TotalMatches reports whether the stored total equals the sum of items.
func (s *Sale) TotalMatches(items []LineItem) bool {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal())
	}
	return sum.Equal(s.Total)
}

// IsWalkIn reports whether the sale has no linked client
func (s *Sale) IsWalkIn() bool {
	return s.ClientID == nil
}

package catalog

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is only ever changed through
// ProductCatalog.AdjustStock.
type Product struct {
	ID           int64
	Code         string
	Name         string
	SupplierID   *int64
	SupplierName string
	Stock        int
	Price        decimal.Decimal
}

// NewProduct validates and builds a product value.
func NewProduct(code, name string, stock int, price decimal.Decimal) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &Product{
		Code:  code,
		Name:  name,
		Stock: stock,
		Price: price,
	}, nil
}

// CanSupply reports whether the current stock covers quantity.
func (p *Product) CanSupply(quantity int) bool {
	return quantity > 0 && quantity <= p.Stock
}

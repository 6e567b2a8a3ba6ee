package catalog

import "context"

// ProductCatalog is the read/write boundary over product records.
type ProductCatalog interface {
	// GetByCode finds a product by its unique code
	GetByCode(ctx context.Context, code string) (*Product, error)

	// GetByID finds a product by id with its supplier name resolved
	GetByID(ctx context.Context, id int64) (*Product, error)

	// AdjustStock applies delta to the product stock. A negative delta is
	// applied only when the current stock covers it; otherwise the call
	// fails with an InsufficientStock error and nothing changes.
	AdjustStock(ctx context.Context, productID int64, delta int) error
}

package partner

import "context"

// PartyDirectory looks up clients and suppliers. Lookups that find nothing
// return shared.ErrNotFound.
type PartyDirectory interface {
	ClientByID(ctx context.Context, id int64) (*Client, error)
	ClientByCode(ctx context.Context, code string) (*Client, error)
	SupplierByID(ctx context.Context, id int64) (*Supplier, error)
	SupplierByCode(ctx context.Context, code string) (*Supplier, error)
}

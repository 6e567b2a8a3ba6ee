package sale

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
)

// TransactionScope runs a commit as one unit of work. Every repository
// handed to fn shares the same transaction: if fn returns an error nothing
// it wrote is kept.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// unit of work.
type TransactionalRepositories interface {
	// Ledger returns the sale ledger scoped to the current transaction
	Ledger() sale.Ledger
	// Products returns the product catalog scoped to the current transaction
	Products() catalog.ProductCatalog
	// Parties returns the party directory scoped to the current transaction
	Parties() partner.PartyDirectory
}

// NoOpTransactionScope runs fn directly against the given repositories.
// It is meant for unit tests of the coordinator.
type NoOpTransactionScope struct {
	ledger   sale.Ledger
	products catalog.ProductCatalog
	parties  partner.PartyDirectory
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(ledger sale.Ledger, products catalog.ProductCatalog, parties partner.PartyDirectory) *NoOpTransactionScope {
	return &NoOpTransactionScope{ledger: ledger, products: products, parties: parties}
}

// Execute runs fn without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Ledger() sale.Ledger              { return s.ledger }
func (s *NoOpTransactionScope) Products() catalog.ProductCatalog { return s.products }
func (s *NoOpTransactionScope) Parties() partner.PartyDirectory  { return s.parties }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

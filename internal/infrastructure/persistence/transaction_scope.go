package persistence

import (
	"context"
	"fmt"
	"time"

	appsale "github.com/pos/backend/internal/application/sale"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
	"gorm.io/gorm"
)

// GormSaleTransactionScope runs a sale commit inside one GORM transaction.
// Every repository handed to the callback shares the transaction handle,
// so the sale, its line items and the stock decrements commit or roll back
// together.
type GormSaleTransactionScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormSaleTransactionScope creates a scope. A positive lockTimeout bounds
// every row-lock wait inside the transaction on postgres; sqlite bounds
// lock waits through the busy timeout in its DSN.
func NewGormSaleTransactionScope(db *gorm.DB, lockTimeout time.Duration) *GormSaleTransactionScope {
	return &GormSaleTransactionScope{db: db, lockTimeout: lockTimeout}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back; otherwise it is committed.
func (s *GormSaleTransactionScope) Execute(ctx context.Context, fn func(repos appsale.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			// SET LOCAL does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return wrapError("set lock timeout", err)
			}
		}
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	if err != nil {
		// Begin and commit failures come back from GORM unwrapped
		return wrapError("commit transaction", err)
	}
	return nil
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Ledger() sale.Ledger {
	return NewGormSaleLedger(r.tx)
}

func (r *gormTransactionalRepositories) Products() catalog.ProductCatalog {
	return NewGormProductCatalog(r.tx)
}

func (r *gormTransactionalRepositories) Parties() partner.PartyDirectory {
	return NewGormPartyDirectory(r.tx)
}

var _ appsale.TransactionScope = (*GormSaleTransactionScope)(nil)
var _ appsale.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, wrapError("op", nil))
	})

	t.Run("record not found maps to ErrNotFound", func(t *testing.T) {
		err := wrapError("find sale", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		stockErr := &sale.InsufficientStockError{ProductID: 1, Requested: 3}
		assert.Same(t, stockErr, wrapError("adjust stock", stockErr))
	})

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"postgres lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"postgres statement timeout", &pgconn.PgError{Code: "57014"}, true},
		{"postgres deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"postgres connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"sqlite locked", sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"bad connection", driver.ErrBadConn, true},
		{"anything else", errors.New("disk full"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError("commit", tt.err)

			var pe *sale.PersistenceError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.retryable, pe.Retryable)
			assert.Equal(t, "commit", pe.Op)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, shared.ErrPersistence)
		})
	}
}

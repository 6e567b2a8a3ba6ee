package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insertSale(t *testing.T, db *gorm.DB, clientID *int64, vendor string, items ...sale.PricedLine) *sale.Sale {
	t.Helper()
	ctx := context.Background()
	ledger := NewGormSaleLedger(db)

	s, err := sale.NewSale(clientID, vendor, items, time.Now().UTC())
	require.NoError(t, err)
	_, err = ledger.InsertSale(ctx, s)
	require.NoError(t, err)
	for _, line := range items {
		item := s.LineItemFor(line)
		_, err := ledger.InsertLineItem(ctx, &item)
		require.NoError(t, err)
	}
	return s
}

func TestGormSaleLedger_InsertSaleReturningID(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	mock.ExpectQuery(`INSERT INTO "sales" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	s := &sale.Sale{Vendor: "Ana", Total: decimal.NewFromInt(50), CreatedAt: time.Now()}
	id, err := NewGormSaleLedger(db).InsertSale(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int64(42), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSaleLedger_InsertLineItemBindsSaleID(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "line_items" ("sale_id","product_id","quantity","unit_price") VALUES ($1,$2,$3,$4) RETURNING "id"`)).
		WithArgs(int64(42), int64(7), 5, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	item := &sale.LineItem{SaleID: 42, ProductID: 7, Quantity: 5, UnitPrice: decimal.NewFromInt(10)}
	id, err := NewGormSaleLedger(db).InsertLineItem(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSaleLedger_InsertLineItemRequiresSale(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	_, err := NewGormSaleLedger(db).InsertLineItem(context.Background(), &sale.LineItem{ProductID: 7, Quantity: 1})
	assert.ErrorIs(t, err, shared.ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSaleLedger_LineItemsForSale(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	ledger := NewGormSaleLedger(db)

	p1 := seedProduct(t, db, "P-001", 10, "10.00")
	p2 := seedProduct(t, db, "P-002", 10, "1.15")
	s := insertSale(t, db, nil, "Ana",
		sale.PricedLine{ProductID: p2.ID, Quantity: 3, UnitPrice: p2.Price},
		sale.PricedLine{ProductID: p1.ID, Quantity: 1, UnitPrice: p1.Price},
	)

	t.Run("items come back in insertion order with names", func(t *testing.T) {
		items, err := ledger.LineItemsForSale(ctx, s.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, p2.ID, items[0].ProductID)
		assert.Equal(t, "Product P-002", items[0].ProductName)
		assert.Equal(t, p1.ID, items[1].ProductID)
		for _, item := range items {
			assert.Equal(t, s.ID, item.SaleID)
		}
		assert.True(t, s.TotalMatches(items))
	})

	t.Run("unknown sale yields empty slice", func(t *testing.T) {
		items, err := ledger.LineItemsForSale(ctx, 999)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := ledger.FindSaleByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", found.Vendor)
		assert.True(t, found.Total.Equal(decimal.RequireFromString("13.45")))
		assert.True(t, found.IsWalkIn())

		_, err = ledger.FindSaleByID(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSaleLedger_ListSalesWithClientNames(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	ledger := NewGormSaleLedger(db)

	p := seedProduct(t, db, "P-001", 100, "5.00")
	client := seedClient(t, db, "12345678", "Maria Quispe")
	line := sale.PricedLine{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price}

	walkIn := insertSale(t, db, nil, "Ana", line)
	withClient := insertSale(t, db, &client.ID, "Luis", line)

	t.Run("walk-in sales are listed, newest first", func(t *testing.T) {
		rows, total, err := ledger.ListSalesWithClientNames(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 2)

		assert.Equal(t, withClient.ID, rows[0].ID)
		assert.Equal(t, "Maria Quispe", rows[0].ClientName)
		assert.Equal(t, walkIn.ID, rows[1].ID)
		assert.Empty(t, rows[1].ClientName)
		assert.Nil(t, rows[1].ClientID)
	})

	t.Run("search matches vendor or client name", func(t *testing.T) {
		rows, total, err := ledger.ListSalesWithClientNames(ctx, shared.Filter{Search: "quispe"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, withClient.ID, rows[0].ID)

		rows, _, err = ledger.ListSalesWithClientNames(ctx, shared.Filter{Search: "ANA"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, walkIn.ID, rows[0].ID)
	})

	t.Run("paging", func(t *testing.T) {
		rows, total, err := ledger.ListSalesWithClientNames(ctx, shared.Filter{Page: 2, PageSize: 1, OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 1)
		assert.Equal(t, withClient.ID, rows[0].ID)
	})
}

func TestGormPartyDirectory(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	dir := NewGormPartyDirectory(db)
	client := seedClient(t, db, "12345678", "Maria Quispe")

	got, err := dir.ClientByCode(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)

	got, err = dir.ClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Av. Lima 123", got.Address)

	_, err = dir.ClientByID(ctx, 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = dir.SupplierByCode(ctx, "none")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var _ partner.PartyDirectory = dir
}

func TestGormBusinessProfileRepository_Get(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormBusinessProfileRepository(db)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, db.Exec(
		"INSERT INTO config (business_name, tax_id, phone, address, receipt_message) VALUES (?, ?, ?, ?, ?)",
		"Bodega Central", "20601234567", "014445555", "Jr. Union 100", "Gracias por su compra",
	).Error)

	profile, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bodega Central", profile.BusinessName)
	assert.Equal(t, "Gracias por su compra", profile.ReceiptMessage)
}

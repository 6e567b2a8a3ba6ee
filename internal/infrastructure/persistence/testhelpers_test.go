package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newSQLiteDB opens a migrated sqlite database in a temp file
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "pos.db"),
		LockTimeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...))
	return database.DB
}

// newMockPostgres creates a GORM postgres handle over sqlmock
func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func seedProduct(t *testing.T, db *gorm.DB, code string, stock int, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Product "+code, stock, decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, NewGormProductCatalog(db).Create(context.Background(), p))
	return p
}

func seedClient(t *testing.T, db *gorm.DB, code, name string) *partner.Client {
	t.Helper()
	m := &models.ClientModel{Code: code, Name: name, Phone: "999888777", Address: "Av. Lima 123"}
	require.NoError(t, db.Create(m).Error)
	return m.ToDomain()
}

func stockOf(t *testing.T, db *gorm.DB, productID int64) int {
	t.Helper()
	p, err := NewGormProductCatalog(db).GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

// snapshot captures every row of the tables a commit writes
func snapshot(t *testing.T, db *gorm.DB) map[string][]map[string]any {
	t.Helper()
	state := map[string][]map[string]any{}
	for _, table := range []string{"products", "sales", "line_items"} {
		var rows []map[string]any
		require.NoError(t, db.Table(table).Order("id").Find(&rows).Error)
		state[table] = rows
	}
	return state
}

// Package testutil provides shared fixtures for the POS backend tests:
// migrated databases, seed data and HTTP helpers.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/pos/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM postgres handle over sqlmock, for asserting SQL shape
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a mock database closed on test cleanup
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewSQLiteDatabase opens a file-backed sqlite database with the production
// migrations applied. Unlike AutoMigrate this exercises the real schema.
func NewSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "pos.db"),
		LockTimeout: 5 * time.Second,
	}
	database, err := persistence.NewDatabase(cfg, nil)
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	Migrate(t, sqlDB, config.DriverSQLite)
	return database
}

// Migrate applies every embedded migration for driver
func Migrate(t *testing.T, sqlDB *sql.DB, driver string) {
	t.Helper()

	migrator, err := migration.New(sqlDB, driver, migrations.FS, nil)
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, migrator.Up(), "Failed to run migrations")
}

// SeedProduct inserts a product with the given stock and price
func SeedProduct(t *testing.T, db *gorm.DB, code string, stock int, price string) *catalog.Product {
	t.Helper()

	p, err := catalog.NewProduct(code, "Producto "+code, stock, decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductCatalog(db).Create(context.Background(), p))
	return p
}

// SeedClient inserts a client identified by its DNI/RUC
func SeedClient(t *testing.T, db *gorm.DB, code, name string) *partner.Client {
	t.Helper()

	m := &models.ClientModel{Code: code, Name: name, Phone: "987654321", Address: "Jr. Puno 456"}
	require.NoError(t, db.Create(m).Error)
	return m.ToDomain()
}

// SeedUser creates a staff account that can log in with email and password
func SeedUser(t *testing.T, db *gorm.DB, name, email, password string) *identity.UserIdentity {
	t.Helper()

	user, err := persistence.NewGormAuthGateway(db).CreateUser(context.Background(),
		name, identity.NormalizeEmail(email), identity.HashPassword(password), "cashier")
	require.NoError(t, err)
	return user
}

// SeedBusinessProfile replaces the default receipt header row
func SeedBusinessProfile(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Where("1 = 1").Delete(&models.BusinessProfileModel{}).Error)
	require.NoError(t, db.Create(&models.BusinessProfileModel{
		BusinessName:   "Bodega San Martin",
		TaxID:          "20123456789",
		Phone:          "014567890",
		Address:        "Av. Grau 789, Lima",
		ReceiptMessage: "Gracias por su compra",
	}).Error)
}

// StockOf reads the current stock of a product
func StockOf(t *testing.T, db *gorm.DB, productID int64) int {
	t.Helper()

	p, err := persistence.NewGormProductCatalog(db).GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

// CountRows counts the rows of table
func CountRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

// ContextWithTimeout creates a context with a timeout for tests
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually retries condition until it passes or fails the test
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}

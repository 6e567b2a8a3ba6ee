package models

import "github.com/pos/backend/internal/domain/identity"

// UserModel is a staff account. PasswordHash holds the hex SHA-256 digest
// and never leaves this package.
type UserModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"column:password_hash;type:char(64);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'cashier'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain UserIdentity.
func (m *UserModel) ToDomain() *identity.UserIdentity {
	return &identity.UserIdentity{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
		Role:  m.Role,
	}
}

// AllModels lists every model in dependency order for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&SupplierModel{},
		&ProductModel{},
		&ClientModel{},
		&SaleModel{},
		&LineItemModel{},
		&BusinessProfileModel{},
		&UserModel{},
	}
}

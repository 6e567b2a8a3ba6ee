package models

import "github.com/pos/backend/internal/domain/partner"

// ClientModel is the persistence model for partner.Client.
type ClientModel struct {
	BaseModel
	Code    string `gorm:"type:varchar(20);not null;uniqueIndex:idx_clients_code"`
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		ID:      m.ID,
		Code:    m.Code,
		Name:    m.Name,
		Phone:   m.Phone,
		Address: m.Address,
	}
}

// SupplierModel is the persistence model for partner.Supplier.
type SupplierModel struct {
	BaseModel
	Code    string `gorm:"type:varchar(20);not null;uniqueIndex:idx_suppliers_code"`
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		ID:      m.ID,
		Code:    m.Code,
		Name:    m.Name,
		Phone:   m.Phone,
		Address: m.Address,
	}
}

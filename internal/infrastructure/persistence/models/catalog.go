package models

import (
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for catalog.Product.
type ProductModel struct {
	BaseModel
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_code"`
	Name       string          `gorm:"type:varchar(200);not null"`
	SupplierID *int64          `gorm:"index"`
	Stock      int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Supplier   *SupplierModel  `gorm:"foreignKey:SupplierID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		ID:         m.ID,
		Code:       m.Code,
		Name:       m.Name,
		SupplierID: m.SupplierID,
		Stock:      m.Stock,
		Price:      m.Price,
	}
	if m.Supplier != nil {
		p.SupplierName = m.Supplier.Name
	}
	return p
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		BaseModel:  BaseModel{ID: p.ID},
		Code:       p.Code,
		Name:       p.Name,
		SupplierID: p.SupplierID,
		Stock:      p.Stock,
		Price:      p.Price,
	}
}

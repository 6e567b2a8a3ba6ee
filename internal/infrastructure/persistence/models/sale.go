package models

import (
	"time"

	"github.com/pos/backend/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for sale.Sale.
type SaleModel struct {
	TimestampedModel
	ClientID *int64          `gorm:"index"`
	Vendor   string          `gorm:"type:varchar(100);not null"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_sales_total,total >= 0"`
	Client   *ClientModel    `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale.
func (m *SaleModel) ToDomain() *sale.Sale {
	return &sale.Sale{
		ID:        m.ID,
		ClientID:  m.ClientID,
		Vendor:    m.Vendor,
		Total:     m.Total,
		CreatedAt: m.CreatedAt,
	}
}

// SaleModelFromDomain creates a persistence model from a domain Sale.
func SaleModelFromDomain(s *sale.Sale) *SaleModel {
	return &SaleModel{
		TimestampedModel: TimestampedModel{BaseModel: BaseModel{ID: s.ID}, CreatedAt: s.CreatedAt},
		ClientID:         s.ClientID,
		Vendor:           s.Vendor,
		Total:            s.Total,
	}
}

// LineItemModel is the persistence model for sale.LineItem.
type LineItemModel struct {
	BaseModel
	SaleID    int64           `gorm:"not null;index:idx_line_items_sale"`
	ProductID int64           `gorm:"not null;index"`
	Quantity  int             `gorm:"not null;check:chk_line_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Sale      *SaleModel      `gorm:"foreignKey:SaleID;constraint:OnDelete:RESTRICT"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() sale.LineItem {
	item := sale.LineItem{
		ID:        m.ID,
		SaleID:    m.SaleID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}
	if m.Product != nil {
		item.ProductName = m.Product.Name
	}
	return item
}

// LineItemModelFromDomain creates a persistence model from a domain LineItem.
func LineItemModelFromDomain(li *sale.LineItem) *LineItemModel {
	return &LineItemModel{
		BaseModel: BaseModel{ID: li.ID},
		SaleID:    li.SaleID,
		ProductID: li.ProductID,
		Quantity:  li.Quantity,
		UnitPrice: li.UnitPrice,
	}
}

// SaleSummaryRow is the scan target of the sales listing join.
type SaleSummaryRow struct {
	ID         int64
	ClientID   *int64
	ClientName *string
	Vendor     string
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// ToDomain converts the row to a domain Summary. Walk-in sales keep an
// empty client name.
func (r *SaleSummaryRow) ToDomain() sale.Summary {
	s := sale.Summary{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Vendor:    r.Vendor,
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
	}
	if r.ClientName != nil {
		s.ClientName = *r.ClientName
	}
	return s
}

package models

import "github.com/pos/backend/internal/domain/business"

// BusinessProfileModel is the single configuration row printed on receipts.
type BusinessProfileModel struct {
	BaseModel
	BusinessName   string `gorm:"type:varchar(200);not null"`
	TaxID          string `gorm:"type:varchar(20);not null"`
	Phone          string `gorm:"type:varchar(30)"`
	Address        string `gorm:"type:varchar(255)"`
	ReceiptMessage string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BusinessProfileModel) TableName() string {
	return "config"
}

// ToDomain converts the persistence model to a domain Profile.
func (m *BusinessProfileModel) ToDomain() *business.Profile {
	return &business.Profile{
		ID:             m.ID,
		BusinessName:   m.BusinessName,
		TaxID:          m.TaxID,
		Phone:          m.Phone,
		Address:        m.Address,
		ReceiptMessage: m.ReceiptMessage,
	}
}

package persistence

import (
	"context"
	"strings"

	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartyDirectory implements partner.PartyDirectory using GORM
type GormPartyDirectory struct {
	db *gorm.DB
}

// NewGormPartyDirectory creates a new GormPartyDirectory
func NewGormPartyDirectory(db *gorm.DB) *GormPartyDirectory {
	return &GormPartyDirectory{db: db}
}

// ClientByID finds a client by id
func (r *GormPartyDirectory) ClientByID(ctx context.Context, id int64) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, wrapError("find client", err)
	}
	return model.ToDomain(), nil
}

// ClientByCode finds a client by DNI/RUC
func (r *GormPartyDirectory) ClientByCode(ctx context.Context, code string) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code)).First(&model).Error; err != nil {
		return nil, wrapError("find client by code", err)
	}
	return model.ToDomain(), nil
}

// SupplierByID finds a supplier by id
func (r *GormPartyDirectory) SupplierByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, wrapError("find supplier", err)
	}
	return model.ToDomain(), nil
}

// SupplierByCode finds a supplier by RUC
func (r *GormPartyDirectory) SupplierByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code)).First(&model).Error; err != nil {
		return nil, wrapError("find supplier by code", err)
	}
	return model.ToDomain(), nil
}

var _ partner.PartyDirectory = (*GormPartyDirectory)(nil)

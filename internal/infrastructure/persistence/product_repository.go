package persistence

import (
	"context"
	"strings"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductCatalog implements catalog.ProductCatalog using GORM
type GormProductCatalog struct {
	db *gorm.DB
}

// NewGormProductCatalog creates a new GormProductCatalog
func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// GetByCode finds a product by its code
func (r *GormProductCatalog) GetByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("code = ?", strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		return nil, wrapError("find product by code", err)
	}
	return model.ToDomain(), nil
}

// GetByID finds a product by id with its supplier name resolved
func (r *GormProductCatalog) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, wrapError("find product", err)
	}
	return model.ToDomain(), nil
}

// AdjustStock applies delta in a single statement. A decrement carries the
// stock check in its WHERE clause, so of two concurrent decrements that
// together exceed the stock only one matches a row; the other affects zero
// rows and fails with InsufficientStockError.
func (r *GormProductCatalog) AdjustStock(ctx context.Context, productID int64, delta int) error {
	if delta == 0 {
		return nil
	}

	q := r.db.WithContext(ctx).Model(&models.ProductModel{})
	var result *gorm.DB
	if delta < 0 {
		result = q.Where("id = ? AND stock >= ?", productID, -delta).
			Update("stock", gorm.Expr("stock - ?", -delta))
	} else {
		result = q.Where("id = ?", productID).
			Update("stock", gorm.Expr("stock + ?", delta))
	}
	if result.Error != nil {
		return wrapError("adjust stock", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if delta < 0 {
		return &sale.InsufficientStockError{ProductID: productID, Requested: -delta}
	}
	return wrapError("adjust stock", gorm.ErrRecordNotFound)
}

// Create stores a new product. It is used by seeding and tests; stock is
// only changed afterwards through AdjustStock.
func (r *GormProductCatalog) Create(ctx context.Context, p *catalog.Product) error {
	model := models.ProductModelFromDomain(p)
	if err := r.db.WithContext(ctx).Omit("Supplier").Create(model).Error; err != nil {
		return wrapError("create product", err)
	}
	p.ID = model.ID
	return nil
}

var _ catalog.ProductCatalog = (*GormProductCatalog)(nil)

package persistence

import (
	"context"
	"strings"

	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleLedger implements sale.Ledger using GORM. Sales and line items
// are append-only: there is no update or delete path.
type GormSaleLedger struct {
	db *gorm.DB
}

// NewGormSaleLedger creates a new GormSaleLedger
func NewGormSaleLedger(db *gorm.DB) *GormSaleLedger {
	return &GormSaleLedger{db: db}
}

// InsertSale stores the sale header and reads back the generated id from
// the insert itself.
func (r *GormSaleLedger) InsertSale(ctx context.Context, s *sale.Sale) (int64, error) {
	model := models.SaleModelFromDomain(s)
	model.ID = 0
	if err := r.db.WithContext(ctx).Omit("Client").Create(model).Error; err != nil {
		return 0, wrapError("insert sale", err)
	}
	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// InsertLineItem stores one line item under item.SaleID
func (r *GormSaleLedger) InsertLineItem(ctx context.Context, item *sale.LineItem) (int64, error) {
	if item.SaleID <= 0 {
		return 0, &sale.PersistenceError{Op: "insert line item", Err: shared.NewDomainError("INVALID_SALE_ID", "line item must reference a stored sale")}
	}
	model := models.LineItemModelFromDomain(item)
	model.ID = 0
	if err := r.db.WithContext(ctx).Omit("Sale", "Product").Create(model).Error; err != nil {
		return 0, wrapError("insert line item", err)
	}
	item.ID = model.ID
	return model.ID, nil
}

// FindSaleByID finds a sale by id
func (r *GormSaleLedger) FindSaleByID(ctx context.Context, id int64) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, wrapError("find sale", err)
	}
	return model.ToDomain(), nil
}

// ListSalesWithClientNames lists sales joined with their client. The join
// is a LEFT JOIN so walk-in sales are listed too.
func (r *GormSaleLedger) ListSalesWithClientNames(ctx context.Context, filter shared.Filter) ([]sale.Summary, int64, error) {
	filter = filter.Normalize()

	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Table("sales").
			Joins("LEFT JOIN clients ON clients.id = sales.client_id")
		if search := strings.TrimSpace(filter.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(sales.vendor) LIKE ? OR LOWER(clients.name) LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, wrapError("count sales", err)
	}

	var rows []models.SaleSummaryRow
	if err := query().
		Select("sales.id, sales.client_id, clients.name AS client_name, sales.vendor, sales.total, sales.created_at").
		Order("sales.id " + filter.OrderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, wrapError("list sales", err)
	}

	summaries := make([]sale.Summary, len(rows))
	for i := range rows {
		summaries[i] = rows[i].ToDomain()
	}
	return summaries, total, nil
}

// LineItemsForSale returns the sale's items in insertion order with product
// names resolved. A sale without items yields an empty slice.
func (r *GormSaleLedger) LineItemsForSale(ctx context.Context, saleID int64) ([]sale.LineItem, error) {
	var rows []models.LineItemModel
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapError("list line items", err)
	}
	items := make([]sale.LineItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

var _ sale.Ledger = (*GormSaleLedger)(nil)

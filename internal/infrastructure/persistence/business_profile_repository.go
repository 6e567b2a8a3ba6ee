package persistence

import (
	"context"

	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBusinessProfileRepository reads the single config row
type GormBusinessProfileRepository struct {
	db *gorm.DB
}

// NewGormBusinessProfileRepository creates a new GormBusinessProfileRepository
func NewGormBusinessProfileRepository(db *gorm.DB) *GormBusinessProfileRepository {
	return &GormBusinessProfileRepository{db: db}
}

// Get returns the lowest-id config row
func (r *GormBusinessProfileRepository) Get(ctx context.Context) (*business.Profile, error) {
	var model models.BusinessProfileModel
	if err := r.db.WithContext(ctx).Order("id ASC").First(&model).Error; err != nil {
		return nil, wrapError("load business profile", err)
	}
	return model.ToDomain(), nil
}

var _ business.ProfileRepository = (*GormBusinessProfileRepository)(nil)

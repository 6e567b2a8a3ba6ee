package persistence

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuthGateway implements identity.AuthGateway over the users table.
// It matches the stored digest in SQL and never loads it into the result.
type GormAuthGateway struct {
	db *gorm.DB
}

// NewGormAuthGateway creates a new GormAuthGateway
func NewGormAuthGateway(db *gorm.DB) *GormAuthGateway {
	return &GormAuthGateway{db: db}
}

// Authenticate returns the user whose email and digest both match, or
// (nil, nil) when none does.
func (g *GormAuthGateway) Authenticate(ctx context.Context, normalizedEmail, passwordHash string) (*identity.UserIdentity, error) {
	var model models.UserModel
	err := g.db.WithContext(ctx).
		Select("id", "name", "email", "role").
		Where("email = ? AND password_hash = ?", normalizedEmail, passwordHash).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapError("authenticate", err)
	}
	return model.ToDomain(), nil
}

// CreateUser stores a staff account with an already-computed digest. It is
// used by seeding and tests.
func (g *GormAuthGateway) CreateUser(ctx context.Context, name, normalizedEmail, passwordHash, role string) (*identity.UserIdentity, error) {
	if len(passwordHash) != 64 {
		return nil, shared.NewDomainError("INVALID_PASSWORD_HASH", "password hash must be a hex SHA-256 digest")
	}
	model := &models.UserModel{Name: name, Email: normalizedEmail, PasswordHash: passwordHash, Role: role}
	if err := g.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, wrapError("create user", err)
	}
	return model.ToDomain(), nil
}

var _ identity.AuthGateway = (*GormAuthGateway)(nil)

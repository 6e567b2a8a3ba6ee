package persistence

import (
	"context"
	"testing"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAuthGateway_Authenticate(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	gateway := NewGormAuthGateway(db)

	created, err := gateway.CreateUser(ctx, "Admin", "admin@pos.pe", identity.HashPassword("admin"), "admin")
	require.NoError(t, err)

	t.Run("matching digest returns the identity", func(t *testing.T) {
		user, err := gateway.Authenticate(ctx, identity.NormalizeEmail(" Admin@POS.pe "), identity.HashPassword("admin"))
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "Admin", user.Name)
		assert.Equal(t, "admin", user.Role)
	})

	t.Run("wrong password yields no identity", func(t *testing.T) {
		user, err := gateway.Authenticate(ctx, "admin@pos.pe", identity.HashPassword("nope"))
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown email yields no identity", func(t *testing.T) {
		user, err := gateway.Authenticate(ctx, "ghost@pos.pe", identity.HashPassword("admin"))
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("raw passwords are rejected on create", func(t *testing.T) {
		_, err := gateway.CreateUser(ctx, "Bad", "bad@pos.pe", "admin", "cashier")
		assert.Error(t, err)
	})
}

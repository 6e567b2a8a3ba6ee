package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(" P-001 ", "Arroz 1kg", 10, decimal.NewFromFloat(10.0))
	require.NoError(t, err)
	assert.Equal(t, "P-001", p.Code)
	assert.Equal(t, 10, p.Stock)

	_, err = NewProduct("", "Arroz", 1, decimal.Zero)
	assert.Error(t, err)
	_, err = NewProduct("P-002", " ", 1, decimal.Zero)
	assert.Error(t, err)
	_, err = NewProduct("P-003", "Azucar", -1, decimal.Zero)
	assert.Error(t, err)
	_, err = NewProduct("P-004", "Azucar", 1, decimal.NewFromInt(-2))
	assert.Error(t, err)
}

func TestProduct_CanSupply(t *testing.T) {
	p := &Product{Stock: 5}
	assert.True(t, p.CanSupply(5))
	assert.True(t, p.CanSupply(1))
	assert.False(t, p.CanSupply(6))
	assert.False(t, p.CanSupply(0))
}

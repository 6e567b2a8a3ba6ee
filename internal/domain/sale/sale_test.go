package sale

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Cart validation
// ============================================

func TestValidateCart(t *testing.T) {
	tests := []struct {
		name      string
		lines     []CartLine
		wantField string
	}{
		{"empty cart", nil, "lines"},
		{"zero quantity", []CartLine{{ProductID: 1, Quantity: 0}}, "lines[0].quantity"},
		{"negative quantity", []CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: -1}}, "lines[1].quantity"},
		{"missing product", []CartLine{{ProductID: 0, Quantity: 1}}, "lines[0].product_id"},
		{"valid", []CartLine{{ProductID: 1, Quantity: 5}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCart(tt.lines)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.True(t, errors.Is(err, shared.ErrValidation))
		})
	}
}

func TestValidateVendor(t *testing.T) {
	assert.NoError(t, ValidateVendor("Ana"))
	assert.Error(t, ValidateVendor("   "))
	assert.Error(t, ValidateVendor(strings.Repeat("a", 101)))
}

func TestMergeCart(t *testing.T) {
	merged := MergeCart([]CartLine{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 4},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, CartLine{ProductID: 2, Quantity: 5}, merged[0])
	assert.Equal(t, CartLine{ProductID: 1, Quantity: 3}, merged[1])
}

// ============================================
// Sale construction
// ============================================

func TestNewSale_TotalIsSumOfSubtotals(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	lines := []PricedLine{
		{ProductID: 1, Quantity: 5, UnitPrice: decimal.NewFromFloat(10.0)},
		{ProductID: 2, Quantity: 3, UnitPrice: decimal.RequireFromString("2.35")},
	}

	s, err := NewSale(nil, " Ana ", lines, now)
	require.NoError(t, err)

	assert.True(t, s.Total.Equal(decimal.RequireFromString("57.05")), "got %s", s.Total)
	assert.Equal(t, "Ana", s.Vendor)
	assert.Equal(t, now, s.CreatedAt)
	assert.True(t, s.IsWalkIn())
}

func TestNewSale_Rejections(t *testing.T) {
	_, err := NewSale(nil, "Ana", nil, time.Now())
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewSale(nil, "", []PricedLine{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}, time.Now())
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewSale(nil, "Ana", []PricedLine{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, time.Now())
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSale_LineItemForBindsSaleID(t *testing.T) {
	clientID := int64(7)
	s, err := NewSale(&clientID, "Ana", []PricedLine{{ProductID: 3, Quantity: 2, UnitPrice: decimal.NewFromInt(4)}}, time.Now())
	require.NoError(t, err)
	s.ID = 42

	item := s.LineItemFor(PricedLine{ProductID: 3, Quantity: 2, UnitPrice: decimal.NewFromInt(4)})

	assert.Equal(t, int64(42), item.SaleID)
	assert.Equal(t, int64(0), item.ID)
	assert.True(t, item.Subtotal().Equal(decimal.NewFromInt(8)))
	assert.False(t, s.IsWalkIn())
}

func TestSale_TotalMatches(t *testing.T) {
	s := &Sale{Total: decimal.NewFromInt(50)}

	assert.True(t, s.TotalMatches([]LineItem{{Quantity: 5, UnitPrice: decimal.NewFromInt(10)}}))
	assert.False(t, s.TotalMatches([]LineItem{{Quantity: 4, UnitPrice: decimal.NewFromInt(10)}}))
}

// ============================================
// Error taxonomy
// ============================================

func TestErrors_CodesAndMatching(t *testing.T) {
	stock := &InsufficientStockError{ProductID: 9, Requested: 3}
	assert.ErrorIs(t, stock, shared.ErrInsufficientStock)
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.CodeOf(stock))
	assert.Contains(t, stock.Error(), "product 9")

	cause := errors.New("lock wait timeout")
	pe := &PersistenceError{Op: "adjust stock", Retryable: true, Err: cause}
	assert.ErrorIs(t, pe, cause)
	assert.ErrorIs(t, pe, shared.ErrPersistence)
	assert.True(t, IsRetryable(pe))
	assert.False(t, IsRetryable(stock))
	assert.Equal(t, "PERSISTENCE_ERROR", shared.CodeOf(pe))

	assert.Equal(t, "VALIDATION_ERROR", shared.CodeOf(NewValidationError("lines", "empty")))
	assert.Equal(t, "NOT_FOUND", shared.CodeOf(shared.ErrNotFound))
	assert.Equal(t, "", shared.CodeOf(cause))
}

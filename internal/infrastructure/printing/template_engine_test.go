package printing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() *ReceiptData {
	return &ReceiptData{
		Business: ReceiptBusiness{
			Name:    "Bodega Central",
			TaxID:   "20123456789",
			Phone:   "01-555-0101",
			Address: "Av. Lima 123",
			Message: "Gracias por su compra",
		},
		Vendor: "Ana",
		Folio:  42,
		Date:   time.Date(2024, 3, 7, 15, 4, 0, 0, time.UTC),
		Client: ReceiptClient{Name: "Publico en General", Phone: "S/N", Address: "S/N"},
		Lines: []ReceiptLine{
			{Quantity: 5, Description: "Arroz 1kg", UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(50)},
			{Quantity: 2, Description: "Leche <entera>", UnitPrice: decimal.RequireFromString("3.25"), Subtotal: decimal.RequireFromString("6.50")},
		},
		Total: decimal.RequireFromString("56.50"),
	}
}

func TestTemplateEngine_RenderReceipt(t *testing.T) {
	engine, err := NewTemplateEngine(WithLocale("en-US"))
	require.NoError(t, err)

	html, err := engine.RenderReceipt(context.Background(), sampleReceipt())
	require.NoError(t, err)

	for _, want := range []string{
		"RUC: 20123456789",
		"Bodega Central",
		"Vendedor: Ana",
		"Folio: 000042",
		"Fecha: 07/03/2024",
		"DATOS DEL CLIENTE",
		"Publico en General",
		"Cant.", "Descripcion", "P. unt.", "P. Total",
		"Arroz 1kg",
		"Total S/: 56.50",
		"Cancelacion", "Firma",
		"Gracias por su compra",
	} {
		assert.Contains(t, html, want)
	}
	assert.Contains(t, html, "Leche &lt;entera&gt;", "descriptions are escaped")
	assert.NotContains(t, html, "<img", "no logo configured")

	// header, client block, table, total, signature and footer in that order
	order := []string{"RUC:", "DATOS DEL CLIENTE", "Arroz 1kg", "Total S/:", "Cancelacion", "Gracias por su compra"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(html, marker)
		require.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestTemplateEngine_Logo(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	data := sampleReceipt()
	data.Logo = "data:image/png;base64,iVBORw0KGgo="
	html, err := engine.RenderReceipt(context.Background(), data)
	require.NoError(t, err)
	assert.Contains(t, html, `src="data:image/png;base64,iVBORw0KGgo="`)
}

func TestTemplateEngine_FormatMoney(t *testing.T) {
	engine, err := NewTemplateEngine(WithLocale("en-US"))
	require.NoError(t, err)

	assert.Equal(t, "1,234.50", engine.FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", engine.FormatMoney(decimal.Zero))
	assert.Equal(t, "10.01", engine.FormatMoney(decimal.RequireFromString("10.005")))
}

func TestTemplateEngine_Errors(t *testing.T) {
	_, err := NewTemplateEngine(WithLocale("not a locale!"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeRenderFailed, RenderErrorCode(err))

	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	_, err = engine.RenderReceipt(context.Background(), nil)
	assert.Equal(t, ErrCodeInvalidHTML, RenderErrorCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.RenderReceipt(ctx, sampleReceipt())
	assert.Equal(t, ErrCodeRenderTimeout, RenderErrorCode(err))
}

func TestReceiptData_LinesTotal(t *testing.T) {
	data := sampleReceipt()
	assert.True(t, data.LinesTotal().Equal(data.Total))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "000007", formatFolio(7))
	assert.Equal(t, "1234567", formatFolio(1234567))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "31/12/2023", formatDate(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
}

package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	receiptTemplateName = "receipt.html"
	receiptDateLayout   = "02/01/2006"
	defaultLocale       = "es-PE"
)

// ReceiptData is everything the receipt layout prints. Line subtotals are
// computed from the captured unit price, never from the current catalog.
type ReceiptData struct {
	Logo     template.URL // data URI, empty for no logo
	Business ReceiptBusiness
	Vendor   string
	Folio    int64
	Date     time.Time
	Client   ReceiptClient
	Lines    []ReceiptLine
	Total    decimal.Decimal
}

// ReceiptBusiness is the header and footer text
type ReceiptBusiness struct {
	Name    string
	TaxID   string
	Phone   string
	Address string
	Message string
}

// ReceiptClient is the client block, or the walk-in placeholder
type ReceiptClient struct {
	Code    string
	Name    string
	Phone   string
	Address string
}

// ReceiptLine is one row of the item table
type ReceiptLine struct {
	Quantity    int
	Description string
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// LinesTotal sums the line subtotals
func (d *ReceiptData) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// TemplateEngine lays out receipts with html/template. Money is formatted
// for the configured locale.
type TemplateEngine struct {
	receipt *template.Template
	printer *message.Printer
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*templateEngineOptions)

type templateEngineOptions struct {
	locale string
}

// WithLocale sets the BCP 47 tag used for money formatting
func WithLocale(locale string) TemplateEngineOption {
	return func(o *templateEngineOptions) {
		o.locale = locale
	}
}

// NewTemplateEngine parses the embedded receipt template
func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	o := &templateEngineOptions{locale: defaultLocale}
	for _, opt := range opts {
		opt(o)
	}
	tag, err := language.Parse(o.locale)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "invalid receipt locale "+o.locale, err)
	}

	e := &TemplateEngine{printer: message.NewPrinter(tag)}
	tmpl, err := template.New(receiptTemplateName).
		Funcs(e.funcMap()).
		ParseFS(templateFS, "templates/"+receiptTemplateName)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse receipt template", err)
	}
	e.receipt = tmpl
	return e, nil
}

func (e *TemplateEngine) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatMoney": e.FormatMoney,
		"formatDate":  formatDate,
		"folio":       formatFolio,
		"upper":       strings.ToUpper,
	}
}

// RenderReceipt executes the receipt layout
func (e *TemplateEngine) RenderReceipt(ctx context.Context, data *ReceiptData) (string, error) {
	if data == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "receipt data is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderTimeout, "receipt rendering was cancelled", err)
	}
	var buf bytes.Buffer
	if err := e.receipt.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute receipt template", err)
	}
	return buf.String(), nil
}

// FormatMoney formats an amount with two decimals and locale grouping.
// Example (es-PE): 1234.5 -> "1,234.50"
func (e *TemplateEngine) FormatMoney(d decimal.Decimal) string {
	return e.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// formatDate prints dd/MM/yyyy
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(receiptDateLayout)
}

// formatFolio zero-pads the sale id
func formatFolio(id int64) string {
	return fmt.Sprintf("%06d", id)
}

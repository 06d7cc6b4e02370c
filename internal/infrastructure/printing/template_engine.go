package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

const receiptTemplateName = "receipt.html"

// TemplateEngine handles rendering HTML templates with sale data.
// It uses Go's html/template package with locale-aware formatting functions.
type TemplateEngine struct {
	lang    language.Tag
	printer *message.Printer
	funcMap template.FuncMap

	once    sync.Once
	receipt *template.Template
	err     error
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLanguage sets the language used for number grouping and title casing
func WithLanguage(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.lang = tag
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{lang: language.English}
	for _, opt := range opts {
		opt(e)
	}

	e.printer = message.NewPrinter(e.lang)
	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatInt":      e.formatInt,
		"formatPercent":  e.formatPercent,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"title":          e.titleCase,
		"shortUUID":      shortUUID,
	}
	return e
}

// ReceiptLine is one row of the receipt table
type ReceiptLine struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptData is everything printed on a sale receipt.
// Amounts are taken from the stored sale and never recomputed.
type ReceiptData struct {
	StoreName     string
	SaleID        uuid.UUID
	Date          time.Time
	CustomerName  string
	Lines         []ReceiptLine
	SubTotal      decimal.Decimal
	TaxPercentage decimal.Decimal
	TaxAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
	AmountPayed   decimal.Decimal
	AmountChange  decimal.Decimal
}

// RenderReceipt renders the embedded receipt template
func (e *TemplateEngine) RenderReceipt(ctx context.Context, data *ReceiptData) (string, error) {
	if data == nil {
		return "", NewRenderError(ErrCodeInvalidTemplate, "receipt data is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.once.Do(func() {
		e.receipt, e.err = template.New(receiptTemplateName).Funcs(e.funcMap).ParseFS(templateFS, "templates/"+receiptTemplateName)
	})
	if e.err != nil {
		return "", NewRenderError(ErrCodeInvalidTemplate, "failed to parse receipt template", e.err)
	}

	var buf bytes.Buffer
	if err := e.receipt.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data interface{}) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidTemplate, "template content is empty", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidTemplate, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats an amount grouped with two decimals
// Example: 1234.5 -> "1,234.50"
func (e *TemplateEngine) formatMoney(v interface{}) string {
	d := toDecimal(v).Round(2)
	return e.printer.Sprintf("%.2f", d.InexactFloat64())
}

// formatInt formats a whole number with grouping
func (e *TemplateEngine) formatInt(v interface{}) string {
	return e.printer.Sprintf("%d", toDecimal(v).Round(0).IntPart())
}

// formatPercent formats a value already expressed in percent
// Example: 7.5 -> "7.5%"
func (e *TemplateEngine) formatPercent(v interface{}) string {
	return toDecimal(v).String() + "%"
}

// titleCase converts string to title case using proper Unicode handling.
// Casers are not safe for concurrent use, so each call gets a fresh copy.
func (e *TemplateEngine) titleCase(s string) string {
	return cases.Title(e.lang).String(s)
}

func formatDate(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// shortUUID returns the first block of a UUID
func shortUUID(v interface{}) string {
	var s string
	switch val := v.(type) {
	case uuid.UUID:
		s = val.String()
	case string:
		s = val
	default:
		return ""
	}
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// toDecimal converts various numeric types to decimal.Decimal
func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts time values and pointers to time.Time
func toTime(v interface{}) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	default:
		return time.Time{}
	}
}

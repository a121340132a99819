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
)

// Template names shipped with the package
const (
	TemplatePurchaseOrder = "purchase_order.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the embedded HTML templates with business data
type TemplateEngine struct {
	templates *template.Template
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to parse templates", err)
	}
	return &TemplateEngine{templates: tmpl}, nil
}

// Render executes the named template against data
func (e *TemplateEngine) Render(ctx context.Context, name string, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", NewRenderError(ErrCodeTemplateNotFound, "template not found: "+name, nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatMoney":   formatMoney,
		"formatQty":     formatQuantity,
		"formatPercent": formatPercent,
		"formatDate":    formatDate,
		"inc":           func(i int) int { return i + 1 },
	}
}

// formatMoney formats an amount with thousand separators and the currency code.
// Example: (1234.5, "USD") -> "USD 1,234.50"
func formatMoney(v decimal.Decimal, currency string) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}
	intPart, decPart, _ := strings.Cut(v.StringFixed(2), ".")

	var grouped strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteRune(',')
		}
		grouped.WriteRune(c)
	}
	amount := sign + grouped.String() + "." + decPart
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

// formatQuantity drops insignificant trailing zeros: 12.5000 -> "12.5"
func formatQuantity(v decimal.Decimal) string {
	return v.String()
}

// formatPercent renders a 0..1 fraction as a percentage: 0.13 -> "13%"
func formatPercent(v decimal.Decimal) string {
	return v.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

// formatDate accepts a time or an already formatted date string
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

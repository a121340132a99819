package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderLine struct {
	ProductCode     string
	ProductName     string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
	LineTotal       decimal.Decimal
}

type orderDocument struct {
	OrderNumber          string
	SupplierName         string
	Currency             string
	OrderDate            string
	ExpectedDeliveryDate string
	PaymentTerms         string
	Lines                []orderLine
	Subtotal             decimal.Decimal
	DiscountTotal        decimal.Decimal
	TaxTotal             decimal.Decimal
	GrandTotal           decimal.Decimal
	SentAt               time.Time
}

func sampleOrder() orderDocument {
	return orderDocument{
		OrderNumber:  "PO-2026-00042",
		SupplierName: "Acme <Components>",
		Currency:     "USD",
		OrderDate:    "2026-03-02",
		PaymentTerms: "NET30",
		Lines: []orderLine{{
			ProductCode:     "BOLT-M8",
			ProductName:     "Hex bolt M8",
			Unit:            "pcs",
			Quantity:        decimal.RequireFromString("1500.000"),
			UnitPrice:       decimal.RequireFromString("0.85"),
			DiscountPercent: decimal.NewFromInt(5),
			TaxRate:         decimal.RequireFromString("0.13"),
			LineTotal:       decimal.RequireFromString("1211.25"),
		}},
		Subtotal:      decimal.RequireFromString("1275"),
		DiscountTotal: decimal.RequireFromString("63.75"),
		TaxTotal:      decimal.RequireFromString("157.46"),
		GrandTotal:    decimal.RequireFromString("1368.71"),
		SentAt:        time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC),
	}
}

func TestTemplateEngine_PurchaseOrder(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.Render(context.Background(), TemplatePurchaseOrder, sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "Purchase Order PO-2026-00042")
	assert.Contains(t, html, "Acme &lt;Components&gt;")
	assert.Contains(t, html, "NET30")
	assert.Contains(t, html, "2026-03-03")
	assert.Contains(t, html, "BOLT-M8")
	assert.Contains(t, html, ">1500<")
	assert.Contains(t, html, "13%")
	assert.Contains(t, html, "USD 1,368.71")
	assert.NotContains(t, html, "Expected delivery")
}

func TestTemplateEngine_Errors(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	_, err = engine.Render(context.Background(), "missing.html", nil)
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeTemplateNotFound, renderErr.Code)

	_, err = engine.Render(context.Background(), TemplatePurchaseOrder, struct{ OrderNumber string }{"PO-1"})
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Render(ctx, TemplatePurchaseOrder, sampleOrder())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"0", "USD", "USD 0.00"},
		{"999.999", "", "1,000.00"},
		{"1234567.8", "EUR", "EUR 1,234,567.80"},
		{"-42.5", "CNY", "CNY -42.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "12.5", formatQuantity(decimal.RequireFromString("12.5000")))
	assert.Equal(t, "13%", formatPercent(decimal.RequireFromString("0.13")))
	assert.Equal(t, "6.25%", formatPercent(decimal.RequireFromString("0.0625")))

	ts := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-31", formatDate(ts))
	assert.Equal(t, "2026-01-31", formatDate(&ts))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
	assert.Equal(t, "2026-02-01", formatDate("2026-02-01"))
}

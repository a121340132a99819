package procurement

import (
	"testing"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func validLine() NewLine {
	return NewLine{
		ProductID:       uuid.New(),
		ProductCode:     "SKU-001",
		ProductName:     "Steel bolt",
		Unit:            "pcs",
		Quantity:        decimal.NewFromInt(10),
		UnitPrice:       decimal.NewFromInt(20),
		TaxRate:         decimal.NewFromFloat(0.13),
		DiscountPercent: decimal.NewFromInt(10),
	}
}

func TestNewPurchaseOrderItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewLine)
		code   string
	}{
		{"nil product", func(l *NewLine) { l.ProductID = uuid.Nil }, "INVALID_PRODUCT"},
		{"empty name", func(l *NewLine) { l.ProductName = "" }, "INVALID_PRODUCT_NAME"},
		{"empty unit", func(l *NewLine) { l.Unit = "" }, "INVALID_UNIT"},
		{"zero quantity", func(l *NewLine) { l.Quantity = decimal.Zero }, "INVALID_QUANTITY"},
		{"negative price", func(l *NewLine) { l.UnitPrice = decimal.NewFromInt(-1) }, "INVALID_PRICE"},
		{"tax above one", func(l *NewLine) { l.TaxRate = decimal.NewFromFloat(1.5) }, "INVALID_TAX_RATE"},
		{"discount above hundred", func(l *NewLine) { l.DiscountPercent = decimal.NewFromInt(101) }, "INVALID_DISCOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := validLine()
			tt.mutate(&line)
			_, err := NewPurchaseOrderItem(uuid.New(), line)
			assertDomainCode(t, err, tt.code)
		})
	}
}

func TestPurchaseOrderItem_Amounts(t *testing.T) {
	item, err := NewPurchaseOrderItem(uuid.New(), validLine())
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(200).Equal(item.Subtotal()))
	assert.True(t, decimal.NewFromInt(20).Equal(item.DiscountAmount()))
	assert.True(t, decimal.NewFromInt(180).Equal(item.NetAmount()))
	assert.True(t, decimal.NewFromFloat(23.4).Equal(item.TaxAmount()))
	assert.True(t, decimal.NewFromFloat(203.4).Equal(item.LineTotal()))
}

func TestPurchaseOrderItem_AmountsRounding(t *testing.T) {
	line := validLine()
	line.Quantity = decimal.NewFromInt(3)
	line.UnitPrice = decimal.NewFromFloat(0.333)
	line.DiscountPercent = decimal.Zero
	line.TaxRate = decimal.Zero
	item, err := NewPurchaseOrderItem(uuid.New(), line)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1).Equal(item.Subtotal()))
}

func TestPurchaseOrderItem_AddReceivedQuantity(t *testing.T) {
	item, err := NewPurchaseOrderItem(uuid.New(), validLine())
	require.NoError(t, err)

	require.NoError(t, item.AddReceivedQuantity(decimal.NewFromInt(4)))
	assert.True(t, decimal.NewFromInt(6).Equal(item.RemainingQuantity()))
	assert.False(t, item.IsFullyReceived())
	assert.True(t, decimal.NewFromFloat(81.36).Equal(item.ReceivedValue()))

	err = item.AddReceivedQuantity(decimal.NewFromInt(7))
	assertDomainCode(t, err, "QUANTITY_EXCEEDED")
	assert.True(t, decimal.NewFromInt(4).Equal(item.ReceivedQuantity))

	err = item.AddReceivedQuantity(decimal.NewFromInt(-1))
	assert.Error(t, err)

	require.NoError(t, item.AddReceivedQuantity(decimal.NewFromInt(6)))
	assert.True(t, item.IsFullyReceived())
	assert.True(t, item.RemainingQuantity().IsZero())
	assert.True(t, item.LineTotal().Equal(item.ReceivedValue()))
}

func TestPurchaseOrderItem_ApplyIsAllOrNothing(t *testing.T) {
	item, err := NewPurchaseOrderItem(uuid.New(), validLine())
	require.NoError(t, err)

	qty := decimal.NewFromInt(50)
	badTax := decimal.NewFromInt(2)
	err = item.apply(LineUpdate{Quantity: &qty, TaxRate: &badTax})
	require.Error(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(item.Quantity))

	listID := uuid.New()
	item.PriceListID = &listID
	price := decimal.NewFromInt(15)
	require.NoError(t, item.apply(LineUpdate{Quantity: &qty, UnitPrice: &price}))
	assert.True(t, qty.Equal(item.Quantity))
	assert.True(t, price.Equal(item.UnitPrice))
	assert.Nil(t, item.PriceListID)
}

package procurement

import (
	"fmt"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxTaxRate = decimal.NewFromInt(1)
)

// PurchaseOrderItem is one ordered product line
type PurchaseOrderItem struct {
	ID                   uuid.UUID
	OrderID              uuid.UUID
	ProductID            uuid.UUID
	ProductCode          string
	ProductName          string
	Unit                 string
	Quantity             decimal.Decimal
	UnitPrice            decimal.Decimal
	TaxRate              decimal.Decimal // fraction, 0.13 = 13%
	DiscountPercent      decimal.Decimal // 0..100
	ReceivedQuantity     decimal.Decimal
	ExpectedDeliveryDate *time.Time
	PriceListID          *uuid.UUID
	Remark               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewLine describes a line to add to a draft order
type NewLine struct {
	ProductID            uuid.UUID
	ProductCode          string
	ProductName          string
	Unit                 string
	Quantity             decimal.Decimal
	UnitPrice            decimal.Decimal
	TaxRate              decimal.Decimal
	DiscountPercent      decimal.Decimal
	ExpectedDeliveryDate *time.Time
	PriceListID          *uuid.UUID
	Remark               string
}

// LineUpdate holds the optional changes to an existing line
type LineUpdate struct {
	Quantity             *decimal.Decimal
	UnitPrice            *decimal.Decimal
	TaxRate              *decimal.Decimal
	DiscountPercent      *decimal.Decimal
	ExpectedDeliveryDate *time.Time
	Remark               *string
}

// NewPurchaseOrderItem validates a line and creates the item
func NewPurchaseOrderItem(orderID uuid.UUID, line NewLine) (*PurchaseOrderItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if line.ProductName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(line.ProductName) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if line.Unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if err := validateQuantity(line.Quantity); err != nil {
		return nil, err
	}
	if err := validateUnitPrice(line.UnitPrice); err != nil {
		return nil, err
	}
	if err := validateTaxRate(line.TaxRate); err != nil {
		return nil, err
	}
	if err := validateDiscountPercent(line.DiscountPercent); err != nil {
		return nil, err
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:                   uuid.New(),
		OrderID:              orderID,
		ProductID:            line.ProductID,
		ProductCode:          line.ProductCode,
		ProductName:          line.ProductName,
		Unit:                 line.Unit,
		Quantity:             line.Quantity,
		UnitPrice:            line.UnitPrice,
		TaxRate:              line.TaxRate,
		DiscountPercent:      line.DiscountPercent,
		ReceivedQuantity:     decimal.Zero,
		ExpectedDeliveryDate: line.ExpectedDeliveryDate,
		PriceListID:          line.PriceListID,
		Remark:               line.Remark,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

func validateQuantity(q decimal.Decimal) error {
	if q.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

func validateUnitPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return nil
}

func validateTaxRate(r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThan(maxTaxRate) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	return nil
}

func validateDiscountPercent(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	return nil
}

// apply validates every field of the update before changing anything
func (i *PurchaseOrderItem) apply(u LineUpdate) error {
	if u.Quantity != nil {
		if err := validateQuantity(*u.Quantity); err != nil {
			return err
		}
	}
	if u.UnitPrice != nil {
		if err := validateUnitPrice(*u.UnitPrice); err != nil {
			return err
		}
	}
	if u.TaxRate != nil {
		if err := validateTaxRate(*u.TaxRate); err != nil {
			return err
		}
	}
	if u.DiscountPercent != nil {
		if err := validateDiscountPercent(*u.DiscountPercent); err != nil {
			return err
		}
	}

	if u.Quantity != nil {
		i.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		i.UnitPrice = *u.UnitPrice
		// a manual price no longer comes from the price list
		i.PriceListID = nil
	}
	if u.TaxRate != nil {
		i.TaxRate = *u.TaxRate
	}
	if u.DiscountPercent != nil {
		i.DiscountPercent = *u.DiscountPercent
	}
	if u.ExpectedDeliveryDate != nil {
		d := *u.ExpectedDeliveryDate
		i.ExpectedDeliveryDate = &d
	}
	if u.Remark != nil {
		i.Remark = *u.Remark
	}
	i.UpdatedAt = time.Now()
	return nil
}

// Subtotal is quantity × unit price
func (i *PurchaseOrderItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).Round(2)
}

// DiscountAmount is the subtotal share removed by the discount
func (i *PurchaseOrderItem) DiscountAmount() decimal.Decimal {
	if i.DiscountPercent.IsZero() {
		return decimal.Zero
	}
	return i.Subtotal().Mul(i.DiscountPercent).Div(hundred).Round(2)
}

// NetAmount is the subtotal after discount and before tax
func (i *PurchaseOrderItem) NetAmount() decimal.Decimal {
	return i.Subtotal().Sub(i.DiscountAmount())
}

// TaxAmount is computed on the discounted amount
func (i *PurchaseOrderItem) TaxAmount() decimal.Decimal {
	return i.NetAmount().Mul(i.TaxRate).Round(2)
}

// LineTotal is net amount plus tax
func (i *PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.NetAmount().Add(i.TaxAmount())
}

// ReceivedValue is the share of the line total covered by received goods
func (i *PurchaseOrderItem) ReceivedValue() decimal.Decimal {
	if i.ReceivedQuantity.IsZero() || i.Quantity.IsZero() {
		return decimal.Zero
	}
	if i.IsFullyReceived() {
		return i.LineTotal()
	}
	return i.LineTotal().Mul(i.ReceivedQuantity).Div(i.Quantity).Round(2)
}

// RemainingQuantity is what is still expected from the supplier
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.Quantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true once the ordered quantity has arrived
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// AddReceivedQuantity records a receipt. Received quantity only grows and
// never exceeds the ordered quantity.
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	remaining := i.RemainingQuantity()
	if quantity.GreaterThan(remaining) {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Receive quantity %s exceeds remaining quantity %s for product %s",
				quantity.String(), remaining.String(), i.ProductCode))
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

package procurement

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var priceListCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// SupplierPriceListItem is the agreed price of one product on a price list
type SupplierPriceListItem struct {
	ID           uuid.UUID
	PriceListID  uuid.UUID
	ProductID    uuid.UUID
	ProductCode  string
	UnitPrice    decimal.Decimal
	MinQuantity  decimal.Decimal
	LeadTimeDays int
	Remark       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PriceQuote is the result of pricing a product against a price list
type PriceQuote struct {
	PriceListID  uuid.UUID
	SupplierID   uuid.UUID
	ProductID    uuid.UUID
	UnitPrice    decimal.Decimal
	MinQuantity  decimal.Decimal
	LeadTimeDays int
	Currency     valueobject.Currency
}

// ExpectedDelivery returns the delivery date implied by the lead time
func (q PriceQuote) ExpectedDelivery(orderDate time.Time) time.Time {
	return truncateDay(orderDate).AddDate(0, 0, q.LeadTimeDays)
}

// SupplierPriceList is a supplier's time-bounded price book. It holds at most
// one price per product and can only be edited while active.
type SupplierPriceList struct {
	shared.TenantAggregateRoot
	SupplierID    uuid.UUID
	Code          string
	Name          string
	Currency      valueobject.Currency
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool
	Notes         string
	Items         []SupplierPriceListItem
}

// NewSupplierPriceList creates an active price list
func NewSupplierPriceList(tenantID, supplierID uuid.UUID, code, name string, currency valueobject.Currency, effectiveFrom time.Time, effectiveTo *time.Time) (*SupplierPriceList, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 || !priceListCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Price list code must be 1-50 letters, digits, '-' or '_'")
	}
	if err := validatePriceListName(name); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}
	from, to, err := normalizePeriod(effectiveFrom, effectiveTo)
	if err != nil {
		return nil, err
	}

	pl := &SupplierPriceList{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		Code:                code,
		Name:                strings.TrimSpace(name),
		Currency:            currency,
		EffectiveFrom:       from,
		EffectiveTo:         to,
		IsActive:            true,
		Items:               make([]SupplierPriceListItem, 0),
	}

	pl.AddDomainEvent(NewPriceListCreatedEvent(pl))

	return pl, nil
}

func validatePriceListName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Price list name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Price list name cannot exceed 200 characters")
	}
	return nil
}

func normalizePeriod(from time.Time, to *time.Time) (time.Time, *time.Time, error) {
	if from.IsZero() {
		return time.Time{}, nil, shared.NewDomainError("INVALID_EFFECTIVE_PERIOD", "Effective from date is required")
	}
	from = utcDay(from)
	if to == nil {
		return from, nil, nil
	}
	end := utcDay(*to)
	if !end.After(from) {
		return time.Time{}, nil, shared.NewDomainError("INVALID_EFFECTIVE_PERIOD", "Effective to date must be after effective from date")
	}
	return from, &end, nil
}

func (p *SupplierPriceList) requireActive(action string) error {
	if !p.IsActive {
		return shared.NewDomainError("PRICE_LIST_INACTIVE",
			fmt.Sprintf("Cannot %s: price list %s is inactive", action, p.Code))
	}
	return nil
}

func validatePriceTerms(unitPrice, minQty decimal.Decimal, leadTimeDays int) error {
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
	}
	if minQty.LessThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_MIN_QUANTITY", "Minimum quantity must be at least 1")
	}
	if leadTimeDays < 0 || leadTimeDays > 365 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must be between 0 and 365 days")
	}
	return nil
}

// AddItem prices a product on this list. A zero minQty defaults to 1.
func (p *SupplierPriceList) AddItem(productID uuid.UUID, productCode string, unitPrice, minQty decimal.Decimal, leadTimeDays int) (*SupplierPriceListItem, error) {
	if err := p.requireActive("add item"); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if p.GetItem(productID) != nil {
		return nil, shared.NewDomainError("DUPLICATE_PRICE_ITEM", "Product already has a price on this list")
	}
	if minQty.IsZero() {
		minQty = decimal.NewFromInt(1)
	}
	if err := validatePriceTerms(unitPrice, minQty, leadTimeDays); err != nil {
		return nil, err
	}

	now := time.Now()
	p.Items = append(p.Items, SupplierPriceListItem{
		ID:           uuid.New(),
		PriceListID:  p.ID,
		ProductID:    productID,
		ProductCode:  productCode,
		UnitPrice:    unitPrice,
		MinQuantity:  minQty,
		LeadTimeDays: leadTimeDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	p.Touch()

	return &p.Items[len(p.Items)-1], nil
}

// UpdateItem changes the terms of an existing price
func (p *SupplierPriceList) UpdateItem(productID uuid.UUID, unitPrice, minQty decimal.Decimal, leadTimeDays int) error {
	if err := p.requireActive("update item"); err != nil {
		return err
	}
	item := p.GetItem(productID)
	if item == nil {
		return shared.NewDomainError("PRICE_NOT_FOUND", "Product has no price on this list")
	}
	if minQty.IsZero() {
		minQty = decimal.NewFromInt(1)
	}
	if err := validatePriceTerms(unitPrice, minQty, leadTimeDays); err != nil {
		return err
	}
	item.UnitPrice = unitPrice
	item.MinQuantity = minQty
	item.LeadTimeDays = leadTimeDays
	item.UpdatedAt = time.Now()
	p.Touch()
	return nil
}

// RemoveItem drops the price of a product
func (p *SupplierPriceList) RemoveItem(productID uuid.UUID) error {
	if err := p.requireActive("remove item"); err != nil {
		return err
	}
	for idx := range p.Items {
		if p.Items[idx].ProductID == productID {
			p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
			p.Touch()
			return nil
		}
	}
	return shared.NewDomainError("PRICE_NOT_FOUND", "Product has no price on this list")
}

// Rename changes the display name
func (p *SupplierPriceList) Rename(name string) error {
	if err := validatePriceListName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Touch()
	return nil
}

// SetNotes sets free-form notes
func (p *SupplierPriceList) SetNotes(notes string) {
	p.Notes = notes
	p.Touch()
}

// ChangeEffectivePeriod moves the validity window
func (p *SupplierPriceList) ChangeEffectivePeriod(from time.Time, to *time.Time) error {
	if err := p.requireActive("change effective period"); err != nil {
		return err
	}
	f, t, err := normalizePeriod(from, to)
	if err != nil {
		return err
	}
	p.EffectiveFrom = f
	p.EffectiveTo = t
	p.Touch()
	return nil
}

// Activate re-enables an inactive list
func (p *SupplierPriceList) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Price list is already active")
	}
	p.IsActive = true
	p.Touch()
	p.AddDomainEvent(NewPriceListActivatedEvent(p))
	return nil
}

// Deactivate freezes the list and takes it out of pricing
func (p *SupplierPriceList) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Price list is already inactive")
	}
	p.IsActive = false
	p.Touch()
	p.AddDomainEvent(NewPriceListDeactivatedEvent(p))
	return nil
}

// IsEffectiveOn reports whether the list prices orders placed on date.
// Both window bounds are inclusive and compared by UTC calendar day, whatever
// location the bounds were loaded in.
func (p *SupplierPriceList) IsEffectiveOn(date time.Time) bool {
	if !p.IsActive {
		return false
	}
	day := utcDay(date)
	if day.Before(utcDay(p.EffectiveFrom)) {
		return false
	}
	return p.EffectiveTo == nil || !day.After(utcDay(*p.EffectiveTo))
}

// utcDay is midnight UTC of the UTC calendar day containing t
func utcDay(t time.Time) time.Time {
	return truncateDay(t.UTC())
}

// GetItem finds the price of a product
func (p *SupplierPriceList) GetItem(productID uuid.UUID) *SupplierPriceListItem {
	for i := range p.Items {
		if p.Items[i].ProductID == productID {
			return &p.Items[i]
		}
	}
	return nil
}

// PriceFor quotes a product for the given quantity and order date
func (p *SupplierPriceList) PriceFor(productID uuid.UUID, quantity decimal.Decimal, date time.Time) (*PriceQuote, error) {
	if !p.IsEffectiveOn(date) {
		return nil, shared.NewDomainError("PRICE_LIST_NOT_EFFECTIVE",
			fmt.Sprintf("Price list %s is not effective on %s", p.Code, date.Format("2006-01-02")))
	}
	item := p.GetItem(productID)
	if item == nil {
		return nil, shared.NewDomainError("PRICE_NOT_FOUND", "Product has no price on this list")
	}
	if quantity.LessThan(item.MinQuantity) {
		return nil, shared.NewDomainError("BELOW_MINIMUM_QUANTITY",
			fmt.Sprintf("Quantity %s is below the minimum order quantity %s", quantity.String(), item.MinQuantity.String()))
	}
	return &PriceQuote{
		PriceListID:  p.ID,
		SupplierID:   p.SupplierID,
		ProductID:    productID,
		UnitPrice:    item.UnitPrice,
		MinQuantity:  item.MinQuantity,
		LeadTimeDays: item.LeadTimeDays,
		Currency:     p.Currency,
	}, nil
}

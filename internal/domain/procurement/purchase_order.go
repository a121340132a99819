package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is the aggregate root for ordering goods from a supplier.
// Monetary totals are always derived from the items and never stored.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber          string
	SupplierID           uuid.UUID
	SupplierName         string
	Status               PurchaseOrderStatus
	Currency             valueobject.Currency
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	PaymentTerms         string
	Notes                string
	Items                []PurchaseOrderItem

	SubmittedAt       *time.Time
	SubmittedBy       *uuid.UUID
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID
	RejectionReason   string
	SentAt            *time.Time
	AcknowledgedAt    *time.Time
	SupplierReference string
	ReceivedAt        *time.Time
	CancelledAt       *time.Time
	CancelReason      string
	HoldReason        string
	HeldFromStatus    PurchaseOrderStatus
}

// ReceiveLine is one product quantity arriving at the dock
type ReceiveLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// ReceivedLineInfo describes the effect of a receipt on one line
type ReceivedLineInfo struct {
	ItemID        uuid.UUID       `json:"item_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalReceived decimal.Decimal `json:"total_received"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// OrderTotals is the money roll-up of all lines
type OrderTotals struct {
	Subtotal      valueobject.Money
	DiscountTotal valueobject.Money
	TaxTotal      valueobject.Money
	GrandTotal    valueobject.Money
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string, currency valueobject.Currency, orderDate time.Time) (*PurchaseOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if len(supplierName) > 200 {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot exceed 200 characters")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Status:              PurchaseOrderStatusDraft,
		Currency:            currency,
		OrderDate:           orderDate,
		Items:               make([]PurchaseOrderItem, 0),
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

func (o *PurchaseOrder) requireEditable(action string) error {
	if !o.Status.IsEditable() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE",
			fmt.Sprintf("Cannot %s: purchase order is in %s status", action, o.Status))
	}
	return nil
}

func (o *PurchaseOrder) requireTransition(target PurchaseOrderStatus, action string) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot %s purchase order in %s status", action, o.Status))
	}
	return nil
}

// AddItem adds a product line. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddItem(line NewLine) (*PurchaseOrderItem, error) {
	if err := o.requireEditable("add item"); err != nil {
		return nil, err
	}
	if o.GetItemByProduct(line.ProductID) != nil {
		return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
	}
	if line.ExpectedDeliveryDate != nil && line.ExpectedDeliveryDate.Before(truncateDay(o.OrderDate)) {
		return nil, shared.NewDomainError("INVALID_DELIVERY_DATE", "Expected delivery date cannot precede the order date")
	}

	item, err := NewPurchaseOrderItem(o.ID, line)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.Touch()

	return &o.Items[len(o.Items)-1], nil
}

// UpdateItem changes quantity, price, tax or discount of a line. Only allowed in DRAFT status.
func (o *PurchaseOrder) UpdateItem(itemID uuid.UUID, update LineUpdate) error {
	if err := o.requireEditable("update item"); err != nil {
		return err
	}
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if update.ExpectedDeliveryDate != nil && update.ExpectedDeliveryDate.Before(truncateDay(o.OrderDate)) {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Expected delivery date cannot precede the order date")
	}
	if err := item.apply(update); err != nil {
		return err
	}
	o.Touch()
	return nil
}

// RemoveItem drops a line. Only allowed in DRAFT status.
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if err := o.requireEditable("remove item"); err != nil {
		return err
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetExpectedDeliveryDate sets the header delivery date. nil clears it.
func (o *PurchaseOrder) SetExpectedDeliveryDate(date *time.Time) error {
	if err := o.requireEditable("change delivery date"); err != nil {
		return err
	}
	if date != nil && date.Before(truncateDay(o.OrderDate)) {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Expected delivery date cannot precede the order date")
	}
	o.ExpectedDeliveryDate = date
	o.Touch()
	return nil
}

// SetPaymentTerms sets the agreed payment terms, e.g. "NET30"
func (o *PurchaseOrder) SetPaymentTerms(terms string) error {
	if err := o.requireEditable("change payment terms"); err != nil {
		return err
	}
	if len(terms) > 100 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 100 characters")
	}
	o.PaymentTerms = terms
	o.Touch()
	return nil
}

// SetNotes sets free-form notes
func (o *PurchaseOrder) SetNotes(notes string) error {
	if err := o.requireEditable("change notes"); err != nil {
		return err
	}
	o.Notes = notes
	o.Touch()
	return nil
}

// Submit sends the draft for approval
func (o *PurchaseOrder) Submit(submittedBy uuid.UUID) error {
	if err := o.requireTransition(PurchaseOrderStatusSubmitted, "submit"); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusSubmitted
	o.SubmittedAt = &now
	if submittedBy != uuid.Nil {
		o.SubmittedBy = &submittedBy
	}
	o.RejectionReason = ""
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderSubmittedEvent(o))
	return nil
}

// Approve approves a submitted order
func (o *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if err := o.requireTransition(PurchaseOrderStatusApproved, "approve"); err != nil {
		return err
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	o.ApprovedBy = &approverID
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))
	return nil
}

// Reject returns a submitted order to DRAFT so it can be corrected
func (o *PurchaseOrder) Reject(reason string) error {
	if o.Status != PurchaseOrderStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot reject purchase order in %s status", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	o.Status = PurchaseOrderStatusDraft
	o.RejectionReason = reason
	o.SubmittedAt = nil
	o.SubmittedBy = nil
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderRejectedEvent(o, reason))
	return nil
}

// MarkSent records that the approved order was dispatched to the supplier
func (o *PurchaseOrder) MarkSent() error {
	if err := o.requireTransition(PurchaseOrderStatusSent, "send"); err != nil {
		return err
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusSent
	o.SentAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderSentEvent(o))
	return nil
}

// Acknowledge records the supplier's confirmation of the order
func (o *PurchaseOrder) Acknowledge(supplierReference string) error {
	if err := o.requireTransition(PurchaseOrderStatusAcknowledged, "acknowledge"); err != nil {
		return err
	}
	if len(supplierReference) > 100 {
		return shared.NewDomainError("INVALID_SUPPLIER_REFERENCE", "Supplier reference cannot exceed 100 characters")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusAcknowledged
	o.AcknowledgedAt = &now
	o.SupplierReference = supplierReference
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderAcknowledgedEvent(o))
	return nil
}

// Receive books incoming goods against the order lines. The whole receipt is
// validated before any line changes, so a rejected receipt leaves the order untouched.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) ([]ReceivedLineInfo, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot receive goods for purchase order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receive lines cannot be empty")
	}

	requested := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		if l.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Receive quantity for product %s must be positive", l.ProductID))
		}
		item := o.GetItemByProduct(l.ProductID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND",
				fmt.Sprintf("Product %s not found in order", l.ProductID))
		}
		total := requested[l.ProductID].Add(l.Quantity)
		if total.GreaterThan(item.RemainingQuantity()) {
			return nil, shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Receive quantity %s exceeds remaining quantity %s for product %s",
					total.String(), item.RemainingQuantity().String(), item.ProductCode))
		}
		requested[l.ProductID] = total
	}

	infos := make([]ReceivedLineInfo, 0, len(lines))
	for _, l := range lines {
		item := o.GetItemByProduct(l.ProductID)
		if err := item.AddReceivedQuantity(l.Quantity); err != nil {
			return nil, err
		}
		infos = append(infos, ReceivedLineInfo{
			ItemID:        item.ID,
			ProductID:     item.ProductID,
			ProductCode:   item.ProductCode,
			ProductName:   item.ProductName,
			Unit:          item.Unit,
			Quantity:      l.Quantity,
			UnitPrice:     item.UnitPrice,
			TotalReceived: item.ReceivedQuantity,
			Remaining:     item.RemainingQuantity(),
		})
	}

	now := time.Now()
	completed := o.IsFullyReceived()
	if completed {
		o.Status = PurchaseOrderStatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartiallyReceived
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, infos))
	if completed {
		o.AddDomainEvent(NewPurchaseOrderCompletedEvent(o))
	}

	return infos, nil
}

// Hold suspends an in-flight order. Release restores the status it was held from.
func (o *PurchaseOrder) Hold(reason string) error {
	if !o.Status.CanBeHeld() {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot put purchase order in %s status on hold", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Hold reason is required")
	}

	previous := o.Status
	o.HeldFromStatus = previous
	o.HoldReason = reason
	o.Status = PurchaseOrderStatusOnHold
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderHeldEvent(o, previous, reason))
	return nil
}

// Release resumes an order that was put on hold
func (o *PurchaseOrder) Release() error {
	if o.Status != PurchaseOrderStatusOnHold {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot release purchase order in %s status", o.Status))
	}
	if !o.HeldFromStatus.CanBeHeld() {
		return shared.NewDomainError("INVALID_STATE", "Held order has no status to resume")
	}

	resumed := o.HeldFromStatus
	o.Status = resumed
	o.HeldFromStatus = ""
	o.HoldReason = ""
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderReleasedEvent(o, resumed))
	return nil
}

// Cancel cancels the order. Refused once any goods were received.
func (o *PurchaseOrder) Cancel(reason string) error {
	if err := o.requireTransition(PurchaseOrderStatusCancelled, "cancel"); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel order after goods have been received")
	}

	previous := o.Status
	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.HeldFromStatus = ""
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, previous))
	return nil
}

// Totals derives the money roll-up from the current lines
func (o *PurchaseOrder) Totals() OrderTotals {
	subtotal, discount, tax := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Subtotal())
		discount = discount.Add(o.Items[i].DiscountAmount())
		tax = tax.Add(o.Items[i].TaxAmount())
	}
	grand := subtotal.Sub(discount).Add(tax)

	return OrderTotals{
		Subtotal:      valueobject.MustNewMoney(subtotal, o.Currency),
		DiscountTotal: valueobject.MustNewMoney(discount, o.Currency),
		TaxTotal:      valueobject.MustNewMoney(tax, o.Currency),
		GrandTotal:    valueobject.MustNewMoney(grand, o.Currency),
	}
}

// ReceivedValue is the value, tax included, of the goods received so far
func (o *PurchaseOrder) ReceivedValue() valueobject.Money {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].ReceivedValue())
	}
	return valueobject.MustNewMoney(total, o.Currency)
}

func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// IsFullyReceived returns true when every line is complete
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Items) == 0 {
		return false
	}
	for i := range o.Items {
		if !o.Items[i].IsFullyReceived() {
			return false
		}
	}
	return true
}

// TotalQuantity sums ordered quantities
func (o *PurchaseOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// TotalReceivedQuantity sums received quantities
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

// ReceiveProgress is the received share of ordered quantity, in percent
func (o *PurchaseOrder) ReceiveProgress() decimal.Decimal {
	ordered := o.TotalQuantity()
	if ordered.IsZero() {
		return decimal.Zero
	}
	return o.TotalReceivedQuantity().Div(ordered).Mul(hundred).Round(2)
}

// ItemCount returns the number of lines
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// GetItem finds a line by ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// GetItemByProduct finds a line by product
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) *PurchaseOrderItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}

// IsOverdue reports an open order whose expected delivery day has passed
func (o *PurchaseOrder) IsOverdue(now time.Time) bool {
	if o.ExpectedDeliveryDate == nil || !o.Status.IsOpen() {
		return false
	}
	return truncateDay(now).After(truncateDay(*o.ExpectedDeliveryDate))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

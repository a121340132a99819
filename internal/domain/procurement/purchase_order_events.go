package procurement

import (
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated      = "PurchaseOrderCreated"
	EventTypePurchaseOrderSubmitted    = "PurchaseOrderSubmitted"
	EventTypePurchaseOrderApproved     = "PurchaseOrderApproved"
	EventTypePurchaseOrderRejected     = "PurchaseOrderRejected"
	EventTypePurchaseOrderSent         = "PurchaseOrderSent"
	EventTypePurchaseOrderAcknowledged = "PurchaseOrderAcknowledged"
	EventTypePurchaseOrderReceived     = "PurchaseOrderReceived"
	EventTypePurchaseOrderCompleted    = "PurchaseOrderCompleted"
	EventTypePurchaseOrderHeld         = "PurchaseOrderHeld"
	EventTypePurchaseOrderReleased     = "PurchaseOrderReleased"
	EventTypePurchaseOrderCancelled    = "PurchaseOrderCancelled"
)

// PurchaseOrderRef identifies the order in every purchase order event
type PurchaseOrderRef struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

func refOf(o *PurchaseOrder) PurchaseOrderRef {
	return PurchaseOrderRef{OrderID: o.ID, OrderNumber: o.OrderNumber, SupplierID: o.SupplierID}
}

func baseEvent(eventType string, o *PurchaseOrder) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypePurchaseOrder, o.ID, o.TenantID)
}

// PurchaseOrderLineSnapshot is a line as sent to the supplier
type PurchaseOrderLineSnapshot struct {
	ItemID          uuid.UUID       `json:"item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// PurchaseOrderCreatedEvent is raised when a draft order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	SupplierName string               `json:"supplier_name"`
	Currency     valueobject.Currency `json:"currency"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(o *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderCreated, o),
		PurchaseOrderRef: refOf(o),
		SupplierName:     o.SupplierName,
		Currency:         o.Currency,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderSubmittedEvent is raised when a draft is submitted for approval
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	SubmittedBy *uuid.UUID      `json:"submitted_by,omitempty"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewPurchaseOrderSubmittedEvent creates a new PurchaseOrderSubmittedEvent
func NewPurchaseOrderSubmittedEvent(o *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderSubmitted, o),
		PurchaseOrderRef: refOf(o),
		SubmittedBy:      o.SubmittedBy,
		GrandTotal:       o.Totals().GrandTotal.Amount(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderSubmittedEvent) EventType() string {
	return EventTypePurchaseOrderSubmitted
}

// PurchaseOrderApprovedEvent is raised when a submitted order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	ApprovedBy uuid.UUID `json:"approved_by"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(o *PurchaseOrder) *PurchaseOrderApprovedEvent {
	evt := &PurchaseOrderApprovedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderApproved, o),
		PurchaseOrderRef: refOf(o),
	}
	if o.ApprovedBy != nil {
		evt.ApprovedBy = *o.ApprovedBy
	}
	return evt
}

// EventType returns the event type name
func (e *PurchaseOrderApprovedEvent) EventType() string {
	return EventTypePurchaseOrderApproved
}

// PurchaseOrderRejectedEvent is raised when approval is refused
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	Reason string `json:"reason"`
}

// NewPurchaseOrderRejectedEvent creates a new PurchaseOrderRejectedEvent
func NewPurchaseOrderRejectedEvent(o *PurchaseOrder, reason string) *PurchaseOrderRejectedEvent {
	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderRejected, o),
		PurchaseOrderRef: refOf(o),
		Reason:           reason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderRejectedEvent) EventType() string {
	return EventTypePurchaseOrderRejected
}

// PurchaseOrderSentEvent carries the full order snapshot dispatched to the supplier
type PurchaseOrderSentEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	SupplierName         string                      `json:"supplier_name"`
	Currency             valueobject.Currency        `json:"currency"`
	OrderDate            string                      `json:"order_date"`
	ExpectedDeliveryDate string                      `json:"expected_delivery_date,omitempty"`
	PaymentTerms         string                      `json:"payment_terms,omitempty"`
	Lines                []PurchaseOrderLineSnapshot `json:"lines"`
	Subtotal             decimal.Decimal             `json:"subtotal"`
	DiscountTotal        decimal.Decimal             `json:"discount_total"`
	TaxTotal             decimal.Decimal             `json:"tax_total"`
	GrandTotal           decimal.Decimal             `json:"grand_total"`
}

// NewPurchaseOrderSentEvent creates a new PurchaseOrderSentEvent
func NewPurchaseOrderSentEvent(o *PurchaseOrder) *PurchaseOrderSentEvent {
	lines := make([]PurchaseOrderLineSnapshot, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		lines[i] = PurchaseOrderLineSnapshot{
			ItemID:          item.ID,
			ProductID:       item.ProductID,
			ProductCode:     item.ProductCode,
			ProductName:     item.ProductName,
			Unit:            item.Unit,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxRate:         item.TaxRate,
			LineTotal:       item.LineTotal(),
		}
	}
	totals := o.Totals()
	evt := &PurchaseOrderSentEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderSent, o),
		PurchaseOrderRef: refOf(o),
		SupplierName:     o.SupplierName,
		Currency:         o.Currency,
		OrderDate:        o.OrderDate.Format("2006-01-02"),
		PaymentTerms:     o.PaymentTerms,
		Lines:            lines,
		Subtotal:         totals.Subtotal.Amount(),
		DiscountTotal:    totals.DiscountTotal.Amount(),
		TaxTotal:         totals.TaxTotal.Amount(),
		GrandTotal:       totals.GrandTotal.Amount(),
	}
	if o.ExpectedDeliveryDate != nil {
		evt.ExpectedDeliveryDate = o.ExpectedDeliveryDate.Format("2006-01-02")
	}
	return evt
}

// EventType returns the event type name
func (e *PurchaseOrderSentEvent) EventType() string {
	return EventTypePurchaseOrderSent
}

// PurchaseOrderAcknowledgedEvent is raised when the supplier confirms the order
type PurchaseOrderAcknowledgedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	SupplierReference string `json:"supplier_reference,omitempty"`
}

// NewPurchaseOrderAcknowledgedEvent creates a new PurchaseOrderAcknowledgedEvent
func NewPurchaseOrderAcknowledgedEvent(o *PurchaseOrder) *PurchaseOrderAcknowledgedEvent {
	return &PurchaseOrderAcknowledgedEvent{
		BaseDomainEvent:   baseEvent(EventTypePurchaseOrderAcknowledged, o),
		PurchaseOrderRef:  refOf(o),
		SupplierReference: o.SupplierReference,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderAcknowledgedEvent) EventType() string {
	return EventTypePurchaseOrderAcknowledged
}

// PurchaseOrderReceivedEvent is raised for every goods receipt
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	Lines         []ReceivedLineInfo  `json:"lines"`
	Status        PurchaseOrderStatus `json:"status"`
	ReceivedValue decimal.Decimal     `json:"received_value"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(o *PurchaseOrder, lines []ReceivedLineInfo) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderReceived, o),
		PurchaseOrderRef: refOf(o),
		Lines:            lines,
		Status:           o.Status,
		ReceivedValue:    o.ReceivedValue().Amount(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCompletedEvent is raised when the last line is fully received
type PurchaseOrderCompletedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewPurchaseOrderCompletedEvent creates a new PurchaseOrderCompletedEvent
func NewPurchaseOrderCompletedEvent(o *PurchaseOrder) *PurchaseOrderCompletedEvent {
	return &PurchaseOrderCompletedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderCompleted, o),
		PurchaseOrderRef: refOf(o),
		GrandTotal:       o.Totals().GrandTotal.Amount(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCompletedEvent) EventType() string {
	return EventTypePurchaseOrderCompleted
}

// PurchaseOrderHeldEvent is raised when an order is put on hold
type PurchaseOrderHeldEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	PreviousStatus PurchaseOrderStatus `json:"previous_status"`
	Reason         string              `json:"reason"`
}

// NewPurchaseOrderHeldEvent creates a new PurchaseOrderHeldEvent
func NewPurchaseOrderHeldEvent(o *PurchaseOrder, previous PurchaseOrderStatus, reason string) *PurchaseOrderHeldEvent {
	return &PurchaseOrderHeldEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderHeld, o),
		PurchaseOrderRef: refOf(o),
		PreviousStatus:   previous,
		Reason:           reason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderHeldEvent) EventType() string {
	return EventTypePurchaseOrderHeld
}

// PurchaseOrderReleasedEvent is raised when a held order resumes
type PurchaseOrderReleasedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	ResumedStatus PurchaseOrderStatus `json:"resumed_status"`
}

// NewPurchaseOrderReleasedEvent creates a new PurchaseOrderReleasedEvent
func NewPurchaseOrderReleasedEvent(o *PurchaseOrder, resumed PurchaseOrderStatus) *PurchaseOrderReleasedEvent {
	return &PurchaseOrderReleasedEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderReleased, o),
		PurchaseOrderRef: refOf(o),
		ResumedStatus:    resumed,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReleasedEvent) EventType() string {
	return EventTypePurchaseOrderReleased
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderRef
	PreviousStatus PurchaseOrderStatus `json:"previous_status"`
	Reason         string              `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(o *PurchaseOrder, previous PurchaseOrderStatus) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent:  baseEvent(EventTypePurchaseOrderCancelled, o),
		PurchaseOrderRef: refOf(o),
		PreviousStatus:   previous,
		Reason:           o.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}

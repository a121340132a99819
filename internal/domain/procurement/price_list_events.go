package procurement

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeSupplierPriceList = "SupplierPriceList"

// Event type constants
const (
	EventTypePriceListCreated     = "PriceListCreated"
	EventTypePriceListActivated   = "PriceListActivated"
	EventTypePriceListDeactivated = "PriceListDeactivated"
)

// PriceListCreatedEvent is raised when a price list is created
type PriceListCreatedEvent struct {
	shared.BaseDomainEvent
	PriceListID   uuid.UUID  `json:"price_list_id"`
	SupplierID    uuid.UUID  `json:"supplier_id"`
	Code          string     `json:"code"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

// NewPriceListCreatedEvent creates a new PriceListCreatedEvent
func NewPriceListCreatedEvent(p *SupplierPriceList) *PriceListCreatedEvent {
	return &PriceListCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceListCreated, AggregateTypeSupplierPriceList, p.ID, p.TenantID),
		PriceListID:     p.ID,
		SupplierID:      p.SupplierID,
		Code:            p.Code,
		EffectiveFrom:   p.EffectiveFrom,
		EffectiveTo:     p.EffectiveTo,
	}
}

// EventType returns the event type name
func (e *PriceListCreatedEvent) EventType() string {
	return EventTypePriceListCreated
}

// PriceListStatusEvent is raised when a list is activated or deactivated
type PriceListStatusEvent struct {
	shared.BaseDomainEvent
	PriceListID uuid.UUID `json:"price_list_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Code        string    `json:"code"`
	IsActive    bool      `json:"is_active"`
}

// NewPriceListActivatedEvent creates the activation event
func NewPriceListActivatedEvent(p *SupplierPriceList) *PriceListStatusEvent {
	return newPriceListStatusEvent(EventTypePriceListActivated, p)
}

// NewPriceListDeactivatedEvent creates the deactivation event
func NewPriceListDeactivatedEvent(p *SupplierPriceList) *PriceListStatusEvent {
	return newPriceListStatusEvent(EventTypePriceListDeactivated, p)
}

func newPriceListStatusEvent(eventType string, p *SupplierPriceList) *PriceListStatusEvent {
	return &PriceListStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSupplierPriceList, p.ID, p.TenantID),
		PriceListID:     p.ID,
		SupplierID:      p.SupplierID,
		Code:            p.Code,
		IsActive:        p.IsActive,
	}
}

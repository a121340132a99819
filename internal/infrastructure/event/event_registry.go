package event

import (
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/procurement"
)

// RegisterAllEvents registers every procurement and supplier event so the
// outbox processor can rebuild them from stored payloads.
func RegisterAllEvents(serializer *EventSerializer) {
	// Purchase orders
	serializer.Register(procurement.EventTypePurchaseOrderCreated, &procurement.PurchaseOrderCreatedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderSubmitted, &procurement.PurchaseOrderSubmittedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderApproved, &procurement.PurchaseOrderApprovedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderRejected, &procurement.PurchaseOrderRejectedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderSent, &procurement.PurchaseOrderSentEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderAcknowledged, &procurement.PurchaseOrderAcknowledgedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderReceived, &procurement.PurchaseOrderReceivedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderCompleted, &procurement.PurchaseOrderCompletedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderHeld, &procurement.PurchaseOrderHeldEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderReleased, &procurement.PurchaseOrderReleasedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderCancelled, &procurement.PurchaseOrderCancelledEvent{})

	// Price lists
	serializer.Register(procurement.EventTypePriceListCreated, &procurement.PriceListCreatedEvent{})
	serializer.Register(procurement.EventTypePriceListActivated, &procurement.PriceListStatusEvent{})
	serializer.Register(procurement.EventTypePriceListDeactivated, &procurement.PriceListStatusEvent{})

	// Suppliers
	serializer.Register(partner.EventTypeSupplierCreated, &partner.SupplierCreatedEvent{})
	serializer.Register(partner.EventTypeSupplierUpdated, &partner.SupplierUpdatedEvent{})
	serializer.Register(partner.EventTypeSupplierStatusChanged, &partner.SupplierStatusChangedEvent{})
}

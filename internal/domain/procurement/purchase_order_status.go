package procurement

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusSubmitted         PurchaseOrderStatus = "SUBMITTED"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusSent              PurchaseOrderStatus = "SENT"
	PurchaseOrderStatusAcknowledged      PurchaseOrderStatus = "ACKNOWLEDGED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
	PurchaseOrderStatusOnHold            PurchaseOrderStatus = "ON_HOLD"
)

// AllPurchaseOrderStatuses lists every status in lifecycle order
func AllPurchaseOrderStatuses() []PurchaseOrderStatus {
	return []PurchaseOrderStatus{
		PurchaseOrderStatusDraft,
		PurchaseOrderStatusSubmitted,
		PurchaseOrderStatusApproved,
		PurchaseOrderStatusSent,
		PurchaseOrderStatusAcknowledged,
		PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled,
		PurchaseOrderStatusOnHold,
	}
}

// IsValid checks if the status is a known PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted, PurchaseOrderStatusApproved,
		PurchaseOrderStatusSent, PurchaseOrderStatusAcknowledged, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, PurchaseOrderStatusOnHold:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks the static transition table. From ON_HOLD only
// cancelling is listed: Release restores the held-from status itself, so no
// workflow step may run on a held order.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSubmitted || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSubmitted:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusDraft ||
			target == PurchaseOrderStatusCancelled || target == PurchaseOrderStatusOnHold
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusCancelled ||
			target == PurchaseOrderStatusOnHold
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusAcknowledged || target == PurchaseOrderStatusPartiallyReceived ||
			target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled ||
			target == PurchaseOrderStatusOnHold
	case PurchaseOrderStatusAcknowledged:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled || target == PurchaseOrderStatusOnHold
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusOnHold
	case PurchaseOrderStatusOnHold:
		return target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false
	}
	return false
}

// IsTerminal returns true for RECEIVED and CANCELLED
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// IsEditable returns true when lines and header may still change
func (s PurchaseOrderStatus) IsEditable() bool {
	return s == PurchaseOrderStatusDraft
}

// CanReceive returns true if goods may be received in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusSent || s == PurchaseOrderStatusAcknowledged ||
		s == PurchaseOrderStatusPartiallyReceived
}

// CanBeHeld returns true for the statuses an order may be put on hold from
func (s PurchaseOrderStatus) CanBeHeld() bool {
	switch s {
	case PurchaseOrderStatusSubmitted, PurchaseOrderStatusApproved, PurchaseOrderStatusSent,
		PurchaseOrderStatusAcknowledged, PurchaseOrderStatusPartiallyReceived:
		return true
	}
	return false
}

// IsOpen returns true for orders committed to the supplier and not yet finished
func (s PurchaseOrderStatus) IsOpen() bool {
	return !s.IsTerminal() && s != PurchaseOrderStatusDraft
}

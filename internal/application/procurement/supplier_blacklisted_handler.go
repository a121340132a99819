package procurement

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SupplierBlacklistedHandler puts every in-flight order of a supplier on hold
// when the supplier is blacklisted
type SupplierBlacklistedHandler struct {
	orderRepo procurement.PurchaseOrderRepository
	logger    *zap.Logger
}

// NewSupplierBlacklistedHandler creates a new handler for supplier status changes
func NewSupplierBlacklistedHandler(orderRepo procurement.PurchaseOrderRepository, logger *zap.Logger) *SupplierBlacklistedHandler {
	return &SupplierBlacklistedHandler{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SupplierBlacklistedHandler) EventTypes() []string {
	return []string{partner.EventTypeSupplierStatusChanged}
}

// Handle processes a SupplierStatusChangedEvent
func (h *SupplierBlacklistedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*partner.SupplierStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", partner.EventTypeSupplierStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			partner.EventTypeSupplierStatusChanged, event.EventType())
	}
	if !changed.IsBlacklisting() {
		return nil
	}

	tenantID := changed.TenantID()
	orders, err := h.orderRepo.FindOpenBySupplier(ctx, tenantID, changed.SupplierID)
	if err != nil {
		return fmt.Errorf("find open orders of supplier %s: %w", changed.Code, err)
	}

	reason := "Supplier blacklisted"
	if changed.Reason != "" {
		reason = fmt.Sprintf("Supplier blacklisted: %s", changed.Reason)
	}

	var errs error
	held := 0
	for i := range orders {
		order := &orders[i]
		if !order.Status.CanBeHeld() {
			continue
		}
		if err := order.Hold(reason); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("hold %s: %w", order.OrderNumber, err))
			continue
		}
		events := order.GetDomainEvents()
		order.ClearDomainEvents()
		if err := h.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("save %s: %w", order.OrderNumber, err))
			continue
		}
		held++
	}

	h.logger.Info("held open orders of blacklisted supplier",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_code", changed.Code),
		zap.Int("open_orders", len(orders)),
		zap.Int("held", held),
		zap.Error(errs),
	)
	return errs
}

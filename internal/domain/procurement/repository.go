package procurement

import (
	"context"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID regardless of tenant.
	// Used by event handlers that only carry the aggregate ID.
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForTenant finds a purchase order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindAllForTenant finds purchase orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindOpenBySupplier finds orders of a supplier that are neither draft nor terminal
	FindOpenBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order and replaces its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLockAndEvents saves with an optimistic version check and writes
	// the events to the outbox in the same transaction. An order that was
	// never stored is inserted.
	SaveWithLockAndEvents(ctx context.Context, order *PurchaseOrder, events []shared.DomainEvent) error

	// DeleteForTenant soft deletes a purchase order for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts purchase orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts purchase orders by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseOrderStatus) (int64, error)

	// CountOpenBySupplier counts open orders of a supplier
	CountOpenBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)

	// ExistsByOrderNumber checks if an order number exists for a tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber returns the next order number, formatted PO-YYYY-NNNNN
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// SupplierPriceListRepository defines the interface for price list persistence
type SupplierPriceListRepository interface {
	// FindByIDForTenant finds a price list by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SupplierPriceList, error)

	// FindAllForTenant finds price lists for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SupplierPriceList, error)

	// FindBySupplier finds all price lists of a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]SupplierPriceList, error)

	// FindEffectiveForSupplier finds active lists of a supplier whose window contains date,
	// latest effective_from first
	FindEffectiveForSupplier(ctx context.Context, tenantID, supplierID uuid.UUID, date time.Time) ([]SupplierPriceList, error)

	// ExistsByCode checks if a price list code exists for a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// CountForTenant counts price lists for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a price list and replaces its items
	Save(ctx context.Context, priceList *SupplierPriceList) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, priceList *SupplierPriceList) error

	// SaveWithLockAndEvents saves with an optimistic version check and writes
	// the events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, priceList *SupplierPriceList, events []shared.DomainEvent) error

	// DeleteForTenant soft deletes a price list for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

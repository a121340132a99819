package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// SetOutboxEventSaver enables transactional event storage in SaveWithLockAndEvents
func (r *GormPurchaseOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

func (r *GormPurchaseOrderRepository) findOne(ctx context.Context, query string, args ...any) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where(query, args...).
		First(&model).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByID finds a purchase order by ID regardless of tenant
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByIDForTenant finds a purchase order by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.findOne(ctx, "tenant_id = ? AND id = ?", tenantID, id)
}

// FindByOrderNumber finds a purchase order by order number within a tenant
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*procurement.PurchaseOrder, error) {
	return r.findOne(ctx, "tenant_id = ? AND order_number = ?", tenantID, orderNumber)
}

func (r *GormPurchaseOrderRepository) findMany(query *gorm.DB, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var rows []models.PurchaseOrderModel
	query = applyPage(r.applyFilter(query, filter), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, PurchaseOrderSortFields))
	if err := query.Preload("Items").Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]procurement.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

func (r *GormPurchaseOrderRepository) tenantQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("tenant_id = ?", tenantID)
}

// FindAllForTenant lists purchase orders of a tenant.
// Supported filter keys: supplier_id, status, statuses, start_date, end_date.
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	return r.findMany(r.tenantQuery(ctx, tenantID), filter)
}

// FindBySupplier lists purchase orders of a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	return r.findMany(r.tenantQuery(ctx, tenantID).Where("supplier_id = ?", supplierID), filter)
}

// FindByStatus lists purchase orders in one status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	return r.findMany(r.tenantQuery(ctx, tenantID).Where("status = ?", string(status)), filter)
}

// FindOpenBySupplier returns every open order of a supplier, oldest first
func (r *GormPurchaseOrderRepository) FindOpenBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	var rows []models.PurchaseOrderModel
	err := r.tenantQuery(ctx, tenantID).
		Where("supplier_id = ? AND status IN ?", supplierID, openStatuses()).
		Order("created_at ASC").
		Preload("Items").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	orders := make([]procurement.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Save creates or updates a purchase order without a version check
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.save(ctx, order, false, nil)
}

// SaveWithLock saves with an optimistic version check
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.save(ctx, order, true, nil)
}

// SaveWithLockAndEvents saves with an optimistic version check and stores
// events in the outbox within the same transaction
func (r *GormPurchaseOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *procurement.PurchaseOrder, events []shared.DomainEvent) error {
	return r.save(ctx, order, true, events)
}

func (r *GormPurchaseOrderRepository) save(ctx context.Context, order *procurement.PurchaseOrder, locked bool, events []shared.DomainEvent) error {
	now := time.Now()
	model := models.PurchaseOrderModelFromDomain(order)
	for i := range model.Items {
		model.Items[i].OrderID = order.ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		write := versionedWrite{
			model:   &models.PurchaseOrderModel{},
			id:      order.ID,
			version: order.Version,
			locked:  locked,
			insert: func(tx *gorm.DB) error {
				return tx.Omit(clause.Associations).Create(model).Error
			},
			columns: func() map[string]any { return purchaseOrderColumns(model) },
		}
		version, err := write.apply(tx, now)
		if err != nil {
			return err
		}

		if err := r.saveItems(tx, order.ID, model.Items); err != nil {
			return err
		}
		if err := saveOutbox(ctx, r.outboxSaver, tx, events); err != nil {
			return err
		}

		order.Version = version
		if version != write.version {
			order.UpdatedAt = now
		}
		return nil
	})
}

func (r *GormPurchaseOrderRepository) saveItems(tx *gorm.DB, orderID uuid.UUID, items []models.PurchaseOrderItemModel) error {
	keep := make([]uuid.UUID, len(items))
	for i := range items {
		keep[i] = items[i].ID
	}
	if err := replaceChildren(tx, &models.PurchaseOrderItemModel{}, "order_id", orderID, keep); err != nil {
		return err
	}
	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func purchaseOrderColumns(m *models.PurchaseOrderModel) map[string]any {
	return map[string]any{
		"supplier_id":            m.SupplierID,
		"supplier_name":          m.SupplierName,
		"status":                 string(m.Status),
		"currency":               string(m.Currency),
		"order_date":             m.OrderDate,
		"expected_delivery_date": m.ExpectedDeliveryDate,
		"payment_terms":          m.PaymentTerms,
		"notes":                  m.Notes,
		"submitted_at":           m.SubmittedAt,
		"submitted_by":           m.SubmittedBy,
		"approved_at":            m.ApprovedAt,
		"approved_by":            m.ApprovedBy,
		"rejection_reason":       m.RejectionReason,
		"sent_at":                m.SentAt,
		"acknowledged_at":        m.AcknowledgedAt,
		"supplier_reference":     m.SupplierReference,
		"received_at":            m.ReceivedAt,
		"cancelled_at":           m.CancelledAt,
		"cancel_reason":          m.CancelReason,
		"hold_reason":            m.HoldReason,
		"held_from_status":       string(m.HeldFromStatus),
	}
}

// DeleteForTenant soft deletes a purchase order; its items are removed
func (r *GormPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.PurchaseOrderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderItemModel{}).Error
	})
}

// CountForTenant counts purchase orders matching filter, ignoring pagination
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.tenantQuery(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// CountByStatus counts purchase orders in one status
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.PurchaseOrderStatus) (int64, error) {
	var count int64
	err := r.tenantQuery(ctx, tenantID).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

// CountOpenBySupplier counts open orders of a supplier
func (r *GormPurchaseOrderRepository) CountOpenBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.tenantQuery(ctx, tenantID).
		Where("supplier_id = ? AND status IN ?", supplierID, openStatuses()).
		Count(&count).Error
	return count, err
}

// ExistsByOrderNumber checks if an order number is taken within a tenant
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	err := r.tenantQuery(ctx, tenantID).Where("order_number = ?", orderNumber).Count(&count).Error
	return count > 0, err
}

// GenerateOrderNumber returns the next number of the current year, PO-YYYY-NNNNN.
// The sequence widens past 99999, so the highest number is the longest one.
// Soft deleted orders still reserve their numbers.
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("PO-%d-", time.Now().Year())

	var last []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&models.PurchaseOrderModel{}).
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(last) > 0 {
		if n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix)); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, next), nil
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(supplier_name) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			if id, ok := uuidValue(value); ok {
				query = query.Where("supplier_id = ?", id)
			}
		case "status":
			if s := stringValue(value); s != "" {
				query = query.Where("status = ?", s)
			}
		case "statuses":
			if statuses := stringsValue(value); len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}
	return query
}

func openStatuses() []string {
	var open []string
	for _, s := range procurement.AllPurchaseOrderStatuses() {
		if s.IsOpen() {
			open = append(open, string(s))
		}
	}
	return open
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

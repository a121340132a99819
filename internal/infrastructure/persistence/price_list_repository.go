package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplierPriceListRepository implements procurement.SupplierPriceListRepository using GORM
type GormSupplierPriceListRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSupplierPriceListRepository creates a new GormSupplierPriceListRepository
func NewGormSupplierPriceListRepository(db *gorm.DB) *GormSupplierPriceListRepository {
	return &GormSupplierPriceListRepository{db: db}
}

// SetOutboxEventSaver enables transactional event storage in SaveWithLockAndEvents
func (r *GormSupplierPriceListRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

func (r *GormSupplierPriceListRepository) tenantQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SupplierPriceListModel{}).Where("tenant_id = ?", tenantID)
}

func toPriceLists(rows []models.SupplierPriceListModel) []procurement.SupplierPriceList {
	lists := make([]procurement.SupplierPriceList, len(rows))
	for i := range rows {
		lists[i] = *rows[i].ToDomain()
	}
	return lists
}

// FindByIDForTenant finds a price list by ID within a tenant
func (r *GormSupplierPriceListRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.SupplierPriceList, error) {
	var model models.SupplierPriceListModel
	err := r.tenantQuery(ctx, tenantID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists price lists of a tenant.
// Supported filter keys: supplier_id, is_active.
func (r *GormSupplierPriceListRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.SupplierPriceList, error) {
	var rows []models.SupplierPriceListModel
	query := applyPage(r.applyFilter(r.tenantQuery(ctx, tenantID), filter), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, PriceListSortFields))
	if err := query.Preload("Items").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPriceLists(rows), nil
}

// FindBySupplier returns every price list of a supplier, latest effective_from first
func (r *GormSupplierPriceListRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]procurement.SupplierPriceList, error) {
	var rows []models.SupplierPriceListModel
	err := r.tenantQuery(ctx, tenantID).
		Where("supplier_id = ?", supplierID).
		Order("effective_from DESC").
		Preload("Items").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPriceLists(rows), nil
}

// FindEffectiveForSupplier returns the active lists of a supplier whose
// window contains date, latest effective_from first. The query narrows by a
// day either side and the domain rule decides the exact day match.
func (r *GormSupplierPriceListRepository) FindEffectiveForSupplier(ctx context.Context, tenantID, supplierID uuid.UUID, date time.Time) ([]procurement.SupplierPriceList, error) {
	var rows []models.SupplierPriceListModel
	err := r.tenantQuery(ctx, tenantID).
		Where("supplier_id = ? AND is_active = ?", supplierID, true).
		Where("effective_from <= ?", date.Add(24*time.Hour)).
		Where("effective_to IS NULL OR effective_to >= ?", date.Add(-24*time.Hour)).
		Order("effective_from DESC, created_at DESC").
		Preload("Items").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	effective := make([]procurement.SupplierPriceList, 0, len(rows))
	for _, list := range toPriceLists(rows) {
		if list.IsEffectiveOn(date) {
			effective = append(effective, list)
		}
	}
	return effective, nil
}

// ExistsByCode checks if a price list code is taken within a tenant
func (r *GormSupplierPriceListRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.tenantQuery(ctx, tenantID).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// CountForTenant counts price lists matching filter, ignoring pagination
func (r *GormSupplierPriceListRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.tenantQuery(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a price list without a version check
func (r *GormSupplierPriceListRepository) Save(ctx context.Context, priceList *procurement.SupplierPriceList) error {
	return r.save(ctx, priceList, false, nil)
}

// SaveWithLock saves with an optimistic version check
func (r *GormSupplierPriceListRepository) SaveWithLock(ctx context.Context, priceList *procurement.SupplierPriceList) error {
	return r.save(ctx, priceList, true, nil)
}

// SaveWithLockAndEvents saves with an optimistic version check and stores
// events in the outbox within the same transaction
func (r *GormSupplierPriceListRepository) SaveWithLockAndEvents(ctx context.Context, priceList *procurement.SupplierPriceList, events []shared.DomainEvent) error {
	return r.save(ctx, priceList, true, events)
}

func (r *GormSupplierPriceListRepository) save(ctx context.Context, priceList *procurement.SupplierPriceList, locked bool, events []shared.DomainEvent) error {
	now := time.Now()
	model := models.SupplierPriceListModelFromDomain(priceList)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		write := versionedWrite{
			model:   &models.SupplierPriceListModel{},
			id:      priceList.ID,
			version: priceList.Version,
			locked:  locked,
			insert: func(tx *gorm.DB) error {
				return tx.Omit(clause.Associations).Create(model).Error
			},
			columns: func() map[string]any {
				return map[string]any{
					"supplier_id":    model.SupplierID,
					"name":           model.Name,
					"currency":       string(model.Currency),
					"effective_from": model.EffectiveFrom,
					"effective_to":   model.EffectiveTo,
					"is_active":      model.IsActive,
					"notes":          model.Notes,
				}
			},
		}
		version, err := write.apply(tx, now)
		if err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(model.Items))
		for i := range model.Items {
			keep[i] = model.Items[i].ID
		}
		if err := replaceChildren(tx, &models.SupplierPriceListItemModel{}, "price_list_id", priceList.ID, keep); err != nil {
			return err
		}
		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return translateWriteError(err)
			}
		}

		if err := saveOutbox(ctx, r.outboxSaver, tx, events); err != nil {
			return err
		}

		priceList.Version = version
		if version != write.version {
			priceList.UpdatedAt = now
		}
		return nil
	})
}

// DeleteForTenant soft deletes a price list; its items are removed
func (r *GormSupplierPriceListRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.SupplierPriceListModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("price_list_id = ?", id).Delete(&models.SupplierPriceListItemModel{}).Error
	})
}

func (r *GormSupplierPriceListRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			if id, ok := uuidValue(value); ok {
				query = query.Where("supplier_id = ?", id)
			}
		case "is_active":
			if b, ok := boolValue(value); ok {
				query = query.Where("is_active = ?", b)
			}
		}
	}
	return query
}

var _ procurement.SupplierPriceListRepository = (*GormSupplierPriceListRepository)(nil)

package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// SetOutboxEventSaver enables transactional event storage in SaveWithLockAndEvents
func (r *GormSupplierRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

func (r *GormSupplierRepository) tenantQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SupplierModel{}).Where("tenant_id = ?", tenantID)
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.tenantQuery(ctx, tenantID).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a supplier by code within a tenant; codes are compared upper-cased
func (r *GormSupplierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	var model models.SupplierModel
	err := r.tenantQuery(ctx, tenantID).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists suppliers of a tenant.
// Supported filter keys: status, is_preferred, min_rating.
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var rows []models.SupplierModel
	query := applyPage(r.applyFilter(r.tenantQuery(ctx, tenantID), filter), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, SupplierSortFields))
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

// ExistsByCode checks if a supplier code is taken within a tenant
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.tenantQuery(ctx, tenantID).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a supplier without a version check
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.save(ctx, supplier, false, nil)
}

// SaveWithLockAndEvents saves with an optimistic version check and stores
// events in the outbox within the same transaction
func (r *GormSupplierRepository) SaveWithLockAndEvents(ctx context.Context, supplier *partner.Supplier, events []shared.DomainEvent) error {
	return r.save(ctx, supplier, true, events)
}

func (r *GormSupplierRepository) save(ctx context.Context, supplier *partner.Supplier, locked bool, events []shared.DomainEvent) error {
	now := time.Now()
	model := models.SupplierModelFromDomain(supplier)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		write := versionedWrite{
			model:   &models.SupplierModel{},
			id:      supplier.ID,
			version: supplier.Version,
			locked:  locked,
			insert: func(tx *gorm.DB) error {
				return tx.Create(model).Error
			},
			columns: func() map[string]any { return supplierColumns(model) },
		}
		version, err := write.apply(tx, now)
		if err != nil {
			return err
		}
		if err := saveOutbox(ctx, r.outboxSaver, tx, events); err != nil {
			return err
		}

		supplier.Version = version
		if version != write.version {
			supplier.UpdatedAt = now
		}
		return nil
	})
}

func supplierColumns(m *models.SupplierModel) map[string]any {
	return map[string]any{
		"name":                   m.Name,
		"status":                 string(m.Status),
		"status_reason":          m.StatusReason,
		"contact_name":           m.Contact.Name,
		"contact_email":          m.Contact.Email,
		"contact_phone":          m.Contact.Phone,
		"contact_website":        m.Contact.Website,
		"contact_address":        m.Contact.Address,
		"contact_city":           m.Contact.City,
		"contact_country":        m.Contact.Country,
		"contact_postal_code":    m.Contact.PostalCode,
		"tax_id":                 m.TaxID,
		"currency":               string(m.Currency),
		"payment_term_days":      m.PaymentTermDays,
		"credit_limit":           m.CreditLimit,
		"bank_name":              m.BankName,
		"bank_account":           m.BankAccount,
		"default_lead_time_days": m.DefaultLeadTimeDays,
		"minimum_order_amount":   m.MinimumOrderAmount,
		"rating":                 m.Rating,
		"is_preferred":           m.IsPreferred,
		"notes":                  m.Notes,
	}
}

// DeleteForTenant soft deletes a supplier
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.SupplierModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts suppliers matching filter, ignoring pagination
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.tenantQuery(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

func (r *GormSupplierRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			if s := stringValue(value); s != "" {
				query = query.Where("status = ?", s)
			}
		case "is_preferred":
			if b, ok := boolValue(value); ok {
				query = query.Where("is_preferred = ?", b)
			}
		case "min_rating":
			if n, ok := value.(int); ok {
				query = query.Where("rating >= ?", n)
			}
		}
	}
	return query
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)

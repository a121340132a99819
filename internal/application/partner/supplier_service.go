package partner

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OpenOrderCounter counts purchase orders still in flight with a supplier
type OpenOrderCounter interface {
	CountOpenBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)
}

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	orderCounter OpenOrderCounter
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, orderCounter OpenOrderCounter) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		orderCounter: orderCounter,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	// Check if code already exists
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}
	if req.Contact != nil {
		if err := supplier.UpdateContactInfo(req.Contact.toDomain()); err != nil {
			return nil, err
		}
	}
	if req.Financial != nil {
		if err := applyFinancial(supplier, *req.Financial); err != nil {
			return nil, err
		}
	}
	if req.Operational != nil {
		if err := supplier.UpdateOperationalInfo(req.Operational.toDomain()); err != nil {
			return nil, err
		}
	}

	events := supplier.GetDomainEvents()
	supplier.ClearDomainEvents()
	if err := s.supplierRepo.SaveWithLockAndEvents(ctx, supplier, events); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByCode retrieves a supplier by code
func (s *SupplierService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) ([]SupplierListResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.IsPreferred != nil {
		domainFilter.Filters["is_preferred"] = *filter.IsPreferred
	}
	if filter.MinRating != nil {
		domainFilter.Filters["min_rating"] = *filter.MinRating
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierListResponses(suppliers), total, nil
}

// Update renames a supplier or changes its notes
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(supplier *partner.Supplier) error {
		if req.Name != nil {
			if err := supplier.Rename(*req.Name); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			supplier.SetNotes(*req.Notes)
		}
		return nil
	})
}

// UpdateContact replaces the contact block
func (s *SupplierService) UpdateContact(ctx context.Context, tenantID, supplierID uuid.UUID, req ContactInfoRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(supplier *partner.Supplier) error {
		return supplier.UpdateContactInfo(req.toDomain())
	})
}

// UpdateFinancial replaces the financial block
func (s *SupplierService) UpdateFinancial(ctx context.Context, tenantID, supplierID uuid.UUID, req FinancialInfoRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(supplier *partner.Supplier) error {
		return applyFinancial(supplier, req)
	})
}

// UpdateOperational replaces the operational block
func (s *SupplierService) UpdateOperational(ctx context.Context, tenantID, supplierID uuid.UUID, req OperationalInfoRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(supplier *partner.Supplier) error {
		return supplier.UpdateOperationalInfo(req.toDomain())
	})
}

// Activate activates a supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, (*partner.Supplier).Activate)
}

// Deactivate deactivates a supplier
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, (*partner.Supplier).Deactivate)
}

// PutOnHold stops new orders to a supplier for a while
func (s *SupplierService) PutOnHold(ctx context.Context, tenantID, supplierID uuid.UUID, req SupplierStatusReasonRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(supplier *partner.Supplier) error {
		return supplier.PutOnHold(req.Reason)
	})
}

// Blacklist bans a supplier. Its open orders are put on hold asynchronously.
func (s *SupplierService) Blacklist(ctx context.Context, tenantID, supplierID uuid.UUID, req SupplierStatusReasonRequest) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Blacklist(req.Reason)
	})
}

// Reinstate lifts a ban, leaving the supplier inactive
func (s *SupplierService) Reinstate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, (*partner.Supplier).Reinstate)
}

// Delete deletes a supplier that no open purchase order references
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}

	if s.orderCounter != nil {
		open, err := s.orderCounter.CountOpenBySupplier(ctx, tenantID, supplierID)
		if err != nil {
			return err
		}
		if open > 0 {
			return shared.NewDomainError("SUPPLIER_IN_USE",
				fmt.Sprintf("Supplier %s has %d open purchase orders", supplier.Code, open))
		}
	}

	return s.supplierRepo.DeleteForTenant(ctx, tenantID, supplierID)
}

func (s *SupplierService) mutate(ctx context.Context, tenantID, supplierID uuid.UUID, change func(*partner.Supplier) error) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := change(supplier); err != nil {
		return nil, err
	}

	events := supplier.GetDomainEvents()
	supplier.ClearDomainEvents()
	if err := s.supplierRepo.SaveWithLockAndEvents(ctx, supplier, events); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

func applyFinancial(supplier *partner.Supplier, req FinancialInfoRequest) error {
	var currency valueobject.Currency
	if req.Currency != "" {
		c, err := valueobject.ParseCurrency(req.Currency)
		if err != nil {
			return shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		currency = c
	}
	return supplier.UpdateFinancialInfo(partner.FinancialInfo{
		TaxID:           req.TaxID,
		Currency:        currency,
		PaymentTermDays: req.PaymentTermDays,
		CreditLimit:     req.CreditLimit,
		BankName:        req.BankName,
		BankAccount:     req.BankAccount,
	})
}

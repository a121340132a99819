package procurement

import (
	"context"
	"sort"
	"time"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// PriceListService handles supplier price list operations and price lookup
type PriceListService struct {
	priceListRepo procurement.SupplierPriceListRepository
	supplierRepo  partner.SupplierRepository
	metrics       OrderMetrics
}

// NewPriceListService creates a new PriceListService
func NewPriceListService(priceListRepo procurement.SupplierPriceListRepository, supplierRepo partner.SupplierRepository) *PriceListService {
	return &PriceListService{
		priceListRepo: priceListRepo,
		supplierRepo:  supplierRepo,
	}
}

// SetMetrics sets the business metrics collector
func (s *PriceListService) SetMetrics(m OrderMetrics) {
	s.metrics = m
}

// Create creates a price list for an existing supplier
func (s *PriceListService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePriceListRequest) (*PriceListResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	exists, err := s.priceListRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Price list with this code already exists")
	}

	currency := supplier.Financial.Currency
	if req.Currency != "" {
		if currency, err = valueobject.ParseCurrency(req.Currency); err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	priceList, err := procurement.NewSupplierPriceList(tenantID, supplier.ID, req.Code, req.Name, currency, req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if _, err := priceList.AddItem(item.ProductID, item.ProductCode, item.UnitPrice, item.MinQuantity, item.LeadTimeDays); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		priceList.SetNotes(req.Notes)
	}

	if err := s.save(ctx, priceList); err != nil {
		return nil, err
	}
	response := ToPriceListResponse(priceList)
	return &response, nil
}

// GetByID retrieves a price list
func (s *PriceListService) GetByID(ctx context.Context, tenantID, priceListID uuid.UUID) (*PriceListResponse, error) {
	priceList, err := s.priceListRepo.FindByIDForTenant(ctx, tenantID, priceListID)
	if err != nil {
		return nil, err
	}
	response := ToPriceListResponse(priceList)
	return &response, nil
}

// List retrieves price lists with filtering and pagination
func (s *PriceListService) List(ctx context.Context, tenantID uuid.UUID, filter PriceListFilter) ([]PriceListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "effective_from"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	lists, err := s.priceListRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.priceListRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPriceListResponses(lists), total, nil
}

// Update renames a list or changes its notes
func (s *PriceListService) Update(ctx context.Context, tenantID, priceListID uuid.UUID, req UpdatePriceListRequest) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, func(p *procurement.SupplierPriceList) error {
		if req.Name != nil {
			if err := p.Rename(*req.Name); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			p.SetNotes(*req.Notes)
		}
		return nil
	})
}

// AddItem prices a product on the list
func (s *PriceListService) AddItem(ctx context.Context, tenantID, priceListID uuid.UUID, req PriceListItemRequest) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, func(p *procurement.SupplierPriceList) error {
		_, err := p.AddItem(req.ProductID, req.ProductCode, req.UnitPrice, req.MinQuantity, req.LeadTimeDays)
		return err
	})
}

// UpdateItem changes the terms of a product price
func (s *PriceListService) UpdateItem(ctx context.Context, tenantID, priceListID, productID uuid.UUID, req UpdatePriceListItemRequest) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, func(p *procurement.SupplierPriceList) error {
		return p.UpdateItem(productID, req.UnitPrice, req.MinQuantity, req.LeadTimeDays)
	})
}

// RemoveItem drops a product price from the list
func (s *PriceListService) RemoveItem(ctx context.Context, tenantID, priceListID, productID uuid.UUID) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, func(p *procurement.SupplierPriceList) error {
		return p.RemoveItem(productID)
	})
}

// ChangeEffectivePeriod moves the validity window of the list
func (s *PriceListService) ChangeEffectivePeriod(ctx context.Context, tenantID, priceListID uuid.UUID, req ChangeEffectivePeriodRequest) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, func(p *procurement.SupplierPriceList) error {
		return p.ChangeEffectivePeriod(req.EffectiveFrom, req.EffectiveTo)
	})
}

// Activate puts the list back into pricing
func (s *PriceListService) Activate(ctx context.Context, tenantID, priceListID uuid.UUID) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, (*procurement.SupplierPriceList).Activate)
}

// Deactivate takes the list out of pricing
func (s *PriceListService) Deactivate(ctx context.Context, tenantID, priceListID uuid.UUID) (*PriceListResponse, error) {
	return s.mutate(ctx, tenantID, priceListID, (*procurement.SupplierPriceList).Deactivate)
}

// Delete removes a price list
func (s *PriceListService) Delete(ctx context.Context, tenantID, priceListID uuid.UUID) error {
	if _, err := s.priceListRepo.FindByIDForTenant(ctx, tenantID, priceListID); err != nil {
		return err
	}
	return s.priceListRepo.DeleteForTenant(ctx, tenantID, priceListID)
}

// Quote prices a product from a supplier for an order placed on date. Among
// the supplier's lists effective on that date, the one with the latest
// effective-from date that carries the product wins.
func (s *PriceListService) Quote(ctx context.Context, tenantID, supplierID, productID uuid.UUID, quantity decimal.Decimal, date time.Time) (quote *procurement.PriceQuote, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PriceListService", "Quote",
		attribute.String("supplier_id", supplierID.String()),
		attribute.String("product_id", productID.String()),
	)
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordQuote(ctx, tenantID, quote != nil)
		}
		telemetry.EndSpan(span, err)
	}()

	lists, err := s.priceListRepo.FindEffectiveForSupplier(ctx, tenantID, supplierID, date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].EffectiveFrom.After(lists[j].EffectiveFrom)
	})

	for i := range lists {
		list := &lists[i]
		if !list.IsEffectiveOn(date) || list.GetItem(productID) == nil {
			continue
		}
		return list.PriceFor(productID, quantity, date)
	}
	return nil, shared.NewDomainError("PRICE_NOT_FOUND", "No effective price list of the supplier prices this product")
}

// QuotePrice answers a quote request, defaulting the date to today
func (s *PriceListService) QuotePrice(ctx context.Context, tenantID uuid.UUID, req QuoteRequest) (*PriceQuoteResponse, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	quote, err := s.Quote(ctx, tenantID, req.SupplierID, req.ProductID, req.Quantity, date)
	if err != nil {
		return nil, err
	}
	response := ToPriceQuoteResponse(quote, date)
	return &response, nil
}

func (s *PriceListService) mutate(ctx context.Context, tenantID, priceListID uuid.UUID, change func(*procurement.SupplierPriceList) error) (*PriceListResponse, error) {
	priceList, err := s.priceListRepo.FindByIDForTenant(ctx, tenantID, priceListID)
	if err != nil {
		return nil, err
	}
	if err := change(priceList); err != nil {
		return nil, err
	}
	if err := s.save(ctx, priceList); err != nil {
		return nil, err
	}
	response := ToPriceListResponse(priceList)
	return &response, nil
}

// save persists the list together with its pending events
func (s *PriceListService) save(ctx context.Context, priceList *procurement.SupplierPriceList) error {
	events := priceList.GetDomainEvents()
	priceList.ClearDomainEvents()
	return s.priceListRepo.SaveWithLockAndEvents(ctx, priceList, events)
}

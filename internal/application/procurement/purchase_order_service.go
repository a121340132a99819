package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// PriceQuoter prices a product from a supplier's effective price lists
type PriceQuoter interface {
	Quote(ctx context.Context, tenantID, supplierID, productID uuid.UUID, quantity decimal.Decimal, date time.Time) (*procurement.PriceQuote, error)
}

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo    procurement.PurchaseOrderRepository
	supplierRepo partner.SupplierRepository
	quoter       PriceQuoter
	metrics      OrderMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo procurement.PurchaseOrderRepository, supplierRepo partner.SupplierRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
	}
}

// SetPriceQuoter enables pricing lines from supplier price lists
func (s *PurchaseOrderService) SetPriceQuoter(q PriceQuoter) {
	s.quoter = q
}

// SetMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetMetrics(m OrderMetrics) {
	s.metrics = m
}

// Create creates a draft purchase order for a supplier that accepts orders
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (resp *PurchaseOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "Create",
		attribute.String("supplier_id", req.SupplierID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	supplier, err := s.orderableSupplier(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
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

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(tenantID, orderNumber, supplier.ID, supplier.Name, currency, orderDate)
	if err != nil {
		return nil, err
	}

	// Header defaults come from the supplier's terms
	terms := req.PaymentTerms
	if terms == "" {
		terms = supplier.PaymentTerms()
	}
	if terms != "" {
		if err := order.SetPaymentTerms(terms); err != nil {
			return nil, err
		}
	}
	delivery := req.ExpectedDeliveryDate
	if delivery == nil {
		delivery = supplier.ExpectedDeliveryFrom(orderDate)
	}
	if delivery != nil {
		if err := order.SetExpectedDeliveryDate(delivery); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := order.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		if err := s.addLine(ctx, order, item); err != nil {
			return nil, err
		}
	}

	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, tenantID)
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves a list of purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if len(filter.Statuses) > 0 {
		domainFilter.Filters["statuses"] = filter.Statuses
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// UpdateHeader changes delivery date, payment terms or notes of a draft order
func (s *PurchaseOrderService) UpdateHeader(ctx context.Context, tenantID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		if req.ExpectedDeliveryDate != nil {
			if err := order.SetExpectedDeliveryDate(req.ExpectedDeliveryDate); err != nil {
				return err
			}
		}
		if req.PaymentTerms != nil {
			if err := order.SetPaymentTerms(*req.PaymentTerms); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			if err := order.SetNotes(*req.Notes); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddItem adds a line to a draft order. Without a unit price the line is
// priced from the supplier's effective price list.
func (s *PurchaseOrderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req AddPurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return s.addLine(ctx, order, req)
	})
}

// UpdateItem changes a line of a draft order
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID, req UpdatePurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.UpdateItem(itemID, procurement.LineUpdate{
			Quantity:             req.Quantity,
			UnitPrice:            req.UnitPrice,
			TaxRate:              req.TaxRate,
			DiscountPercent:      req.DiscountPercent,
			ExpectedDeliveryDate: req.ExpectedDeliveryDate,
			Remark:               req.Remark,
		})
	})
}

// RemoveItem removes a line from a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.RemoveItem(itemID)
	})
}

// Submit sends a draft for approval. The supplier must still accept orders
// and the order must reach the supplier's minimum amount.
func (s *PurchaseOrderService) Submit(ctx context.Context, tenantID, orderID, submittedBy uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		supplier, err := s.orderableSupplier(ctx, tenantID, order.SupplierID)
		if err != nil {
			return err
		}
		amount := order.Totals().GrandTotal.Amount()
		if !supplier.MeetsMinimumOrder(amount) {
			return shared.NewDomainError("BELOW_MINIMUM_ORDER_AMOUNT",
				fmt.Sprintf("Order amount %s is below the supplier minimum of %s",
					amount.StringFixed(2), supplier.Operational.MinimumOrderAmount.StringFixed(2)))
		}
		if err := order.Submit(submittedBy); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.RecordOrderAmount(ctx, tenantID, string(order.Currency), amount)
		}
		return nil
	})
}

// Approve approves a submitted order
func (s *PurchaseOrderService) Approve(ctx context.Context, tenantID, orderID, approverID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Approve(approverID)
	})
}

// Reject sends a submitted order back to draft
func (s *PurchaseOrderService) Reject(ctx context.Context, tenantID, orderID uuid.UUID, req RejectPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Reject(req.Reason)
	})
}

// MarkSent records that an approved order was dispatched to the supplier
func (s *PurchaseOrderService) MarkSent(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, (*procurement.PurchaseOrder).MarkSent)
}

// Acknowledge records the supplier's confirmation
func (s *PurchaseOrderService) Acknowledge(ctx context.Context, tenantID, orderID uuid.UUID, req AcknowledgePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Acknowledge(req.SupplierReference)
	})
}

// Receive books a goods receipt against the order
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, orderID uuid.UUID, req ReceivePurchaseOrderRequest) (result *ReceiveResultResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "Receive",
		attribute.String("order_id", orderID.String()),
		attribute.Int("lines", len(req.Items)))
	defer func() { telemetry.EndSpan(span, err) }()

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status

	lines := make([]procurement.ReceiveLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = procurement.ReceiveLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	received, err := order.Receive(lines)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	s.recordTransition(ctx, order, from)
	if s.metrics != nil {
		s.metrics.RecordReceipt(ctx, tenantID, len(received), order.IsFullyReceived())
	}

	return &ReceiveResultResponse{
		Order:           ToPurchaseOrderResponse(order),
		ReceivedItems:   received,
		IsFullyReceived: order.IsFullyReceived(),
	}, nil
}

// Hold suspends an in-flight order
func (s *PurchaseOrderService) Hold(ctx context.Context, tenantID, orderID uuid.UUID, req HoldPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Hold(req.Reason)
	})
}

// Release resumes an order that was put on hold
func (s *PurchaseOrderService) Release(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, (*procurement.PurchaseOrder).Release)
}

// Cancel cancels an order that has not received any goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Cancel(req.Reason)
	})
}

// Delete deletes a draft or cancelled order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}

	if order.Status != procurement.PurchaseOrderStatusDraft && order.Status != procurement.PurchaseOrderStatusCancelled {
		return shared.NewDomainError("ORDER_INVALID_STATE", "Only draft or cancelled orders can be deleted")
	}

	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

// GetStatusSummary counts a tenant's orders per status
func (s *PurchaseOrderService) GetStatusSummary(ctx context.Context, tenantID uuid.UUID) (*PurchaseOrderStatusSummary, error) {
	statuses := procurement.AllPurchaseOrderStatuses()
	counts := make([]int64, len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range statuses {
		g.Go(func() error {
			n, err := s.orderRepo.CountByStatus(gctx, tenantID, status)
			if err != nil {
				return fmt.Errorf("count %s orders: %w", status, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &PurchaseOrderStatusSummary{ByStatus: make(map[string]int64, len(statuses))}
	for i, status := range statuses {
		summary.ByStatus[string(status)] = counts[i]
		summary.Total += counts[i]
		if status.IsOpen() {
			summary.Open += counts[i]
		}
	}
	return summary, nil
}

// orderableSupplier loads the supplier and checks that it accepts orders
func (s *PurchaseOrderService) orderableSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.CanReceiveOrders() {
		return nil, shared.NewDomainError("SUPPLIER_INVALID_STATE",
			fmt.Sprintf("Supplier %s cannot receive orders in %s status", supplier.Code, supplier.Status))
	}
	return supplier, nil
}

// addLine prices and appends one line to a draft order
func (s *PurchaseOrderService) addLine(ctx context.Context, order *procurement.PurchaseOrder, req AddPurchaseOrderItemRequest) error {
	line := procurement.NewLine{
		ProductID:            req.ProductID,
		ProductCode:          req.ProductCode,
		ProductName:          req.ProductName,
		Unit:                 req.Unit,
		Quantity:             req.Quantity,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Remark:               req.Remark,
	}
	if req.TaxRate != nil {
		line.TaxRate = *req.TaxRate
	}
	if req.DiscountPercent != nil {
		line.DiscountPercent = *req.DiscountPercent
	}

	switch {
	case req.UnitPrice != nil:
		line.UnitPrice = *req.UnitPrice
	case s.quoter == nil:
		return shared.NewDomainError("INVALID_PRICE", "Unit price is required")
	default:
		quote, err := s.quoter.Quote(ctx, order.TenantID, order.SupplierID, req.ProductID, req.Quantity, order.OrderDate)
		if err != nil {
			return err
		}
		if quote.Currency != order.Currency {
			return shared.NewDomainError("CURRENCY_MISMATCH",
				fmt.Sprintf("Price list currency %s differs from order currency %s", quote.Currency, order.Currency))
		}
		line.UnitPrice = quote.UnitPrice
		line.PriceListID = &quote.PriceListID
		if line.ExpectedDeliveryDate == nil {
			delivery := quote.ExpectedDelivery(order.OrderDate)
			line.ExpectedDeliveryDate = &delivery
		}
	}

	_, err := order.AddItem(line)
	return err
}

// mutate loads an order, applies change, and persists it with its events
func (s *PurchaseOrderService) mutate(ctx context.Context, tenantID, orderID uuid.UUID, change func(*procurement.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := change(order); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	s.recordTransition(ctx, order, from)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// persist saves with optimistic locking and writes the pending events to the
// outbox in the same transaction
func (s *PurchaseOrderService) persist(ctx context.Context, order *procurement.PurchaseOrder) error {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	return s.orderRepo.SaveWithLockAndEvents(ctx, order, events)
}

func (s *PurchaseOrderService) recordTransition(ctx context.Context, order *procurement.PurchaseOrder, from procurement.PurchaseOrderStatus) {
	if s.metrics == nil || from == order.Status {
		return
	}
	s.metrics.RecordStatusTransition(ctx, order.TenantID, string(from), string(order.Status))
}

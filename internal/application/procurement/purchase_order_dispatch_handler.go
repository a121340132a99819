package procurement

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultDispatchPrefix is the archive folder for dispatched orders
const DefaultDispatchPrefix = "purchase-orders"

// dispatchTemplate is the printable layout of a dispatch document
const dispatchTemplate = "purchase_order.html"

// DispatchDocument is the order as it was sent to the supplier
type DispatchDocument struct {
	TenantID             uuid.UUID                               `json:"tenant_id"`
	OrderID              uuid.UUID                               `json:"order_id"`
	OrderNumber          string                                  `json:"order_number"`
	SupplierID           uuid.UUID                               `json:"supplier_id"`
	SupplierName         string                                  `json:"supplier_name"`
	Currency             string                                  `json:"currency"`
	OrderDate            string                                  `json:"order_date"`
	ExpectedDeliveryDate string                                  `json:"expected_delivery_date,omitempty"`
	PaymentTerms         string                                  `json:"payment_terms,omitempty"`
	Lines                []procurement.PurchaseOrderLineSnapshot `json:"lines"`
	Subtotal             decimal.Decimal                         `json:"subtotal"`
	DiscountTotal        decimal.Decimal                         `json:"discount_total"`
	TaxTotal             decimal.Decimal                         `json:"tax_total"`
	GrandTotal           decimal.Decimal                         `json:"grand_total"`
	SentAt               time.Time                               `json:"sent_at"`
}

// DispatchKey is the archive key of an order's dispatch document
func DispatchKey(prefix string, tenantID uuid.UUID, orderNumber string) string {
	return dispatchKey(prefix, tenantID, orderNumber, "json")
}

// DispatchPDFKey is the archive key of the printed copy of a dispatch document
func DispatchPDFKey(prefix string, tenantID uuid.UUID, orderNumber string) string {
	return dispatchKey(prefix, tenantID, orderNumber, "pdf")
}

func dispatchKey(prefix string, tenantID uuid.UUID, orderNumber, ext string) string {
	if prefix == "" {
		prefix = DefaultDispatchPrefix
	}
	return fmt.Sprintf("%s/%s/%s.%s", strings.TrimSuffix(prefix, "/"), tenantID, orderNumber, ext)
}

// PurchaseOrderDispatchHandler archives the dispatch document of every sent order.
// With a printer set, a PDF copy is archived next to the JSON document.
type PurchaseOrderDispatchHandler struct {
	archive DocumentArchive
	printer DocumentPrinter
	prefix  string
	logger  *zap.Logger
}

// NewPurchaseOrderDispatchHandler creates a new handler for sent orders
func NewPurchaseOrderDispatchHandler(archive DocumentArchive, prefix string, logger *zap.Logger) *PurchaseOrderDispatchHandler {
	return &PurchaseOrderDispatchHandler{
		archive: archive,
		prefix:  prefix,
		logger:  logger,
	}
}

// SetPrinter enables the PDF copy
func (h *PurchaseOrderDispatchHandler) SetPrinter(printer DocumentPrinter) {
	h.printer = printer
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderDispatchHandler) EventTypes() []string {
	return []string{procurement.EventTypePurchaseOrderSent}
}

// Handle processes a PurchaseOrderSentEvent
func (h *PurchaseOrderDispatchHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sent, ok := event.(*procurement.PurchaseOrderSentEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", procurement.EventTypePurchaseOrderSent),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypePurchaseOrderSent, event.EventType())
	}

	key := DispatchKey(h.prefix, sent.TenantID(), sent.OrderNumber)
	exists, err := h.archive.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check dispatch document %s: %w", key, err)
	}
	if exists {
		h.logger.Debug("dispatch document already archived", zap.String("key", key))
		return nil
	}

	doc := DispatchDocument{
		TenantID:             sent.TenantID(),
		OrderID:              sent.OrderID,
		OrderNumber:          sent.OrderNumber,
		SupplierID:           sent.SupplierID,
		SupplierName:         sent.SupplierName,
		Currency:             string(sent.Currency),
		OrderDate:            sent.OrderDate,
		ExpectedDeliveryDate: sent.ExpectedDeliveryDate,
		PaymentTerms:         sent.PaymentTerms,
		Lines:                sent.Lines,
		Subtotal:             sent.Subtotal,
		DiscountTotal:        sent.DiscountTotal,
		TaxTotal:             sent.TaxTotal,
		GrandTotal:           sent.GrandTotal,
		SentAt:               sent.OccurredAt(),
	}
	// The JSON document marks completion, so the PDF goes first
	if h.printer != nil {
		if err := h.archivePDF(ctx, sent, &doc); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dispatch document: %w", err)
	}
	if err := h.archive.Put(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("archive dispatch document %s: %w", key, err)
	}

	h.logger.Info("archived purchase order dispatch document",
		zap.String("order_number", sent.OrderNumber),
		zap.String("key", key),
		zap.Int("lines", len(sent.Lines)),
	)
	return nil
}

func (h *PurchaseOrderDispatchHandler) archivePDF(ctx context.Context, sent *procurement.PurchaseOrderSentEvent, doc *DispatchDocument) error {
	key := DispatchPDFKey(h.prefix, sent.TenantID(), sent.OrderNumber)
	pdf, err := h.printer.Print(ctx, dispatchTemplate, "Purchase Order "+sent.OrderNumber, doc)
	if err != nil {
		return fmt.Errorf("print dispatch document %s: %w", sent.OrderNumber, err)
	}
	if err := h.archive.Put(ctx, key, pdf, "application/pdf"); err != nil {
		return fmt.Errorf("archive dispatch document %s: %w", key, err)
	}
	h.logger.Debug("archived printed dispatch document", zap.String("key", key), zap.Int("bytes", len(pdf)))
	return nil
}

package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Attribute keys on procurement metrics
const (
	AttrTenantID   = attribute.Key("tenant_id")
	AttrCurrency   = attribute.Key("currency")
	AttrFromStatus = attribute.Key("from_status")
	AttrToStatus   = attribute.Key("to_status")
	AttrCompleted  = attribute.Key("completed")
	AttrFound      = attribute.Key("found")
)

// ProcurementMetrics records purchase order activity
type ProcurementMetrics struct {
	ordersCreated     *Counter
	orderAmount       *Histogram
	statusTransitions *Counter
	receipts          *Counter
	receivedLines     *Counter
	quotes            *Counter
}

// NewProcurementMetrics registers the procurement instruments on meter
func NewProcurementMetrics(meter metric.Meter) (*ProcurementMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   ProcurementMetrics
		err error
	)
	if m.ordersCreated, err = NewCounter(meter,
		"procurement_purchase_orders_created_total", "Purchase orders created", "{orders}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewHistogram(meter,
		"procurement_purchase_order_amount", "Grand total of approved purchase orders", "{currency}",
		[]float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}); err != nil {
		return nil, err
	}
	if m.statusTransitions, err = NewCounter(meter,
		"procurement_purchase_order_transitions_total", "Purchase order status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if m.receipts, err = NewCounter(meter,
		"procurement_receipts_total", "Goods receipts recorded against purchase orders", "{receipts}"); err != nil {
		return nil, err
	}
	if m.receivedLines, err = NewCounter(meter,
		"procurement_received_lines_total", "Order lines touched by goods receipts", "{lines}"); err != nil {
		return nil, err
	}
	if m.quotes, err = NewCounter(meter,
		"procurement_price_quotes_total", "Supplier price lookups", "{quotes}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordOrderCreated counts a new purchase order
func (m *ProcurementMetrics) RecordOrderCreated(ctx context.Context, tenantID uuid.UUID) {
	m.ordersCreated.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordOrderAmount observes an order grand total
func (m *ProcurementMetrics) RecordOrderAmount(ctx context.Context, tenantID uuid.UUID, currency string, amount decimal.Decimal) {
	m.orderAmount.Record(ctx, amount.InexactFloat64(),
		AttrTenantID.String(tenantID.String()),
		AttrCurrency.String(currency),
	)
}

// RecordStatusTransition counts a status change
func (m *ProcurementMetrics) RecordStatusTransition(ctx context.Context, tenantID uuid.UUID, from, to string) {
	m.statusTransitions.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrFromStatus.String(from),
		AttrToStatus.String(to),
	)
}

// RecordReceipt counts a goods receipt touching lines order lines. completed is
// true when the receipt fully received the order.
func (m *ProcurementMetrics) RecordReceipt(ctx context.Context, tenantID uuid.UUID, lines int, completed bool) {
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID.String()), AttrCompleted.Bool(completed)}
	m.receipts.Inc(ctx, attrs...)
	m.receivedLines.Add(ctx, int64(lines), attrs...)
}

// RecordQuote counts a price lookup and whether a price was found
func (m *ProcurementMetrics) RecordQuote(ctx context.Context, tenantID uuid.UUID, found bool) {
	m.quotes.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrFound.Bool(found))
}

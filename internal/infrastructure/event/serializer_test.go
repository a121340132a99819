package event

import (
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTripsPurchaseOrderSent(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	order, err := procurement.NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.New(), "Acme Supply",
		valueobject.CNY, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = order.AddItem(procurement.NewLine{
		ProductID:   uuid.New(),
		ProductCode: "P-1",
		ProductName: "Bolt",
		Unit:        "pcs",
		Quantity:    decimal.NewFromInt(10),
		UnitPrice:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.NoError(t, order.Submit(uuid.New()))
	require.NoError(t, order.Approve(uuid.New()))
	require.NoError(t, order.MarkSent())

	events := order.GetDomainEvents()
	sent := events[len(events)-1]
	require.Equal(t, procurement.EventTypePurchaseOrderSent, sent.EventType())

	data, err := s.Serialize(sent)
	require.NoError(t, err)

	decoded, err := s.Deserialize(sent.EventType(), data)
	require.NoError(t, err)

	got, ok := decoded.(*procurement.PurchaseOrderSentEvent)
	require.True(t, ok)
	assert.Equal(t, sent.EventID(), got.EventID())
	assert.Equal(t, order.ID, got.AggregateID())
	assert.Equal(t, order.TenantID, got.TenantID())
	assert.Len(t, got.Lines, 1)
}

func TestEventSerializer_StatusEventsShareType(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list, err := procurement.NewSupplierPriceList(uuid.New(), uuid.New(), "pl-1", "Standard", valueobject.CNY, from, nil)
	require.NoError(t, err)
	require.NoError(t, list.Deactivate())

	events := list.GetDomainEvents()
	deactivated := events[len(events)-1]

	data, err := s.Serialize(deactivated)
	require.NoError(t, err)
	decoded, err := s.Deserialize(procurement.EventTypePriceListDeactivated, data)
	require.NoError(t, err)

	assert.Equal(t, procurement.EventTypePriceListDeactivated, decoded.EventType())
	assert.False(t, decoded.(*procurement.PriceListStatusEvent).IsActive)
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()

	_, err := s.Deserialize("Nope", []byte(`{}`))
	assert.ErrorContains(t, err, "unknown event type")
}

func TestEventSerializer_InvalidPayload(t *testing.T) {
	s := NewEventSerializer()
	s.Register(partner.EventTypeSupplierCreated, &partner.SupplierCreatedEvent{})

	_, err := s.Deserialize(partner.EventTypeSupplierCreated, []byte(`{not json`))
	assert.Error(t, err)
}

func TestRegisterAllEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	for _, eventType := range []string{
		procurement.EventTypePurchaseOrderCreated,
		procurement.EventTypePurchaseOrderReceived,
		procurement.EventTypePurchaseOrderCancelled,
		procurement.EventTypePriceListActivated,
		partner.EventTypeSupplierStatusChanged,
	} {
		assert.True(t, s.IsRegistered(eventType), eventType)
	}
	assert.Len(t, s.RegisteredTypes(), 17)
}

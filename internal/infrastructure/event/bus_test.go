package event

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryEventBus_PublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	sent := &recordingHandler{types: []string{procurement.EventTypePurchaseOrderSent}}
	all := &recordingHandler{}

	bus.Subscribe(sent)
	bus.Subscribe(all)

	tenantID := uuid.New()
	err := bus.Publish(context.Background(),
		newTestEvent(procurement.EventTypePurchaseOrderSent, tenantID),
		newTestEvent(procurement.EventTypePurchaseOrderApproved, tenantID),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, sent.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A", uuid.New())))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("B", uuid.New())))

	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_HandlerErrorsAreReturnedAfterAllHandlersRun(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"X"}, err: errors.New("storage down")}
	ok := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(ok)

	err := bus.Publish(context.Background(), newTestEvent("X", uuid.New()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage down")
	assert.Equal(t, 1, ok.count())
}

func TestInMemoryEventBus_PanicBecomesError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	after := &recordingHandler{}
	bus.Subscribe(panickingHandler{})
	bus.Subscribe(after)

	err := bus.Publish(context.Background(), newTestEvent("Y", uuid.New()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, 1, after.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"Z"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("Z", uuid.New())))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.IsRunning())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
}

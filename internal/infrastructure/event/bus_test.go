package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &e
}

func TestBusDeliversToMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	interested := &recordingHandler{types: []string{"stock.applied"}}
	other := &recordingHandler{types: []string{"document.created"}}
	bus.Subscribe(interested)
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.applied")))

	assert.Len(t, interested.received, 1)
	assert.Empty(t, other.received)
}

func TestBusDeliversToWildcardHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	wildcard := &recordingHandler{}
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("stock.applied"),
		newTestEvent("document.created"),
	))
	assert.Len(t, wildcard.received, 2)
}

func TestBusExplicitTypesOverrideHandlerList(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"stock.applied"}}
	bus.Subscribe(handler, "document.created")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.applied")))
	assert.Empty(t, handler.received)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("document.created")))
	assert.Len(t, handler.received, 1)
}

func TestBusContainsHandlerFailures(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"stock.applied"}, err: errors.New("downstream unavailable")}
	healthy := &recordingHandler{types: []string{"stock.applied"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	// a failing handler is logged, publishing still succeeds
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.applied")))
	assert.Len(t, healthy.received, 1)
}

func TestBusContainsHandlerPanics(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"stock.applied"}, panics: true}
	healthy := &recordingHandler{types: []string{"stock.applied"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.applied")))
	assert.Len(t, healthy.received, 1)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"stock.applied"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.applied")))
	require.Len(t, handler.received, 1)

	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.applied")))
	assert.Len(t, handler.received, 1)
}

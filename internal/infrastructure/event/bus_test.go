package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Invoice", uuid.New())}
}

type recordingHandler struct {
	types   []string
	err     error
	panics  bool
	mu      sync.Mutex
	handled []shared.DomainEvent
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, e)
	h.mu.Unlock()
	if h.panics {
		panic("handler blew up")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	sent := &recordingHandler{types: []string{finance.EventTypeInvoiceSent}}
	all := &recordingHandler{}
	bus.Subscribe(sent)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent(finance.EventTypeInvoiceSent),
		newTestEvent(finance.EventTypeInvoicePaid),
	))

	assert.Equal(t, 1, sent.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailuresDoNotPropagate(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"X"}, err: errors.New("smtp down")}
	panicking := &recordingHandler{types: []string{"X"}, panics: true}
	healthy := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		assert.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)
	_ = bus.Publish(context.Background(), newTestEvent("X"))
	bus.Unsubscribe(h)
	_ = bus.Publish(context.Background(), newTestEvent("X"))

	assert.Equal(t, 1, h.count())
	assert.Empty(t, bus.registry.Handlers("X"))
}

func TestInMemoryEventBus_AsyncStopWaits(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	require.NoError(t, bus.Start(context.Background()))
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("X"), newTestEvent("X")))
	cancel()

	stopCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Equal(t, 2, h.count())
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/aescanero/demoflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishDelivers(t *testing.T) {
	bus := NewEventBus()
	ctx := context.Background()

	received := make(chan ports.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, "demo.events", func(_ context.Context, event ports.Event) error {
		received <- event
		return nil
	}))

	event := ports.Event{ID: "1", Type: domain.EventTypeSessionStarted}
	require.NoError(t, bus.Publish(ctx, "demo.events", event))

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, event.Type, got.Type)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventBus_TopicsAreIsolated(t *testing.T) {
	bus := NewEventBus()
	ctx := context.Background()

	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.Subscribe(ctx, "demo.narration", func(_ context.Context, _ ports.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "demo.events", ports.Event{ID: "1"}))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestEventBus_FanOut(t *testing.T) {
	bus := NewEventBus()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		require.NoError(t, bus.Subscribe(ctx, "demo.events", func(_ context.Context, _ ports.Event) error {
			wg.Done()
			return nil
		}))
	}

	require.NoError(t, bus.Publish(ctx, "demo.events", ports.Event{ID: "1"}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all subscribers received the event")
	}
}

func TestEventBus_ContextCancelRemovesSubscription(t *testing.T) {
	bus := NewEventBus()

	subCtx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.Subscribe(subCtx, "demo.events", func(_ context.Context, _ ports.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	cancel()

	// Removal happens on a goroutine watching ctx.Done
	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subscribers["demo.events"]) == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), "demo.events", ports.Event{ID: "1"}))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestEventBus_CloseDropsSubscriptions(t *testing.T) {
	bus := NewEventBus()
	ctx := context.Background()

	require.NoError(t, bus.Subscribe(ctx, "demo.events", func(_ context.Context, _ ports.Event) error {
		t.Error("handler must not run after Close")
		return nil
	}))

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Publish(ctx, "demo.events", ports.Event{ID: "1"}))

	time.Sleep(50 * time.Millisecond)
}

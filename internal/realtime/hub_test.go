//go:build unit

package realtime_test

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clubops/internal/events"
	"clubops/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBus struct {
	mu       sync.Mutex
	handlers map[string]func(events.Envelope)
	unsubs   atomic.Int32
}

func newStubBus() *stubBus {
	return &stubBus{handlers: map[string]func(events.Envelope){}}
}

func (b *stubBus) Subscribe(subject string, handler func(env events.Envelope)) (events.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = handler
	return stubSubscription{bus: b}, nil
}

func (b *stubBus) Close() {}

// publish invokes the handler directly, the way a bus callback would:
// possibly after Unsubscribe has already returned.
func (b *stubBus) publish(subject string, env events.Envelope) {
	b.mu.Lock()
	handler := b.handlers[subject]
	b.mu.Unlock()
	if handler != nil {
		handler(env)
	}
}

type stubSubscription struct {
	bus *stubBus
}

func (s stubSubscription) Unsubscribe() error {
	s.bus.unsubs.Add(1)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestHub_Open(t *testing.T) {
	t.Run("declared types filter delivery", func(t *testing.T) {
		bus := newStubBus()
		hub := realtime.NewHub(bus, testLogger())

		stream, err := hub.Open(context.Background(), "lane-1", []string{events.SessionUpdated})
		require.NoError(t, err)
		defer stream.Close()

		bus.publish(events.LaneSubject("lane-1"), events.Envelope{Type: events.InventoryUpdated})
		bus.publish(events.LaneSubject("lane-1"), events.Envelope{Type: events.SessionUpdated})

		env := <-stream.C
		assert.Equal(t, events.SessionUpdated, env.Type)
		assert.Empty(t, stream.C)
	})

	t.Run("empty type set receives everything", func(t *testing.T) {
		bus := newStubBus()
		hub := realtime.NewHub(bus, testLogger())

		stream, err := hub.Open(context.Background(), "lane-1", nil)
		require.NoError(t, err)
		defer stream.Close()

		bus.publish(events.LaneSubject("lane-1"), events.Envelope{Type: events.SessionUpdated})
		bus.publish(events.BroadcastSubject, events.Envelope{Type: events.InventoryUpdated})

		assert.Equal(t, events.SessionUpdated, (<-stream.C).Type)
		assert.Equal(t, events.InventoryUpdated, (<-stream.C).Type)
	})

	t.Run("close unsubscribes lane and broadcast subjects", func(t *testing.T) {
		bus := newStubBus()
		hub := realtime.NewHub(bus, testLogger())

		stream, err := hub.Open(context.Background(), "lane-1", nil)
		require.NoError(t, err)

		stream.Close()
		<-stream.Done()

		require.Eventually(t, func() bool {
			return bus.unsubs.Load() == 2
		}, time.Second, time.Millisecond)
	})

	t.Run("delivery after close does not panic", func(t *testing.T) {
		bus := newStubBus()
		hub := realtime.NewHub(bus, testLogger())

		stream, err := hub.Open(context.Background(), "lane-1", nil)
		require.NoError(t, err)

		stream.Close()
		<-stream.Done()

		assert.NotPanics(t, func() {
			for i := 0; i < 100; i++ {
				bus.publish(events.LaneSubject("lane-1"), events.Envelope{Type: events.SessionUpdated})
			}
		})
	})

	t.Run("shutdown racing an in-flight delivery is safe", func(t *testing.T) {
		bus := newStubBus()
		hub := realtime.NewHub(bus, testLogger())

		for i := 0; i < 500; i++ {
			stream, err := hub.Open(context.Background(), "lane-1", nil)
			require.NoError(t, err)

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					bus.publish(events.LaneSubject("lane-1"), events.Envelope{Type: events.SessionUpdated})
				}
			}()

			stream.Close()
			wg.Wait()
		}
	})
}

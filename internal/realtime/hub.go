// Package realtime bridges the event bus to server-sent-event streams. Each
// connection declares the event types it wants; everything else is filtered
// out before it reaches the wire.
package realtime

import (
	"context"
	"log/slog"

	"clubops/internal/events"
)

// Stream is one client connection's view of the bus. Events arrive on C
// until the context given to Open is done; readers must select on Done
// rather than wait for C to close, because bus callbacks can still be
// in flight after shutdown and C is never closed.
type Stream struct {
	C      <-chan events.Envelope
	done   <-chan struct{}
	cancel func()
}

func (s *Stream) Done() <-chan struct{} {
	return s.done
}

func (s *Stream) Close() {
	s.cancel()
}

type Hub struct {
	sub    events.Subscriber
	logger *slog.Logger
}

func NewHub(sub events.Subscriber, logger *slog.Logger) *Hub {
	return &Hub{sub: sub, logger: logger}
}

// Open subscribes the connection to its lane subject plus the venue
// broadcast subject, filtered to the declared event types. An empty type set
// means everything.
func (h *Hub) Open(ctx context.Context, laneID string, eventTypes []string) (*Stream, error) {
	wanted := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		wanted[t] = struct{}{}
	}

	// Buffered so a slow reader drops late rather than blocking the bus
	// callback; the poll backstop covers any gap.
	ch := make(chan events.Envelope, 64)
	ctx, cancel := context.WithCancel(ctx)

	deliver := func(env events.Envelope) {
		if len(wanted) > 0 {
			if _, ok := wanted[env.Type]; !ok {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		select {
		case ch <- env:
		default:
			h.logger.Warn("dropping event for slow stream", "lane_id", laneID, "type", env.Type)
		}
	}

	laneSub, err := h.sub.Subscribe(events.LaneSubject(laneID), deliver)
	if err != nil {
		cancel()
		return nil, err
	}
	broadcastSub, err := h.sub.Subscribe(events.BroadcastSubject, deliver)
	if err != nil {
		_ = laneSub.Unsubscribe()
		cancel()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		// ch stays open: Unsubscribe does not wait for an in-flight
		// callback, so closing here could panic a concurrent deliver.
		if err := laneSub.Unsubscribe(); err != nil {
			h.logger.Warn("failed to unsubscribe lane stream", "lane_id", laneID, "error", err)
		}
		if err := broadcastSub.Unsubscribe(); err != nil {
			h.logger.Warn("failed to unsubscribe broadcast stream", "lane_id", laneID, "error", err)
		}
	}()

	return &Stream{C: ch, done: ctx.Done(), cancel: cancel}, nil
}

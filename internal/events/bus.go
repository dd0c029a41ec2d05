package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Subjects are scoped per lane; inventory, waitlist and checkout traffic
// goes out on the venue broadcast subject.
const (
	BroadcastSubject  = "venue.events"
	laneSubjectPrefix = "lane."
)

func LaneSubject(laneID string) string {
	return laneSubjectPrefix + laneID + ".events"
}

type Publisher interface {
	Publish(ctx context.Context, subject string, env Envelope) error
	Close()
}

// Subscriber delivers at-least-once; handlers must tolerate duplicates and
// reordering across event types.
type Subscriber interface {
	Subscribe(subject string, handler func(env Envelope)) (Subscription, error)
	Close()
}

type Subscription interface {
	Unsubscribe() error
}

type Bus interface {
	Publisher
	Subscriber
}

// Emit marshals the payload and publishes it, logging and swallowing
// failures: event fan-out is best effort, the poll backstop covers losses.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, subject, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal event payload", "type", eventType, "error", err)
		return
	}

	env := Envelope{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}
	if err := pub.Publish(ctx, subject, env); err != nil {
		logger.Warn("failed to publish event", "type", eventType, "subject", subject, "error", err)
	}
}

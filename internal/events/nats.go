package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"clubops/internal/pkg/errs"

	"github.com/nats-io/nats.go"
)

// NATSBus carries lane and venue events over NATS core. Delivery is
// at-least-once from the client's point of view: on reconnect subscribers
// start from scratch and rely on polling to catch up.
type NATSBus struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNATSBus(url string, logger *slog.Logger) (*NATSBus, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to NATS")
	}

	return &NATSBus{conn: conn, logger: logger}, nil
}

func (b *NATSBus) Publish(_ context.Context, subject string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return errs.Wrap(err, "failed to marshal event envelope")
	}
	return b.conn.Publish(subject, data)
}

func (b *NATSBus) Subscribe(subject string, handler func(env Envelope)) (Subscription, error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			// Malformed events are dropped, never fatal.
			b.logger.Warn("dropping unparseable event", "subject", msg.Subject, "error", err)
			return
		}
		handler(env)
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to subscribe")
	}
	return sub, nil
}

func (b *NATSBus) Close() {
	b.conn.Close()
}

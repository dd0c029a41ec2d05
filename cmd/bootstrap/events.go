package bootstrap

import (
	"context"
	"log/slog"

	"clubops/internal/events"
	"clubops/internal/pkg/config"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		fx.Annotate(
			NewEventBus,
			fx.As(new(events.Publisher)),
			fx.As(new(events.Subscriber)),
		),
	),
)

func NewEventBus(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*events.NATSBus, error) {
	bus, err := events.NewNATSBus(cfg.NATS.URL, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			bus.Close()
			return nil
		},
	})

	return bus, nil
}
